package service

import (
	"context"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type OrderRepository interface {
	Create(ctx context.Context, args repoargs.OrderCreate) (*domain.Order, error)
	FindByReference(ctx context.Context, reference string) (*domain.Order, error)
	GetAll(ctx context.Context, limit uint) ([]domain.Order, error)
	GetPending(ctx context.Context, limit uint) ([]domain.Order, error)
	Commit(ctx context.Context, args repoargs.OrderCommit) (*domain.Order, error)
}
