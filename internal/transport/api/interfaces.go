package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/gateway"
	"github.com/fsdevblog/groph-pay/internal/service"
)

// OrderServicer интерфейс исключительно для моков.
type OrderServicer interface {
	Create(ctx context.Context, args service.CreateOrderArgs) (*service.CreateOrderResult, error)
	GetStatus(ctx context.Context, reference string) (*domain.Order, error)
	GetAll(ctx context.Context, limit uint) ([]domain.Order, error)
}

type CallbackServicer interface {
	HandleReturn(ctx context.Context, claim *gateway.CallbackClaim) (*service.ReturnDisposition, error)
	HandleNotify(ctx context.Context, claim *gateway.CallbackClaim) service.NotifyAck
}
