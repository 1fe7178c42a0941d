package simgateway

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/service"
)

type Servicer interface {
	PendingOrders(ctx context.Context, limit uint) ([]domain.Order, error)
	RedirectURL(order *domain.Order, clientIP string) (string, error)
}

// Notifier доставляет notify колбэк мерчанту. В нашем случае мерчант - мы сами:
// колбэк уходит HTTP запросом на собственный notify endpoint, как это делал бы
// настоящий шлюз.
type Notifier interface {
	Notify(ctx context.Context, params map[string]string) (*service.NotifyAck, error)
}
