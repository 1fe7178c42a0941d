package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/gateway"
	"github.com/fsdevblog/groph-pay/internal/metrics"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
	"github.com/fsdevblog/groph-pay/internal/sign"
)

const (
	// maxReferenceAttempts сколько раз пробуем выделить уникальный reference
	// прежде чем сдаться с domain.ErrReferenceAllocation.
	maxReferenceAttempts = 3

	referenceSuffixBytes = 6
)

// GatewayConfig параметры интеграции с платежным шлюзом.
type GatewayConfig struct {
	BaseURL      string
	TerminalCode string
	Secret       []byte
	MinAmount    int64
	MaxAmount    int64
}

type OrderService struct {
	orderRepo OrderRepository
	conf      GatewayConfig
	now       func() time.Time
}

func NewOrderService(orderRepo OrderRepository, conf GatewayConfig) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		conf:      conf,
		now:       time.Now,
	}
}

// SetClock подменяет источник времени (для тестов).
func (o *OrderService) SetClock(now func() time.Time) *OrderService {
	o.now = now
	return o
}

type CreateOrderArgs struct {
	Amount      int64
	Description string
	BankHint    string
	ClientIP    string
}

type CreateOrderResult struct {
	Order       *domain.Order
	RedirectURL string
}

// Create валидирует сумму, выделяет уникальный reference, сохраняет заказ в
// состоянии CREATED и строит подписанный redirect URL на шлюз. Редиректом
// занимается вызывающая сторона, сетевых вызовов здесь нет.
//
// Ошибки: *domain.InvalidAmountError при сумме вне границ (заказ не создается),
// domain.ErrReferenceAllocation при исчерпании попыток выделения reference.
func (o *OrderService) Create(ctx context.Context, args CreateOrderArgs) (*CreateOrderResult, error) {
	if args.Amount < o.conf.MinAmount || args.Amount > o.conf.MaxAmount {
		return nil, domain.NewInvalidAmountError(args.Amount, o.conf.MinAmount, o.conf.MaxAmount)
	}

	var order *domain.Order
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		reference, refErr := o.newReference()
		if refErr != nil {
			return nil, fmt.Errorf("creating order: %w", refErr)
		}

		created, createErr := o.orderRepo.Create(ctx, repoargs.OrderCreate{
			Reference:   reference,
			Amount:      args.Amount,
			Description: args.Description,
			BankHint:    args.BankHint,
		})
		if createErr != nil {
			// Коллизию reference разрешает атомарный Create репозитория:
			// проигравший просто пробует снова со свежим reference.
			if errors.Is(createErr, domain.ErrDuplicateKey) {
				continue
			}
			return nil, fmt.Errorf("creating order: %w", createErr)
		}
		order = created
		break
	}
	if order == nil {
		return nil, domain.ErrReferenceAllocation
	}

	redirectURL, urlErr := o.RedirectURL(order, args.ClientIP)
	if urlErr != nil {
		return nil, fmt.Errorf("creating order: %w", urlErr)
	}

	metrics.OrdersCreated.Inc()

	return &CreateOrderResult{Order: order, RedirectURL: redirectURL}, nil
}

// RedirectURL строит подписанный URL на шлюз для заказа. Подпись считается по
// неэкранированной каноничной строке, сам URL собирается обычным query encoding.
func (o *OrderService) RedirectURL(order *domain.Order, clientIP string) (string, error) {
	params := map[string]string{
		gateway.FieldVersion:      gateway.ProtocolVersion,
		gateway.FieldCommand:      gateway.CommandPay,
		gateway.FieldTerminalCode: o.conf.TerminalCode,
		gateway.FieldAmount:       gateway.ScaleAmount(order.Amount),
		gateway.FieldTxnRef:       order.Reference,
		gateway.FieldOrderInfo:    order.Description,
		gateway.FieldIPAddr:       clientIP,
		gateway.FieldCreateDate:   o.now().Format(gateway.TimeLayout),
	}
	if order.BankHint != "" {
		params[gateway.FieldBankCode] = order.BankHint
	}
	params[sign.SecureHashField] = sign.SignParams(params, o.conf.Secret)

	base, parseErr := url.Parse(o.conf.BaseURL)
	if parseErr != nil {
		return "", fmt.Errorf("parse gateway base url: %s", parseErr.Error())
	}
	query := base.Query()
	for k, v := range params {
		query.Set(k, v)
	}
	base.RawQuery = query.Encode()
	return base.String(), nil
}

// GetStatus возвращает заказ по reference. Чистое чтение для поллинга UI.
func (o *OrderService) GetStatus(ctx context.Context, reference string) (*domain.Order, error) {
	order, err := o.orderRepo.FindByReference(ctx, reference)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return order, nil
}

// GetAll возвращает заказы отсортированные по дате создания по убыванию.
func (o *OrderService) GetAll(ctx context.Context, limit uint) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetAll(ctx, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// PendingOrders возвращает незавершенные заказы для фонового драйвера симулятора.
func (o *OrderService) PendingOrders(ctx context.Context, limit uint) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetPending(ctx, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// newReference генерирует reference вида <timestamp>-<hex suffix>. Уникальность
// с подавляющей вероятностью дает случайный суффикс, остаточные коллизии ловит
// уникальный индекс в репозитории.
func (o *OrderService) newReference() (string, error) {
	suffix := make([]byte, referenceSuffixBytes)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate reference suffix: %s", err.Error())
	}
	return o.now().Format("20060102150405") + "-" + hex.EncodeToString(suffix), nil
}
