// Package memrepo хранит заказы в памяти процесса. Используется в тестах и в
// dev режиме с симулятором шлюза, когда БД не поднимается.
package memrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
)

type OrderRepository struct {
	mu     sync.Mutex
	seq    int64
	orders map[string]*domain.Order
	now    func() time.Time
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[string]*domain.Order),
		now:    time.Now,
	}
}

// SetClock подменяет источник времени (для тестов).
func (o *OrderRepository) SetClock(now func() time.Time) *OrderRepository {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.now = now
	return o
}

// Create вставляет заказ в состоянии CREATED. Вставка атомарна: при
// конкурентном создании одного reference выигрывает ровно один вызов.
func (o *OrderRepository) Create(ctx context.Context, args repoargs.OrderCreate) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.orders[args.Reference]; ok {
		return nil, fmt.Errorf(
			"[repository/creating order with reference `%s`] %w", args.Reference, domain.ErrDuplicateKey)
	}

	o.seq++
	now := o.now()
	order := &domain.Order{
		ID:          o.seq,
		CreatedAt:   now,
		UpdatedAt:   now,
		Reference:   args.Reference,
		Amount:      args.Amount,
		Description: args.Description,
		BankHint:    args.BankHint,
		State:       domain.OrderStateCreated,
	}
	o.orders[args.Reference] = order

	copied := *order
	return &copied, nil
}

func (o *OrderRepository) FindByReference(ctx context.Context, reference string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	order, ok := o.orders[reference]
	if !ok {
		return nil, fmt.Errorf(
			"[repository/finding order by reference `%s`] %w", reference, domain.ErrRecordNotFound)
	}
	copied := *order
	return &copied, nil
}

func (o *OrderRepository) GetAll(ctx context.Context, limit uint) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	return o.collect(limit, func(*domain.Order) bool { return true }, true), nil
}

func (o *OrderRepository) GetPending(ctx context.Context, limit uint) ([]domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	return o.collect(limit, func(order *domain.Order) bool {
		return order.State == domain.OrderStateCreated
	}, false), nil
}

// Commit переводит заказ CREATED -> терминальное состояние под общим мьютексом,
// что дает линеаризуемость коммитов по reference. Уже терминальный заказ
// возвращается без изменений (идемпотентный no-op).
func (o *OrderRepository) Commit(ctx context.Context, args repoargs.OrderCommit) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err //nolint:wrapcheck
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	order, ok := o.orders[args.Reference]
	if !ok {
		return nil, fmt.Errorf(
			"[repository/committing order with reference `%s`] %w", args.Reference, domain.ErrRecordNotFound)
	}

	if order.State == domain.OrderStateCreated {
		now := o.now()
		order.State = args.State
		order.ResultCode = args.ResultCode
		order.GatewayTxID = args.GatewayTxID
		order.SettledAt = &now
		order.UpdatedAt = now
	}

	copied := *order
	return &copied, nil
}

// collect вызывается только под мьютексом.
func (o *OrderRepository) collect(limit uint, keep func(*domain.Order) bool, newestFirst bool) []domain.Order {
	var orders []domain.Order
	for _, order := range o.orders {
		if keep(order) {
			orders = append(orders, *order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if newestFirst {
			return orders[i].CreatedAt.After(orders[j].CreatedAt)
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	if limit > 0 && uint(len(orders)) > limit {
		orders = orders[:limit]
	}
	return orders
}
