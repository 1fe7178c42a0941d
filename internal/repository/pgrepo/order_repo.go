package pgrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
)

const orderColumns = `id, created_at, updated_at, reference, amount, description, bank_hint, state, result_code, gateway_tx_id, settled_at`

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create вставляет заказ в состоянии CREATED. Уникальность reference
// гарантирует БД: при конкурентной вставке одного reference выигрывает ровно
// одна, остальные получают domain.ErrDuplicateKey.
func (o *OrderRepository) Create(ctx context.Context, args repoargs.OrderCreate) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, `
		INSERT INTO orders (reference, amount, description, bank_hint, state)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+orderColumns,
		args.Reference, args.Amount, args.Description, args.BankHint, domain.OrderStateCreated,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order with reference `%s`", args.Reference)
	}
	return order, nil
}

func (o *OrderRepository) FindByReference(ctx context.Context, reference string) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE reference = $1`, reference)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by reference `%s`", reference)
	}
	return order, nil
}

// GetAll возвращает заказы отсортированные по дате создания по убыванию.
func (o *OrderRepository) GetAll(ctx context.Context, limit uint) ([]domain.Order, error) {
	rows, err := o.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, int64(limit))
	if err != nil {
		return nil, convertErr(err, "getting orders")
	}
	return collectOrders(rows, "getting orders")
}

// GetPending возвращает незавершенные заказы, старые в начале.
func (o *OrderRepository) GetPending(ctx context.Context, limit uint) ([]domain.Order, error) {
	rows, err := o.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE state = $1 ORDER BY created_at ASC LIMIT $2`,
		domain.OrderStateCreated, int64(limit))
	if err != nil {
		return nil, convertErr(err, "getting pending orders")
	}
	return collectOrders(rows, "getting pending orders")
}

// Commit переводит заказ CREATED -> терминальное состояние. Переход выполняется
// одним compare-and-set запросом, поэтому конкурентные коммиты одного reference
// линеаризуются на уровне БД: побеждает ровно один, остальные получают заказ
// как есть. Повторный коммит уже терминального заказа - no-op, возвращается
// существующая запись без ошибки. Неизвестный reference - domain.ErrRecordNotFound.
func (o *OrderRepository) Commit(ctx context.Context, args repoargs.OrderCommit) (*domain.Order, error) {
	row := o.db.QueryRow(ctx, `
		UPDATE orders
		SET state = $2, result_code = $3, gateway_tx_id = $4, settled_at = now(), updated_at = now()
		WHERE reference = $1 AND state = $5
		RETURNING `+orderColumns,
		args.Reference, args.State, args.ResultCode, args.GatewayTxID, domain.OrderStateCreated,
	)
	order, err := scanOrder(row)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, convertErr(err, "committing order with reference `%s`", args.Reference)
	}

	// CAS не сработал: либо заказ уже терминальный (идемпотентный no-op),
	// либо его не существует.
	return o.FindByReference(ctx, args.Reference)
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.Reference,
		&order.Amount,
		&order.Description,
		&order.BankHint,
		&order.State,
		&order.ResultCode,
		&order.GatewayTxID,
		&order.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func collectOrders(rows pgx.Rows, msg string) ([]domain.Order, error) {
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, convertErr(err, "%s", msg)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, convertErr(err, "%s", msg)
	}
	return orders, nil
}
