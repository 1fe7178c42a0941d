package domain

import (
	"time"
)

// Order представляет одну попытку оплаты через платежный шлюз.
//
// Amount хранится в минимальных единицах валюты (копейки/центы) и после создания
// заказа никогда не перезаписывается. Сумма из колбэка используется только для
// детектирования подмены.
type Order struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Reference   string
	Amount      int64
	Description string
	BankHint    string
	State       OrderStateType
	ResultCode  string
	GatewayTxID string
	SettledAt   *time.Time
}

// IsTerminal сообщает, достиг ли заказ финального состояния.
func (o *Order) IsTerminal() bool {
	return o.State == OrderStateCompleted || o.State == OrderStateFailed
}
