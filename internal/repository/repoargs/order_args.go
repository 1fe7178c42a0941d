package repoargs

import (
	"github.com/fsdevblog/groph-pay/internal/domain"
)

type OrderCreate struct {
	Reference   string
	Amount      int64
	Description string
	BankHint    string
}

// OrderCommit аргументы перевода заказа в терминальное состояние.
type OrderCommit struct {
	Reference   string
	State       domain.OrderStateType
	ResultCode  string
	GatewayTxID string
}
