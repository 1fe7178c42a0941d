package domain

type OrderStateType string

const (
	OrderStateCreated   OrderStateType = "CREATED"
	OrderStateCompleted OrderStateType = "COMPLETED"
	OrderStateFailed    OrderStateType = "FAILED"
)

// StateForSuccess конвертирует флаг успеха шлюза в терминальное состояние заказа.
func StateForSuccess(success bool) OrderStateType {
	if success {
		return OrderStateCompleted
	}
	return OrderStateFailed
}
