package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrUnknown        = errors.New("unknown error")

	// ErrReferenceAllocation возвращается когда не удалось выделить уникальный
	// номер заказа за отведенное число попыток.
	ErrReferenceAllocation = errors.New("order reference allocation failed")
)

// InvalidAmountError сигнализирует о сумме вне допустимых границ. Заказ при этом
// не создается.
type InvalidAmountError struct {
	Amount int64
	Min    int64
	Max    int64
}

func NewInvalidAmountError(amount, minAmount, maxAmount int64) error {
	return &InvalidAmountError{Amount: amount, Min: minAmount, Max: maxAmount}
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("amount %d is out of allowed range [%d, %d]", e.Amount, e.Min, e.Max)
}
