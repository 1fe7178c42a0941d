package simgateway

import (
	"errors"
	"fmt"
)

var ErrNoOrders = errors.New("no pending orders")

type StatusCodeError struct {
	StatusCode int
}

func NewStatusCodeError(code int) error {
	return &StatusCodeError{StatusCode: code}
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("unexpected notify endpoint status code %d", e.StatusCode)
}
