package service

import (
	"github.com/sirupsen/logrus"
)

type AppServices struct {
	OrderService    *OrderService
	CallbackService *CallbackService
}

func Factory(orderRepo OrderRepository, conf GatewayConfig, l *logrus.Logger) *AppServices {
	return &AppServices{
		OrderService:    NewOrderService(orderRepo, conf),
		CallbackService: NewCallbackService(orderRepo, conf.Secret, l),
	}
}
