// Package metrics содержит Prometheus метрики платежного контура.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pay_orders_created_total",
		Help: "Orders persisted in CREATED state.",
	})

	// Callbacks считает колбэки по каналу (return/notify) и результату
	// обработки: терминальное состояние заказа либо причина отказа.
	Callbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pay_gateway_callbacks_total",
		Help: "Gateway callbacks by channel and handling result.",
	}, []string{"channel", "result"})

	IntegrityAnomalies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pay_integrity_anomalies_total",
		Help: "Security-relevant callback anomalies by kind.",
	}, []string{"kind"})
)
