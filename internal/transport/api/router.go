package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-pay/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup       = "/api"
	OrdersRoute      = "/orders"
	OrderStatusRoute = "/orders/:reference"
	ReturnRoute      = "/payment/return"
	NotifyRoute      = "/payment/notify"
	MetricsRoute     = "/metrics"
)

type RouterArgs struct {
	Logger          *logrus.Logger
	OrderService    OrderServicer
	CallbackService CallbackServicer
	JWTSecretKey    []byte
	Landing         LandingConfig
}

func New(args RouterArgs) *gin.Engine {
	if err := registerValidators(); err != nil && args.Logger != nil {
		args.Logger.WithError(err).Error("register validators")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	ordersHandler := NewOrdersHandler(args.OrderService)
	callbackHandler := NewCallbackHandler(args.CallbackService, args.Landing)

	r.GET(MetricsRoute, gin.WrapH(promhttp.Handler()))

	apiGroup := r.Group(RouteGroup)

	// Колбэки шлюза авторизует подпись, а не JWT.
	apiGroup.GET(ReturnRoute, callbackHandler.Return)
	apiGroup.GET(NotifyRoute, callbackHandler.Notify)

	apiGroup.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	apiGroup.POST(OrdersRoute, ordersHandler.Create)
	apiGroup.GET(OrdersRoute, ordersHandler.Index)
	apiGroup.GET(OrderStatusRoute, ordersHandler.Show)

	return r
}
