package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/gateway"
	"github.com/fsdevblog/groph-pay/internal/service"
)

const defaultOrdersLimit uint = 100

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type CreateOrderRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description" binding:"required,max=255"`
	BankHint    string `json:"bank_hint" binding:"omitempty,max=32,bank_code"`
}

type CreateOrderResponse struct {
	Reference   string `json:"reference"`
	RedirectURL string `json:"redirect_url"`
}

type OrderResponse struct {
	Reference  string                `json:"reference"`
	CreatedAt  time.Time             `json:"created_at"`
	SettledAt  *time.Time            `json:"settled_at,omitempty"`
	Amount     int64                 `json:"amount"`
	State      domain.OrderStateType `json:"state"`
	ResultCode string                `json:"result_code,omitempty"`
	Message    string                `json:"message,omitempty"`
}

func orderResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		Reference:  order.Reference,
		CreatedAt:  order.CreatedAt,
		SettledAt:  order.SettledAt,
		Amount:     order.Amount,
		State:      order.State,
		ResultCode: order.ResultCode,
	}
	if order.ResultCode != "" {
		resp.Message = gateway.Resolve(order.ResultCode).Message
	}
	return resp
}

// Create POST RouteGroup + OrdersRoute.
func (o *OrdersHandler) Create(c *gin.Context) {
	var req CreateOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	result, createErr := o.orderSvs.Create(reqCtx, service.CreateOrderArgs{
		Amount:      req.Amount,
		Description: req.Description,
		BankHint:    req.BankHint,
		ClientIP:    c.ClientIP(),
	})
	if createErr != nil {
		var invalidAmountErr *domain.InvalidAmountError
		if errors.As(createErr, &invalidAmountErr) {
			_ = c.AbortWithError(http.StatusUnprocessableEntity, invalidAmountErr).
				SetType(gin.ErrorTypePublic)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, createErr).
			SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusCreated, CreateOrderResponse{
		Reference:   result.Order.Reference,
		RedirectURL: result.RedirectURL,
	})
}

// Show GET RouteGroup + OrderStatusRoute. Поллинг статуса заказа для UI:
// на редирект полагаться нельзя, пользователь может его не донести.
func (o *OrdersHandler) Show(c *gin.Context) {
	reference := c.Param("reference")

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.GetStatus(reqCtx, reference)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, orderResponse(order))
}

// Index GET RouteGroup + OrdersRoute.
func (o *OrdersHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := o.orderSvs.GetAll(reqCtx, defaultOrdersLimit)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).
			SetType(gin.ErrorTypePrivate)
		return
	}

	if len(orders) == 0 {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	var response = make([]OrderResponse, len(orders))
	for i := range orders {
		response[i] = orderResponse(&orders[i])
	}

	c.JSON(http.StatusOK, response)
}
