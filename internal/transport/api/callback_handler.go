package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/groph-pay/internal/gateway"
	"github.com/fsdevblog/groph-pay/internal/service"
)

// LandingConfig страницы, на которые возвращается пользователь после оплаты.
type LandingConfig struct {
	SuccessURL string
	FailureURL string
}

// CallbackHandler принимает оба канала колбэков шлюза. Return отвечает
// редиректом на landing страницу, notify - фиксированным ack объектом.
type CallbackHandler struct {
	callbackSvs CallbackServicer
	landing     LandingConfig
}

func NewCallbackHandler(callbackSvs CallbackServicer, landing LandingConfig) *CallbackHandler {
	return &CallbackHandler{
		callbackSvs: callbackSvs,
		landing:     landing,
	}
}

// Return GET RouteGroup + ReturnRoute. Недоверенный канал: браузер пользователя
// может подменить, повторить или не донести этот запрос. Любой исход
// завершается редиректом; причина отказа наружу не детализируется сверх тега.
func (h *CallbackHandler) Return(c *gin.Context) {
	claim := gateway.ClaimFromQuery(c.Request.URL.Query())

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	disposition, err := h.callbackSvs.HandleReturn(reqCtx, claim)
	if err != nil {
		_ = c.Error(err).SetType(gin.ErrorTypePrivate)
		h.redirect(c, h.landing.FailureURL, claim.Reference(), "processing_error")
		return
	}

	if disposition.Tag != service.TagNone {
		h.redirect(c, h.landing.FailureURL, claim.Reference(), string(disposition.Tag))
		return
	}

	// Решение по финальному состоянию заказа: авторитетный notify мог успеть
	// закоммитить другой исход раньше этого редиректа.
	if disposition.Success() {
		h.redirect(c, h.landing.SuccessURL, disposition.Order.Reference, "")
		return
	}
	h.redirect(c, h.landing.FailureURL, disposition.Order.Reference, "payment_failed")
}

// Notify GET RouteGroup + NotifyRoute. Авторитетный server-to-server канал.
// Всегда HTTP 200 с ack объектом: сигнал ретрая несет код в теле, а не статус.
func (h *CallbackHandler) Notify(c *gin.Context) {
	claim := gateway.ClaimFromQuery(c.Request.URL.Query())

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	ack := h.callbackSvs.HandleNotify(reqCtx, claim)
	c.JSON(http.StatusOK, ack)
}

func (h *CallbackHandler) redirect(c *gin.Context, landingURL, reference, reason string) {
	target, parseErr := url.Parse(landingURL)
	if parseErr != nil {
		// конфигурация битая, отдать пользователю нечего.
		_ = c.AbortWithError(http.StatusInternalServerError, parseErr).SetType(gin.ErrorTypePrivate)
		return
	}
	query := target.Query()
	if reference != "" {
		query.Set("reference", reference)
	}
	if reason != "" {
		query.Set("reason", reason)
	}
	target.RawQuery = query.Encode()

	c.Redirect(http.StatusFound, target.String())
}
