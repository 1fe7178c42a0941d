package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/groph-pay/internal/domain"
	"github.com/fsdevblog/groph-pay/internal/gateway"
	"github.com/fsdevblog/groph-pay/internal/metrics"
	"github.com/fsdevblog/groph-pay/internal/repository/repoargs"
)

// ReturnTag причина отказа return канала. Пустой тег - колбэк дошел до коммита.
type ReturnTag string

const (
	TagNone             ReturnTag = ""
	TagInvalidSignature ReturnTag = "invalid_signature"
	TagOrderNotFound    ReturnTag = "order_not_found"
	TagAmountMismatch   ReturnTag = "amount_mismatch"
)

// ReturnDisposition итог обработки return колбэка. При непустом Tag состояние
// заказа не менялось и Order может быть nil.
type ReturnDisposition struct {
	Tag   ReturnTag
	Order *domain.Order
}

// Success сообщает, можно ли вести пользователя на страницу успеха. Решение
// принимается по финальному состоянию заказа, а не по коду из этого вызова:
// авторитетный notify мог успеть закоммитить другой исход.
func (d *ReturnDisposition) Success() bool {
	return d.Tag == TagNone && d.Order != nil && d.Order.State == domain.OrderStateCompleted
}

// Коды подтверждения notify канала. Шлюз повторяет отправку пока не получит
// разбираемый ack; любой код кроме NotifyCodeConfirmed трактуется им как
// указание повторить.
const (
	NotifyCodeConfirmed    = "00"
	NotifyCodeNotFound     = "01"
	NotifyCodeBadAmount    = "04"
	NotifyCodeBadSignature = "97"
	NotifyCodeUnknownError = "99"
)

// NotifyAck фиксированный формат подтверждения notify канала.
type NotifyAck struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CallbackService обрабатывает оба канала колбэков шлюза. Верификация,
// таксономия и коммит общие; каналы отличаются уровнем доверия и контрактом
// ответа.
type CallbackService struct {
	orderRepo OrderRepository
	secret    []byte
	l         *logrus.Entry
}

func NewCallbackService(orderRepo OrderRepository, secret []byte, l *logrus.Logger) *CallbackService {
	return &CallbackService{
		orderRepo: orderRepo,
		secret:    secret,
		l:         l.WithField("component", "callback"),
	}
}

// HandleReturn обрабатывает недоверенный browser redirect от шлюза. Ошибки
// целостности не приводят к смене состояния и не возвращаются как error:
// вызывающая сторона всегда получает ReturnDisposition для редиректа. Ошибка
// возвращается только при инфраструктурном сбое репозитория. Метод безопасно
// вызывать ноль и более раз для одного reference.
func (c *CallbackService) HandleReturn(ctx context.Context, claim *gateway.CallbackClaim) (*ReturnDisposition, error) {
	verified, ok := claim.Verify(c.secret)
	if !ok {
		c.recordAnomaly("return", claim.Reference(), "invalid_signature")
		metrics.Callbacks.WithLabelValues("return", "invalid_signature").Inc()
		return &ReturnDisposition{Tag: TagInvalidSignature}, nil
	}

	order, findErr := c.orderRepo.FindByReference(ctx, verified.Reference)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			c.recordAnomaly("return", verified.Reference, "order_not_found")
			metrics.Callbacks.WithLabelValues("return", "order_not_found").Inc()
			return &ReturnDisposition{Tag: TagOrderNotFound}, nil
		}
		return nil, fmt.Errorf("handling return callback: %w", findErr)
	}

	if !c.amountMatches("return", verified, order) {
		metrics.Callbacks.WithLabelValues("return", "amount_mismatch").Inc()
		return &ReturnDisposition{Tag: TagAmountMismatch}, nil
	}

	committed, commitErr := c.commit(ctx, "return", verified)
	if commitErr != nil {
		return nil, fmt.Errorf("handling return callback: %w", commitErr)
	}

	metrics.Callbacks.WithLabelValues("return", string(committed.State)).Inc()
	return &ReturnDisposition{Order: committed}, nil
}

// HandleNotify обрабатывает авторитетный server-to-server колбэк. Любая ветка
// завершается корректным ack: шлюз повторяет все, что не смог разобрать как
// однозначное подтверждение. Повторный notify по терминальному заказу получает
// NotifyCodeConfirmed без повторного применения бизнес-эффекта.
func (c *CallbackService) HandleNotify(ctx context.Context, claim *gateway.CallbackClaim) NotifyAck {
	verified, ok := claim.Verify(c.secret)
	if !ok {
		c.recordAnomaly("notify", claim.Reference(), "invalid_signature")
		metrics.Callbacks.WithLabelValues("notify", "invalid_signature").Inc()
		return NotifyAck{Code: NotifyCodeBadSignature, Message: "invalid signature"}
	}

	order, findErr := c.orderRepo.FindByReference(ctx, verified.Reference)
	if findErr != nil {
		if errors.Is(findErr, domain.ErrRecordNotFound) {
			c.recordAnomaly("notify", verified.Reference, "order_not_found")
			metrics.Callbacks.WithLabelValues("notify", "order_not_found").Inc()
			return NotifyAck{Code: NotifyCodeNotFound, Message: "order not found"}
		}
		c.l.WithError(findErr).Error("notify: order lookup failed")
		return NotifyAck{Code: NotifyCodeUnknownError, Message: "internal error"}
	}

	if !c.amountMatches("notify", verified, order) {
		metrics.Callbacks.WithLabelValues("notify", "amount_mismatch").Inc()
		return NotifyAck{Code: NotifyCodeBadAmount, Message: "invalid amount"}
	}

	committed, commitErr := c.commit(ctx, "notify", verified)
	if commitErr != nil {
		c.l.WithError(commitErr).Error("notify: commit failed")
		return NotifyAck{Code: NotifyCodeUnknownError, Message: "internal error"}
	}

	metrics.Callbacks.WithLabelValues("notify", string(committed.State)).Inc()
	return NotifyAck{Code: NotifyCodeConfirmed, Message: "confirmed"}
}

// amountMatches сверяет сумму колбэка с суммой на заказе. Сумма заказа записана
// при создании и единственная которой доверяют; сумма колбэка служит лишь для
// детектирования подмены.
func (c *CallbackService) amountMatches(channel string, verified *gateway.VerifiedCallback, order *domain.Order) bool {
	amountMinor, amountErr := verified.AmountMinor()
	if amountErr != nil || amountMinor != order.Amount {
		c.recordAnomaly(channel, verified.Reference, "amount_mismatch")
		return false
	}
	return true
}

// commit запрашивает переход состояния. Расхождение повторного колбэка с уже
// записанным исходом фиксируется как аномалия, но переход не перезапускается.
func (c *CallbackService) commit(ctx context.Context, channel string, verified *gateway.VerifiedCallback) (*domain.Order, error) {
	outcome := gateway.Resolve(verified.ResultCode)

	committed, err := c.orderRepo.Commit(ctx, repoargs.OrderCommit{
		Reference:   verified.Reference,
		State:       domain.StateForSuccess(outcome.Success),
		ResultCode:  verified.ResultCode,
		GatewayTxID: verified.GatewayTxID,
	})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if committed.ResultCode != verified.ResultCode {
		c.recordAnomaly(channel, verified.Reference, "result_code_disagreement")
	}
	return committed, nil
}

// recordAnomaly логирует security-relevant аномалию. Какая именно проверка не
// прошла наружу не отдается - только в лог и метрики.
func (c *CallbackService) recordAnomaly(channel, reference, kind string) {
	metrics.IntegrityAnomalies.WithLabelValues(kind).Inc()
	c.l.WithFields(logrus.Fields{
		"channel":   channel,
		"reference": reference,
		"anomaly":   kind,
	}).Warn("callback integrity anomaly")
}
