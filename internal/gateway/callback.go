package gateway

import (
	"net/url"

	"github.com/fsdevblog/groph-pay/internal/sign"
)

// callbackFields явный список ключей, которые мы готовы принять в колбэке.
// Все прочие ключи отбрасываются до подписи и разбора - подписывать
// неограниченную динамическую структуру нельзя.
var callbackFields = []string{
	FieldTerminalCode,
	FieldAmount,
	FieldTxnRef,
	FieldOrderInfo,
	FieldBankCode,
	FieldResponseCode,
	FieldTransactionNo,
	FieldPayDate,
	sign.SecureHashField,
}

// CallbackClaim непроверенный набор параметров колбэка. Оба канала (return и
// notify) проходят через этот тип: до успешной проверки подписи данным из него
// доверять нельзя.
type CallbackClaim struct {
	params map[string]string
}

// ClaimFromQuery собирает claim из query строки, пропуская только известные ключи.
func ClaimFromQuery(query url.Values) *CallbackClaim {
	params := make(map[string]string, len(callbackFields))
	for _, field := range callbackFields {
		if query.Has(field) {
			params[field] = query.Get(field)
		}
	}
	return &CallbackClaim{params: params}
}

// ClaimFromParams собирает claim из готовой мапы (симулятор, тесты).
func ClaimFromParams(params map[string]string) *CallbackClaim {
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return &CallbackClaim{params: copied}
}

// Reference возвращает номер заказа из claim'а. Доступен до проверки подписи:
// нужен только для логирования аномалий, бизнес-решения по нему не принимаются.
func (c *CallbackClaim) Reference() string {
	return c.params[FieldTxnRef]
}

// Verify проверяет подпись claim'а и при успехе возвращает типизированный
// подтвержденный колбэк. Второе значение false - подпись не сошлась или отсутствует.
func (c *CallbackClaim) Verify(secret []byte) (*VerifiedCallback, bool) {
	if !sign.Verify(c.params, secret) {
		return nil, false
	}
	return &VerifiedCallback{
		Reference:    c.params[FieldTxnRef],
		ScaledAmount: c.params[FieldAmount],
		ResultCode:   c.params[FieldResponseCode],
		GatewayTxID:  c.params[FieldTransactionNo],
		BankCode:     c.params[FieldBankCode],
		PayDate:      c.params[FieldPayDate],
		OrderInfo:    c.params[FieldOrderInfo],
	}, true
}

// VerifiedCallback колбэк с подтвержденной подписью. Только этот тип может
// приводить к переходу состояния заказа.
type VerifiedCallback struct {
	Reference    string
	ScaledAmount string
	ResultCode   string
	GatewayTxID  string
	BankCode     string
	PayDate      string
	OrderInfo    string
}

// AmountMinor возвращает сумму колбэка в минимальных единицах.
func (v *VerifiedCallback) AmountMinor() (int64, error) {
	return UnscaleAmount(v.ScaledAmount)
}
