// Package gateway описывает проводной протокол платежного шлюза: имена
// параметров, масштабирование сумм, таксономию кодов ответа и разбор колбэков.
package gateway

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Имена параметров запроса/колбэка шлюза.
const (
	FieldVersion       = "pay_Version"
	FieldCommand       = "pay_Command"
	FieldTerminalCode  = "pay_TmnCode"
	FieldAmount        = "pay_Amount"
	FieldTxnRef        = "pay_TxnRef"
	FieldOrderInfo     = "pay_OrderInfo"
	FieldBankCode      = "pay_BankCode"
	FieldIPAddr        = "pay_IpAddr"
	FieldCreateDate    = "pay_CreateDate"
	FieldResponseCode  = "pay_ResponseCode"
	FieldTransactionNo = "pay_TransactionNo"
	FieldPayDate       = "pay_PayDate"
)

// Фиксированные протокольные значения исходящего запроса.
const (
	ProtocolVersion = "2.1.0"
	CommandPay      = "pay"
)

// TimeLayout формат дат шлюза (pay_CreateDate, pay_PayDate).
const TimeLayout = "20060102150405"

// Шлюз принимает суммы без десятичной точки, умноженные на 100.
var amountScale = decimal.NewFromInt(100)

// ScaleAmount конвертирует сумму в минимальных единицах в формат шлюза.
func ScaleAmount(minor int64) string {
	return decimal.NewFromInt(minor).Mul(amountScale).String()
}

// UnscaleAmount конвертирует сумму шлюза обратно в минимальные единицы.
// Нечисловое или дробное после деления значение - ошибка: такая сумма не могла
// быть выдана шлюзом и трактуется вызывающим кодом как подмена.
func UnscaleAmount(scaled string) (int64, error) {
	d, err := decimal.NewFromString(scaled)
	if err != nil {
		return 0, fmt.Errorf("parse gateway amount %q: %s", scaled, err.Error())
	}
	minor := d.Div(amountScale)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("gateway amount %q is not a whole number of minor units", scaled)
	}
	return minor.IntPart(), nil
}
