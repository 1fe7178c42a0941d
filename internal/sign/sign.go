// Package sign реализует каноникализацию и подпись параметров платежного шлюза.
package sign

import (
	"crypto/hmac"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"sort"
	"strings"
)

// SecureHashField поле с подписью. При каноникализации всегда исключается,
// как при подписи так и при проверке.
const SecureHashField = "pay_SecureHash"

// Canonicalize детерминированно сериализует плоский набор параметров для подписи.
// Ключи сортируются побайтово, пары соединяются как key=value через `&`.
// Значения не экранируются - шлюз подписывает сырые значения, любое
// перекодирование ломает подпись. Пустой набор дает пустую строку.
func Canonicalize(params map[string]string) []byte {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == SecureHashField {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return []byte(b.String())
}

// Sign вычисляет HMAC-SHA512 над каноничной строкой и возвращает подпись
// в нижнем hex регистре.
func Sign(canonical []byte, secret []byte) string {
	mac := hmac.New(sha512.New, secret)
	mac.Write(canonical)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignParams каноникализирует params и возвращает подпись.
func SignParams(params map[string]string, secret []byte) string {
	return Sign(Canonicalize(params), secret)
}

// Verify пересчитывает подпись по params (без поля SecureHashField) и сравнивает
// с переданной в params подписью за константное время. Отсутствие подписи -
// всегда невалидно. Ошибок не возвращает: любой дефект трактуется как false.
func Verify(params map[string]string, secret []byte) bool {
	supplied, ok := params[SecureHashField]
	if !ok || supplied == "" {
		return false
	}
	expected := SignParams(params, secret)
	return subtle.ConstantTimeCompare([]byte(strings.ToLower(supplied)), []byte(expected)) == 1
}
