package api

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"

	"github.com/go-playground/validator/v10"
)

// validateBankCode проверяет формат банковской подсказки: коды банков у шлюза
// всегда заглавные латинские буквы и цифры (NCB, VNPAYQR и т.п.).
func validateBankCode(fl validator.FieldLevel) bool {
	str, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	for _, r := range str {
		isUpper := r >= 'A' && r <= 'Z'
		isDigit := r >= '0' && r <= '9'
		if !isUpper && !isDigit {
			return false
		}
	}
	return true
}

func registerValidators() error {
	v, _ := binding.Validator.Engine().(*validator.Validate)
	if err := v.RegisterValidation("bank_code", validateBankCode); err != nil {
		return fmt.Errorf("validator registration: %s", err.Error())
	}
	return nil
}
