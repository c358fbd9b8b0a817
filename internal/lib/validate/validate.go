// Package validate настраивает общий валидатор входящих данных.
//
// Помимо стандартных правил регистрируется правило phonedigits: телефон
// считается корректным, если после отбрасывания всех нецифровых символов
// остаётся от 10 до 15 цифр. Исходное форматирование номера при этом
// сохраняется — проверяется только количество цифр.
package validate

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator"
)

// Границы количества цифр в телефонном номере.
const (
	PhoneMinDigits = 10
	PhoneMaxDigits = 15
)

// New создает валидатор с зарегистрированным правилом phonedigits.
// Имена полей в ошибках валидации берутся из json-тегов,
// чтобы ответ API ссылался на поля так, как их прислал клиент.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phonedigits", func(fl validator.FieldLevel) bool {
		n := CountDigits(fl.Field().String())
		return n >= PhoneMinDigits && n <= PhoneMaxDigits
	})

	return v
}

// CountDigits возвращает количество цифровых символов в строке.
func CountDigits(s string) int {
	var n int
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
