// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status — статус запроса ("OK" или "Error").
// Поле Error — текст ошибки (опционально, при неуспехе).
// Поле Details — список нарушений по полям (только для ошибок валидации).
// Поле Data — данные ответа (опционально, при успехе).
type Response struct {
	Status  string       `json:"status"`
	Error   string       `json:"error,omitempty"`
	Details []FieldError `json:"details,omitempty"`
	Data    any          `json:"data,omitempty"`
}

// FieldError описывает одно нарушение валидации: имя поля из запроса
// и человеко-читаемое сообщение.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse — структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок
// валидации. В Details попадает каждое нарушенное поле — клиент получает
// полный список проблем, а не только первую.
func ValidationError(errs validator.ValidationErrors) Response {
	details := make([]FieldError, 0, len(errs))
	var errsMsgs []string

	for _, err := range errs {
		var msg string
		switch err.ActualTag() {
		case "required":
			msg = fmt.Sprintf("field %s is a required field", err.Field())
		case "min":
			msg = fmt.Sprintf("field %s must be at least %s characters", err.Field(), err.Param())
		case "max":
			msg = fmt.Sprintf("field %s must be %s characters or less", err.Field(), err.Param())
		case "email":
			msg = fmt.Sprintf("field %s must be a valid email address", err.Field())
		case "phonedigits":
			msg = fmt.Sprintf("field %s must contain 10-15 digits", err.Field())
		default:
			msg = fmt.Sprintf("field %s is not valid", err.Field())
		}
		details = append(details, FieldError{Field: err.Field(), Message: msg})
		errsMsgs = append(errsMsgs, msg)
	}
	return Response{
		Status:  StatusError,
		Error:   strings.Join(errsMsgs, ", "),
		Details: details,
	}
}
