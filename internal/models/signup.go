// Package models содержит доменные структуры заявки на участие в программе,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import (
	"strings"
	"time"
)

// Возможные значения поля Status. Статус хранится свободным текстом:
// админ может выставить произвольное значение при ручном создании или обновлении.
const (
	StatusPending = "pending"
)

// Возможные значения поля EntrySource.
const (
	EntrySourceOnline = "online"
	EntrySourceManual = "manual"
)

// Signup представляет собой основную модель заявки,
// используемую в бизнес-логике и хранилище.
// ID и CreatedAt назначаются базой данных при вставке и далее не меняются.
type Signup struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	ReferralSource  *string   `json:"referral_source"`
	Goals           *string   `json:"goals"`
	NewsletterOptIn bool      `json:"newsletter_opt_in"`
	Status          string    `json:"status"`
	EntrySource     string    `json:"entry_source"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// SubmitRequest используется для приёма публичной заявки из JSON-запроса.
// Перед валидацией структуру нужно прогнать через Normalize.
type SubmitRequest struct {
	FullName        string  `json:"full_name" validate:"required,min=2,max=100"`
	Email           string  `json:"email" validate:"required,email"`
	Phone           string  `json:"phone" validate:"required,phonedigits"`
	ReferralSource  *string `json:"referral_source" validate:"omitempty,max=100"`
	Goals           *string `json:"goals" validate:"omitempty,max=1000"`
	NewsletterOptIn *bool   `json:"newsletter_opt_in"`
}

// Normalize приводит поля заявки к каноническому виду: обрезает пробелы,
// переводит email в нижний регистр, пустые необязательные поля превращает в nil.
// Вызов идемпотентен и не имеет побочных эффектов за пределами структуры.
func (r *SubmitRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = strings.TrimSpace(r.Phone)
	r.ReferralSource = normalizeOptional(r.ReferralSource)
	r.Goals = normalizeOptional(r.Goals)
}

// CreateRequest используется для ручного создания заявки администратором.
// Проверяется только наличие обязательных полей, формат не проверяется:
// это доверенный операторский путь.
type CreateRequest struct {
	FullName        string  `json:"full_name" validate:"required"`
	Email           string  `json:"email" validate:"required"`
	Phone           string  `json:"phone" validate:"required"`
	ReferralSource  *string `json:"referral_source"`
	Goals           *string `json:"goals"`
	NewsletterOptIn *bool   `json:"newsletter_opt_in"`
	Status          *string `json:"status"`
	EntrySource     *string `json:"entry_source"`
	Notes           *string `json:"notes"`
}

// UpdateRequest описывает частичное обновление заявки: применяются только
// непустые (не nil) поля. Полей id и created_at здесь нет намеренно —
// ключи с такими именами в теле запроса игнорируются при декодировании.
type UpdateRequest struct {
	FullName        *string `json:"full_name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	ReferralSource  *string `json:"referral_source"`
	Goals           *string `json:"goals"`
	NewsletterOptIn *bool   `json:"newsletter_opt_in"`
	Status          *string `json:"status"`
	EntrySource     *string `json:"entry_source"`
	Notes           *string `json:"notes"`
}

func normalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
