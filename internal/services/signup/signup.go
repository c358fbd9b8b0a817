// Package signup содержит бизнес-логику работы с заявками: регистрацию
// публичных заявок, ручное создание администратором и CRUD-операции.
//
// Защита от дубликатов email устроена так: перед вставкой выполняется
// необязательная быстрая проверка существования записи, но её результат
// никогда не считается достаточным — под конкурентными запросами две
// проверки могут пройти до первой вставки. Гарантию даёт уникальный
// индекс в базе: нарушение ограничения при вставке возвращается как
// repository.ErrEmailTaken независимо от результата быстрой проверки.
package signup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/manup-inc/sisterhood-backend/internal/lib/sl"
	"github.com/manup-inc/sisterhood-backend/internal/metrics"
	"github.com/manup-inc/sisterhood-backend/internal/models"
	"github.com/manup-inc/sisterhood-backend/internal/storage/repository"
)

// SignupRepository определяет методы для работы с заявками в хранилище.
type SignupRepository interface {
	// CreateSignup вставляет заявку и возвращает созданную запись.
	CreateSignup(ctx context.Context, entry models.Signup) (*models.Signup, error)
	// FindByEmail ищет заявку по email без учёта регистра.
	FindByEmail(ctx context.Context, email string) (*models.Signup, error)
	// ReadSignup возвращает заявку по ID.
	ReadSignup(ctx context.Context, id string) (*models.Signup, error)
	// ListSignups возвращает все заявки, новые первыми.
	ListSignups(ctx context.Context) ([]*models.Signup, error)
	// UpdateSignup применяет частичное обновление по ID.
	UpdateSignup(ctx context.Context, id string, fields map[string]any) (*models.Signup, error)
	// RemoveSignup удаляет заявку по ID.
	RemoveSignup(ctx context.Context, id string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Notifier публикует событие о новой заявке. Публикация best-effort:
// ошибка логируется и не влияет на результат регистрации.
type Notifier interface {
	PublishMessage(message any) error
}

// SignupService реализует бизнес-логику работы с заявками.
type SignupService struct {
	repo     SignupRepository
	cache    Cache
	notifier Notifier
	log      *slog.Logger
}

// NewSignupService создает новый экземпляр SignupService.
// notifier может быть nil — тогда уведомления отключены.
func NewSignupService(repo SignupRepository, cache Cache, notifier Notifier, log *slog.Logger) *SignupService {
	return &SignupService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		log:      log,
	}
}

// Register создает заявку с публичной формы. Запрос должен быть
// нормализован и провалидирован на границе HTTP до вызова.
//
// Быстрая проверка FindByEmail экономит заведомо обречённую вставку,
// но окончательное слово за ограничением уникальности в базе.
func (s *SignupService) Register(ctx context.Context, req models.SubmitRequest) (*models.Signup, error) {
	_, err := s.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		metrics.SignupsRejected.WithLabelValues("duplicate_email").Inc()
		return nil, repository.ErrEmailTaken
	case !errors.Is(err, repository.ErrSignupNotFound):
		// Проверка необязательная: при сбое идем на вставку,
		// ограничение в базе всё равно отловит дубликат.
		s.log.Warn("email pre-check failed", sl.Err(err))
	}

	newsletterOptIn := true
	if req.NewsletterOptIn != nil {
		newsletterOptIn = *req.NewsletterOptIn
	}

	entry := models.Signup{
		FullName:        req.FullName,
		Email:           strings.ToLower(req.Email),
		Phone:           req.Phone,
		ReferralSource:  req.ReferralSource,
		Goals:           req.Goals,
		NewsletterOptIn: newsletterOptIn,
		Status:          models.StatusPending,
		EntrySource:     models.EntrySourceOnline,
	}

	created, err := s.repo.CreateSignup(ctx, entry)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			metrics.SignupsRejected.WithLabelValues("duplicate_email").Inc()
		}
		return nil, err
	}

	metrics.SignupsAccepted.WithLabelValues(created.EntrySource).Inc()
	s.log.Info("new signup registered",
		slog.String("id", created.ID), slog.String("email", created.Email))

	s.cacheSet(created)
	s.notify(created)

	return created, nil
}

// Create создает заявку вручную от имени администратора. Формат полей не
// проверяется, но уникальность email контролируется той же вставкой.
func (s *SignupService) Create(ctx context.Context, req models.CreateRequest) (*models.Signup, error) {
	newsletterOptIn := true
	if req.NewsletterOptIn != nil {
		newsletterOptIn = *req.NewsletterOptIn
	}

	entry := models.Signup{
		FullName:        strings.TrimSpace(req.FullName),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:           strings.TrimSpace(req.Phone),
		ReferralSource:  req.ReferralSource,
		Goals:           req.Goals,
		NewsletterOptIn: newsletterOptIn,
		Status:          models.StatusPending,
		EntrySource:     models.EntrySourceManual,
		Notes:           req.Notes,
	}
	if req.Status != nil {
		entry.Status = *req.Status
	}
	if req.EntrySource != nil {
		entry.EntrySource = *req.EntrySource
	}

	created, err := s.repo.CreateSignup(ctx, entry)
	if err != nil {
		return nil, err
	}

	metrics.SignupsAccepted.WithLabelValues(created.EntrySource).Inc()
	s.log.Info("signup created manually", slog.String("id", created.ID))

	s.cacheSet(created)
	return created, nil
}

// Read возвращает заявку по ID, используя кеш или репозиторий.
func (s *SignupService) Read(ctx context.Context, id string) (*models.Signup, error) {
	var result *models.Signup
	cacheKey := cacheKey(id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ReadSignup(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(result)
	return result, nil
}

// List возвращает все заявки, новые первыми.
func (s *SignupService) List(ctx context.Context) ([]*models.Signup, error) {
	return s.repo.ListSignups(ctx)
}

// Update применяет частичное обновление заявки. Поля id и created_at
// обновлению не подлежат: их нет в UpdateRequest, а репозиторий
// дополнительно отбрасывает неразрешённые колонки.
func (s *SignupService) Update(ctx context.Context, id string, req models.UpdateRequest) (*models.Signup, error) {
	fields := make(map[string]any)
	if req.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.ReferralSource != nil {
		fields["referral_source"] = *req.ReferralSource
	}
	if req.Goals != nil {
		fields["goals"] = *req.Goals
	}
	if req.NewsletterOptIn != nil {
		fields["newsletter_opt_in"] = *req.NewsletterOptIn
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.EntrySource != nil {
		fields["entry_source"] = *req.EntrySource
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	updated, err := s.repo.UpdateSignup(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.cacheSet(updated)
	s.log.Info("signup updated", slog.String("id", id))
	return updated, nil
}

// Remove удаляет заявку по ID и инвалидирует кеш.
func (s *SignupService) Remove(ctx context.Context, id string) error {
	if err := s.cache.Invalidate(cacheKey(id)); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey(id)), sl.Err(err))
	}
	return s.repo.RemoveSignup(ctx, id)
}

func (s *SignupService) cacheSet(entry *models.Signup) {
	key := cacheKey(entry.ID)
	if err := s.cache.Set(key, entry, time.Hour); err != nil {
		s.log.Warn("failed to cache signup", slog.String("key", key), sl.Err(err))
	}
}

func (s *SignupService) notify(entry *models.Signup) {
	if s.notifier == nil {
		return
	}
	event := map[string]any{
		"event":      "signup.created",
		"id":         entry.ID,
		"full_name":  entry.FullName,
		"email":      entry.Email,
		"created_at": entry.CreatedAt,
	}
	if err := s.notifier.PublishMessage(event); err != nil {
		s.log.Warn("failed to publish signup notification", sl.Err(err))
	}
}

func cacheKey(id string) string {
	return fmt.Sprintf("signup:%s", id)
}
