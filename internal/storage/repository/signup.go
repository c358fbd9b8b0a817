package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/manup-inc/sisterhood-backend/internal/models"
)

const signupColumns = `id, full_name, email, phone, referral_source, goals,
	newsletter_opt_in, status, entry_source, notes, created_at`

// updatableColumns перечисляет колонки, которые разрешено менять частичным
// обновлением. id и created_at сюда не входят и не попадут в запрос,
// даже если вызывающая сторона их передаст.
var updatableColumns = map[string]struct{}{
	"full_name":         {},
	"email":             {},
	"phone":             {},
	"referral_source":   {},
	"goals":             {},
	"newsletter_opt_in": {},
	"status":            {},
	"entry_source":      {},
	"notes":             {},
}

// CreateSignup вставляет новую заявку и возвращает созданную запись
// с назначенными базой id и created_at. Нарушение уникальности email
// возвращается как ErrEmailTaken.
func (s *Storage) CreateSignup(ctx context.Context, entry models.Signup) (*models.Signup, error) {
	const op = "storage.CreateSignup"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO signups (full_name, email, phone, referral_source, goals,
			      newsletter_opt_in, status, entry_source, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING ` + signupColumns
	row := s.DB.QueryRowContext(ctx, query,
		entry.FullName, entry.Email, entry.Phone, entry.ReferralSource, entry.Goals,
		entry.NewsletterOptIn, entry.Status, entry.EntrySource, entry.Notes)

	result, err := scanSignup(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindByEmail возвращает заявку с указанным email без учёта регистра.
// Отсутствие записи возвращается как ErrSignupNotFound.
func (s *Storage) FindByEmail(ctx context.Context, email string) (*models.Signup, error) {
	const op = "storage.FindByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + signupColumns + `
			  FROM signups WHERE lower(email) = lower($1)`
	row := s.DB.QueryRowContext(ctx, query, email)

	result, err := scanSignup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSignupNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadSignup возвращает заявку по её ID.
func (s *Storage) ReadSignup(ctx context.Context, id string) (*models.Signup, error) {
	const op = "storage.ReadSignup"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + signupColumns + `
			  FROM signups WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	result, err := scanSignup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSignupNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSignups возвращает все заявки, новые первыми.
func (s *Storage) ListSignups(ctx context.Context) ([]*models.Signup, error) {
	const op = "storage.ListSignups"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + signupColumns + `
			  FROM signups
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Signup
	for rows.Next() {
		item, err := scanSignup(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSignup применяет частичное обновление к заявке и возвращает её
// новое состояние. Колонки вне updatableColumns молча отбрасываются.
// Отсутствие заявки — ErrSignupNotFound, конфликт email — ErrEmailTaken.
func (s *Storage) UpdateSignup(ctx context.Context, id string, fields map[string]any) (*models.Signup, error) {
	const op = "storage.UpdateSignup"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var setClauses []string
	var args []any
	for column, value := range fields {
		if _, ok := updatableColumns[column]; !ok {
			continue
		}
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if len(setClauses) == 0 {
		return s.ReadSignup(ctx, id)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE signups SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), signupColumns)
	row := s.DB.QueryRowContext(ctx, query, args...)

	result, err := scanSignup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrSignupNotFound)
		}
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveSignup удаляет заявку по ID. Удаление физическое.
// Отсутствие заявки возвращается как ErrSignupNotFound.
func (s *Storage) RemoveSignup(ctx context.Context, id string) error {
	const op = "storage.RemoveSignup"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM signups WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, ErrSignupNotFound)
	}
	return nil
}

// scanner покрывает *sql.Row и *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSignup(row scanner) (*models.Signup, error) {
	var item models.Signup
	err := row.Scan(&item.ID, &item.FullName, &item.Email, &item.Phone,
		&item.ReferralSource, &item.Goals, &item.NewsletterOptIn,
		&item.Status, &item.EntrySource, &item.Notes, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}
