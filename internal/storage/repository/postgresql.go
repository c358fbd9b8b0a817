// Package repository реализует хранилище заявок на основе PostgreSQL.
// Предоставляет методы создания, чтения, обновления, удаления и выборки
// заявок с классификацией ошибок удалённого хранилища.
//
// Уникальность email обеспечивается уникальным индексом по lower(email):
// нарушение ограничения при вставке транслируется в ErrEmailTaken.
// Индекс — единственный источник истины, приложение не полагается на
// предварительную проверку существования записи.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Типизированные исходы операций хранилища. Всё, что не классифицируется
// в один из них, возвращается как обёрнутая ошибка хранилища.
var (
	// ErrEmailTaken — нарушение уникальности email при вставке или обновлении.
	ErrEmailTaken = errors.New("email already registered")
	// ErrSignupNotFound — заявка с указанным id (или email) отсутствует.
	ErrSignupNotFound = errors.New("signup not found")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы с заявками.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func CheckDatabaseReady(storage *Storage) error {
	var exists bool
	err := storage.DB.QueryRow(`SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'signups'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table signups missing or query error: %w", err)
	}
	return nil
}

// isUniqueViolation распознаёт нарушение ограничения уникальности postgres (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
