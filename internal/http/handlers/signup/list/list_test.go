package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/manup-inc/sisterhood-backend/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context) ([]*models.Signup, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Signup), args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	entries := []*models.Signup{
		{ID: "id-2", Email: "b@example.com", CreatedAt: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)},
		{ID: "id-1", Email: "a@example.com", CreatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	t.Run("успешный список", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("List", mock.Anything).Return(entries, nil)

		handler := New(logger, mockService)
		req := httptest.NewRequest(http.MethodGet, "/api/sisterhood/signups", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"list_count":2`)
		mockService.AssertExpectations(t)
	})

	t.Run("ошибка хранилища", func(t *testing.T) {
		mockService := new(MockService)
		mockService.On("List", mock.Anything).Return(nil, errors.New("db down"))

		handler := New(logger, mockService)
		req := httptest.NewRequest(http.MethodGet, "/api/sisterhood/signups", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "failed to fetch signups")
		mockService.AssertExpectations(t)
	})
}
