package submit

import (
	"bytes"
	"context"
	"encoding/json"
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
	"github.com/manup-inc/sisterhood-backend/internal/storage/repository"
)

// MockService реализует интерфейс submit.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Register(ctx context.Context, req models.SubmitRequest) (*models.Signup, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Signup), args.Error(1)
}

func TestSubmitHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	stored := &models.Signup{
		ID:              "4f2c8e3a-1111-2222-3333-444455556666",
		FullName:        "Jane Doe",
		Email:           "jane@example.com",
		Phone:           "(555) 123-4567",
		NewsletterOptIn: true,
		Status:          models.StatusPending,
		EntrySource:     models.EntrySourceOnline,
		CreatedAt:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   []string
	}{
		{
			name: "успешная заявка",
			requestBody: map[string]any{
				"full_name": "Jane Doe",
				"email":     "Jane@Example.COM",
				"phone":     "(555) 123-4567",
			},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.MatchedBy(func(req models.SubmitRequest) bool {
					// Email нормализуется до вызова сервиса.
					return req.Email == "jane@example.com"
				})).Return(stored, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   []string{`"full_name":"Jane Doe"`, `"email":"jane@example.com"`, `"created_at"`},
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{"invalid request body"},
		},
		{
			name: "ошибка валидации перечисляет все поля",
			requestBody: map[string]any{
				"full_name": "J",
				"email":     "not-an-email",
				"phone":     "555-123",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody: []string{
				`"field":"full_name"`,
				`"field":"email"`,
				`"field":"phone"`,
			},
		},
		{
			name: "невалидный тип newsletter_opt_in",
			requestBody: map[string]any{
				"full_name":         "Jane Doe",
				"email":             "jane@example.com",
				"phone":             "(555) 123-4567",
				"newsletter_opt_in": "yes",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   []string{"invalid request body"},
		},
		{
			name: "дубликат email",
			requestBody: map[string]any{
				"full_name": "Jane Doe",
				"email":     "jane@example.com",
				"phone":     "(555) 123-4567",
			},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).
					Return(nil, repository.ErrEmailTaken)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   []string{"email already registered"},
		},
		{
			name: "ошибка хранилища",
			requestBody: map[string]any{
				"full_name": "Jane Doe",
				"email":     "jane@example.com",
				"phone":     "(555) 123-4567",
			},
			setupMock: func(m *MockService) {
				m.On("Register", mock.Anything, mock.Anything).
					Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   []string{"could not process your signup"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var body []byte
			var err error
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/sisterhood/signup", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			for _, fragment := range tt.expectedBody {
				assert.Contains(t, w.Body.String(), fragment)
			}

			mockService.AssertExpectations(t)
		})
	}
}
