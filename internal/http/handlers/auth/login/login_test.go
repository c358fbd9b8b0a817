package login

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/manup-inc/sisterhood-backend/internal/config"
	"github.com/manup-inc/sisterhood-backend/internal/lib/password"
)

// MockTokenMaker реализует интерфейс login.TokenMaker
type MockTokenMaker struct {
	mock.Mock
}

func (m *MockTokenMaker) GenerateToken(username, role string) (string, error) {
	args := m.Called(username, role)
	return args.String(0), args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	hash, err := password.GetHash("correct-password")
	require.NoError(t, err)

	admin := config.AdminAuth{
		Username:     "admin",
		PasswordHash: hash,
	}

	tests := []struct {
		name           string
		requestBody    string
		setupMock      func(*MockTokenMaker)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешный вход",
			requestBody: `{"username":"admin","password":"correct-password"}`,
			setupMock: func(m *MockTokenMaker) {
				m.On("GenerateToken", "admin", "admin").Return("signed.jwt.token", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"signed.jwt.token"`,
		},
		{
			name:           "неверный пароль",
			requestBody:    `{"username":"admin","password":"wrong-password"}`,
			setupMock:      func(_ *MockTokenMaker) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "invalid username or password",
		},
		{
			name:           "неизвестный пользователь",
			requestBody:    `{"username":"someone","password":"correct-password"}`,
			setupMock:      func(_ *MockTokenMaker) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "invalid username or password",
		},
		{
			name:           "пустые учетные данные",
			requestBody:    `{"username":"","password":""}`,
			setupMock:      func(_ *MockTokenMaker) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"field":"username"`,
		},
		{
			name:           "некорректный JSON",
			requestBody:    "not a json",
			setupMock:      func(_ *MockTokenMaker) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "invalid request body",
		},
		{
			name:        "ошибка выпуска токена",
			requestBody: `{"username":"admin","password":"correct-password"}`,
			setupMock: func(m *MockTokenMaker) {
				m.On("GenerateToken", "admin", "admin").
					Return("", errors.New("signing failed"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "could not issue token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockMaker := new(MockTokenMaker)
			tt.setupMock(mockMaker)

			handler := New(logger, admin, mockMaker)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
				bytes.NewReader([]byte(tt.requestBody)))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			mockMaker.AssertExpectations(t)
		})
	}
}
