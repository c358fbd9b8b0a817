// Package login реализует HTTP-обработчик входа администратора.
//
// Учетные данные администратора задаются в конфиге (имя и bcrypt-хэш пароля).
// При успешной проверке возвращается JWT с ролью admin, который принимает
// middleware админского контура.
package login

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/manup-inc/sisterhood-backend/internal/config"
	"github.com/manup-inc/sisterhood-backend/internal/http/middlewarectx"
	"github.com/manup-inc/sisterhood-backend/internal/http/response"
	"github.com/manup-inc/sisterhood-backend/internal/lib/password"
	"github.com/manup-inc/sisterhood-backend/internal/lib/sl"
	"github.com/manup-inc/sisterhood-backend/internal/lib/validate"
)

// Request — структура входных данных для авторизации.
type Request struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenMaker описывает интерфейс выпуска JWT токена.
type TokenMaker interface {
	GenerateToken(username, role string) (string, error)
}

// Handler обрабатывает HTTP-запросы на авторизацию администратора.
type Handler struct {
	log      *slog.Logger
	admin    config.AdminAuth
	maker    TokenMaker
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, admin config.AdminAuth, maker TokenMaker) *Handler {
	return &Handler{
		log:      log,
		admin:    admin,
		maker:    maker,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Авторизация администратора
// @Description Проверяет учетные данные администратора и возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные"
// @Success 200 {object} response.Response "JWT токен"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if req.Username != h.admin.Username ||
		password.CompareHash(h.admin.PasswordHash, req.Password) != nil {
		log.Error("invalid credentials", slog.String("username", req.Username))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid username or password"))
		return
	}

	token, err := h.maker.GenerateToken(req.Username, middlewarectx.RoleAdmin)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not issue token"))
		return
	}

	log.Info("admin logged in", slog.String("username", req.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token": token,
	}))
}
