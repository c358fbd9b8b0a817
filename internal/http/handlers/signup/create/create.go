// Package create реализует HTTP-обработчик ручного создания заявки администратором.
//
// В отличие от публичной формы здесь проверяется только наличие обязательных
// полей (имя, email, телефон): это доверенный операторский путь. Уникальность
// email при этом контролируется тем же ограничением хранилища, что и для
// публичных заявок.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/manup-inc/sisterhood-backend/internal/http/response"
	"github.com/manup-inc/sisterhood-backend/internal/lib/sl"
	"github.com/manup-inc/sisterhood-backend/internal/lib/validate"
	"github.com/manup-inc/sisterhood-backend/internal/models"
	"github.com/manup-inc/sisterhood-backend/internal/storage/repository"
)

// Handler управляет HTTP-запросами на ручное создание заявок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания заявки.
type Service interface {
	Create(ctx context.Context, req models.CreateRequest) (*models.Signup, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать заявку вручную
// @Description Создает заявку от имени администратора. Проверяется только наличие обязательных полей.
// @Tags Signups
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.CreateRequest true "Данные заявки"
// @Success 201 {object} response.Response "Созданная заявка"
// @Failure 400 {object} response.Response "Не заполнены обязательные поля"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/sisterhood/signups [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.signup.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("missing required fields", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	created, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("email already registered"))
			return
		}
		log.Error("failed to create signup", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create signup"))
		return
	}

	log.Info("signup created", slog.String("id", created.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(created))
}
