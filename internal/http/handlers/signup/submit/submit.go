// Package submit реализует HTTP-обработчик публичной формы заявки.
//
// Handler принимает JSON-запрос с данными заявки, нормализует и валидирует их,
// вызывает бизнес-логику регистрации и возвращает подтверждение в JSON-формате.
// Все нарушения валидации возвращаются разом, по каждому полю отдельно.
//
// Ограничение частоты запросов выполняется middleware до этого обработчика.
package submit

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

// Handler управляет HTTP-запросами на регистрацию заявок с публичной формы.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики регистрации заявок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики регистрации заявки.
type Service interface {
	Register(ctx context.Context, req models.SubmitRequest) (*models.Signup, error)
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
// @Summary Зарегистрировать заявку на участие
// @Description Принимает заявку с публичной формы. Частота ограничена по адресу клиента.
// @Tags Signup
// @Accept  json
// @Produce  json
// @Param request body models.SubmitRequest true "Данные заявки"
// @Success 201 {object} response.Response "Заявка принята"
// @Failure 400 {object} response.Response "Ошибка валидации, все нарушенные поля"
// @Failure 409 {object} response.ErrorResponse "Email уже зарегистрирован"
// @Failure 429 {object} response.ErrorResponse "Слишком много попыток"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /api/sisterhood/signup [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.signup.submit"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	req.Normalize()
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	created, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			log.Info("duplicate signup attempt", slog.String("email", req.Email))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("email already registered"))
			return
		}
		log.Error("failed to register signup", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not process your signup, please try again"))
		return
	}

	log.Info("signup accepted", slog.String("id", created.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"full_name":  created.FullName,
		"email":      created.Email,
		"created_at": created.CreatedAt,
	}))
}
