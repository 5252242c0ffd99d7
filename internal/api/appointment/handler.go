package appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/logger"
	"agendamed/internal/pkg/middleware"
	"agendamed/internal/pkg/respond"
)

// BookingService define o contrato que o Handler espera da camada de Serviço.
type BookingService interface {
	CreateAppointment(ctx context.Context, userID string, req domain.AppointmentRequest) (domain.Appointment, error)
	ListAppointments(ctx context.Context, userID string) ([]domain.AppointmentWithDetails, error)
	GetAppointment(ctx context.Context, userID string, id int) (domain.AppointmentWithDetails, error)
	CancelAppointment(ctx context.Context, userID string, id int) (domain.Appointment, error)
}

// Handler agrupa os endpoints autenticados de agendamento.
type Handler struct {
	Service BookingService
	Logger  logger.Logger
}

// NewHandler cria o Handler de agendamentos.
func NewHandler(svc BookingService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// userID lê o usuário anexado pelo middleware de autenticação.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respond.Error(w, r, h.Logger, apperror.NewUnauthorizedError("Token não fornecido."))
	}
	return id, ok
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError("id do agendamento deve ser um número positivo.")
	}
	return id, nil
}

// CreateHandler lida com POST /api/appointments.
// @Summary Cria um agendamento
// @Description Reserva o horário atomicamente; o usuário vem do token.
// @Tags appointments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param appointment body domain.AppointmentRequest true "Dados do agendamento"
// @Success 201 {object} domain.Appointment
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Token não fornecido"
// @Failure 403 {object} domain.ErrorResponse "Token inválido"
// @Failure 409 {object} domain.ErrorResponse "Horário indisponível"
// @Router /appointments [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req domain.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	appt, err := h.Service.CreateAppointment(r.Context(), userID, req)
	respond.Result(w, r, h.Logger, appt, err, http.StatusCreated)
}

// ListHandler lida com GET /api/appointments.
// @Summary Lista os agendamentos do usuário
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.AppointmentWithDetails
// @Failure 401 {object} domain.ErrorResponse "Token não fornecido"
// @Failure 403 {object} domain.ErrorResponse "Token inválido"
// @Router /appointments [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	out, err := h.Service.ListAppointments(r.Context(), userID)
	respond.Result(w, r, h.Logger, out, err, http.StatusOK)
}

// GetHandler lida com GET /api/appointments/{id}.
// @Summary Busca um agendamento do usuário
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do agendamento"
// @Success 200 {object} domain.AppointmentWithDetails
// @Failure 404 {object} domain.ErrorResponse "Agendamento não encontrado"
// @Router /appointments/{id} [get]
func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	out, err := h.Service.GetAppointment(r.Context(), userID, id)
	respond.Result(w, r, h.Logger, out, err, http.StatusOK)
}

// CancelHandler lida com POST /api/appointments/{id}/cancel.
// @Summary Cancela um agendamento
// @Description O horário volta a ficar disponível.
// @Tags appointments
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID do agendamento"
// @Success 200 {object} domain.Appointment
// @Failure 404 {object} domain.ErrorResponse "Agendamento não encontrado"
// @Failure 409 {object} domain.ErrorResponse "Agendamento já cancelado"
// @Router /appointments/{id}/cancel [post]
func (h *Handler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	out, err := h.Service.CancelAppointment(r.Context(), userID, id)
	respond.Result(w, r, h.Logger, out, err, http.StatusOK)
}
