package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/logger"
	"agendamed/internal/pkg/respond"
)

// CatalogService é o contrato das consultas de especialidades, unidades e horários.
type CatalogService interface {
	ListSpecialties(ctx context.Context) ([]domain.Specialty, error)
	ListUnits(ctx context.Context, specialtyID int) ([]domain.UnitWithSpecialty, error)
	ListAvailableSchedules(ctx context.Context, unitID, specialtyID int, date string) ([]domain.Schedule, error)
}

// Handler agrupa os endpoints públicos de consulta.
type Handler struct {
	Service CatalogService
	Logger  logger.Logger
}

// NewHandler cria o Handler de consultas.
func NewHandler(svc CatalogService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListSpecialtiesHandler lida com GET /api/specialties.
// @Summary Lista as especialidades
// @Tags catalog
// @Produce json
// @Success 200 {array} domain.Specialty
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /specialties [get]
func (h *Handler) ListSpecialtiesHandler(w http.ResponseWriter, r *http.Request) {
	out, err := h.Service.ListSpecialties(r.Context())
	respond.Result(w, r, h.Logger, out, err, http.StatusOK)
}

// ListUnitsHandler lida com GET /api/units?specialty=<id>.
// @Summary Lista as unidades de uma especialidade
// @Tags catalog
// @Produce json
// @Param specialty query int true "ID da especialidade"
// @Success 200 {array} domain.UnitWithSpecialty
// @Failure 400 {object} domain.ErrorResponse "Parâmetro ausente ou inválido"
// @Router /units [get]
func (h *Handler) ListUnitsHandler(w http.ResponseWriter, r *http.Request) {
	specialtyID, err := queryInt(r, "specialty")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	out, err := h.Service.ListUnits(r.Context(), specialtyID)
	respond.Result(w, r, h.Logger, out, err, http.StatusOK)
}

// ListSchedulesHandler lida com GET /api/schedules?unit=&specialty=&data=.
// @Summary Lista os horários disponíveis
// @Description Apenas horários com disponivel=1 na data exata, ordenados por hora.
// @Tags catalog
// @Produce json
// @Param unit query int true "ID da unidade"
// @Param specialty query int true "ID da especialidade"
// @Param data query string true "Data (AAAA-MM-DD)"
// @Success 200 {array} domain.Schedule
// @Failure 400 {object} domain.ErrorResponse "Parâmetro ausente ou inválido"
// @Router /schedules [get]
func (h *Handler) ListSchedulesHandler(w http.ResponseWriter, r *http.Request) {
	unitID, err := queryInt(r, "unit")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	specialtyID, err := queryInt(r, "specialty")
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	date := r.URL.Query().Get("data")
	if date == "" {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("parâmetro 'data' é obrigatório."))
		return
	}

	out, err := h.Service.ListAvailableSchedules(r.Context(), unitID, specialtyID, date)
	respond.Result(w, r, h.Logger, out, err, http.StatusOK)
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, apperror.NewValidationError(fmt.Sprintf("parâmetro '%s' é obrigatório.", name))
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.NewValidationError(fmt.Sprintf("parâmetro '%s' deve ser numérico.", name))
	}
	return n, nil
}
