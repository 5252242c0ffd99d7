package bookingservice

import (
	"context"
	"errors"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/logger"
	"agendamed/internal/pkg/metrics"
	"agendamed/internal/pkg/validate"
)

// AppointmentRepository define o contrato que o Serviço espera da Persistência.
// ClaimSchedule e CancelAppointment são atômicos: agendamento e horário mudam juntos ou nada muda.
type AppointmentRepository interface {
	ClaimSchedule(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	CancelAppointment(ctx context.Context, id int, userID string) (domain.Appointment, error)
	FindAppointment(ctx context.Context, id int, userID string) (domain.AppointmentWithDetails, error)
	ListAppointmentsByUser(ctx context.Context, userID string) ([]domain.AppointmentWithDetails, error)
}

// Service implementa as operações de agendamento do usuário autenticado.
type Service struct {
	repo    AppointmentRepository
	metrics *metrics.Metrics
	logger  logger.Logger
}

// NewService cria o Serviço de agendamento. m pode ser nil.
func NewService(repo AppointmentRepository, m *metrics.Metrics, log logger.Logger) *Service {
	return &Service{repo: repo, metrics: m, logger: log}
}

// CreateAppointment valida o pedido e reserva o horário para userID.
// Horário já ocupado resulta em ConflictError "Horário indisponível.".
func (s *Service) CreateAppointment(ctx context.Context, userID string, req domain.AppointmentRequest) (domain.Appointment, error) {
	if userID == "" {
		return domain.Appointment{}, apperror.NewUnauthorizedError("Token não fornecido.")
	}
	if err := validate.Struct(req); err != nil {
		s.metrics.ObserveBooking(metrics.BookingInvalid)
		return domain.Appointment{}, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusConfirmed
	}

	appt, err := s.repo.ClaimSchedule(ctx, domain.Appointment{
		UserID:      userID,
		UnitID:      req.UnitID,
		SpecialtyID: req.SpecialtyID,
		ScheduleID:  req.ScheduleID,
		Status:      status,
		Observacoes: req.Observacoes,
	})
	if err != nil {
		s.metrics.ObserveBooking(bookingResult(err))
		return domain.Appointment{}, wrapRepoError("Falha interna ao criar agendamento.", err)
	}

	s.metrics.ObserveBooking(metrics.BookingCreated)
	s.logger.Info("Agendamento confirmado.", map[string]interface{}{"appointment_id": appt.ID, "user_id": userID})
	return appt, nil
}

// ListAppointments devolve os agendamentos do usuário com especialidade, unidade e horário.
func (s *Service) ListAppointments(ctx context.Context, userID string) ([]domain.AppointmentWithDetails, error) {
	out, err := s.repo.ListAppointmentsByUser(ctx, userID)
	if err != nil {
		return nil, wrapRepoError("Falha interna ao listar agendamentos.", err)
	}
	return out, nil
}

// GetAppointment devolve um agendamento do usuário. Agendamentos de terceiros são NotFound.
func (s *Service) GetAppointment(ctx context.Context, userID string, id int) (domain.AppointmentWithDetails, error) {
	if id <= 0 {
		return domain.AppointmentWithDetails{}, apperror.NewValidationError("id do agendamento deve ser positivo.")
	}
	out, err := s.repo.FindAppointment(ctx, id, userID)
	if err != nil {
		return domain.AppointmentWithDetails{}, wrapRepoError("Falha interna ao buscar agendamento.", err)
	}
	return out, nil
}

// CancelAppointment cancela o agendamento e devolve o horário à agenda.
func (s *Service) CancelAppointment(ctx context.Context, userID string, id int) (domain.Appointment, error) {
	if id <= 0 {
		return domain.Appointment{}, apperror.NewValidationError("id do agendamento deve ser positivo.")
	}
	appt, err := s.repo.CancelAppointment(ctx, id, userID)
	if err != nil {
		return domain.Appointment{}, wrapRepoError("Falha interna ao cancelar agendamento.", err)
	}

	s.metrics.ObserveBooking(metrics.BookingCancelled)
	s.logger.Info("Agendamento cancelado.", map[string]interface{}{"appointment_id": id, "user_id": userID})
	return appt, nil
}

func bookingResult(err error) string {
	var (
		conflict   *apperror.ConflictError
		validation *apperror.ValidationError
		notFound   *apperror.NotFoundError
	)
	switch {
	case errors.As(err, &conflict):
		return metrics.BookingConflict
	case errors.As(err, &validation), errors.As(err, &notFound):
		return metrics.BookingInvalid
	default:
		return metrics.BookingError
	}
}

func wrapRepoError(msg string, err error) error {
	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.NewInternalError(msg, err)
}
