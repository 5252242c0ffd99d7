package memstore

import (
	"context"
	"fmt"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
)

// ClaimSchedule grava o agendamento e marca o horário como ocupado numa única seção crítica.
// Se o horário já foi tomado, nada é gravado e o erro é de horário indisponível.
func (s *Store) ClaimSchedule(_ context.Context, appt domain.Appointment) (domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.schedules[appt.ScheduleID]
	if !ok {
		return domain.Appointment{}, apperror.NewNotFoundError(fmt.Sprintf("horário %d", appt.ScheduleID))
	}
	if _, ok := s.users[appt.UserID]; !ok {
		return domain.Appointment{}, apperror.NewNotFoundError(fmt.Sprintf("usuário %s", appt.UserID))
	}
	if sc.UnitID != appt.UnitID || sc.SpecialtyID != appt.SpecialtyID {
		return domain.Appointment{}, apperror.NewValidationError(
			fmt.Sprintf("horário %d não pertence à unidade %d / especialidade %d", sc.ID, appt.UnitID, appt.SpecialtyID))
	}
	if !sc.Available() {
		s.logger.Warn("Horário já reservado.", map[string]interface{}{"schedule_id": sc.ID, "user_id": appt.UserID})
		return domain.Appointment{}, apperror.NewSlotUnavailableError()
	}

	appt.ID = s.nextAppointmentID
	s.nextAppointmentID++
	appt.CreatedAt = s.now()
	s.appointments[appt.ID] = appt
	s.apptOrder = append(s.apptOrder, appt.ID)

	sc.Disponivel = domain.ScheduleTaken
	s.schedules[sc.ID] = sc

	s.logger.Info("Agendamento criado e horário ocupado.", map[string]interface{}{
		"appointment_id": appt.ID,
		"schedule_id":    sc.ID,
		"user_id":        appt.UserID,
	})
	return appt, nil
}

// CancelAppointment cancela um agendamento do usuário e reabre o horário.
func (s *Store) CancelAppointment(_ context.Context, id int, userID string) (domain.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, ok := s.appointments[id]
	if !ok || appt.UserID != userID {
		return domain.Appointment{}, apperror.NewNotFoundError(fmt.Sprintf("agendamento %d", id))
	}
	if appt.Status == domain.StatusCancelled {
		return domain.Appointment{}, apperror.NewConflictError("Agendamento já cancelado.")
	}

	appt.Status = domain.StatusCancelled
	s.appointments[id] = appt

	if sc, ok := s.schedules[appt.ScheduleID]; ok {
		sc.Disponivel = domain.ScheduleAvailable
		s.schedules[sc.ID] = sc
	}

	s.logger.Info("Agendamento cancelado e horário reaberto.", map[string]interface{}{
		"appointment_id": id,
		"schedule_id":    appt.ScheduleID,
	})
	return appt, nil
}

// FindAppointment busca um agendamento do usuário, com detalhes.
// Agendamentos de outros usuários são tratados como inexistentes.
func (s *Store) FindAppointment(_ context.Context, id int, userID string) (domain.AppointmentWithDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, ok := s.appointments[id]
	if !ok || appt.UserID != userID {
		return domain.AppointmentWithDetails{}, apperror.NewNotFoundError(fmt.Sprintf("agendamento %d", id))
	}
	return s.details(appt), nil
}

// ListAppointmentsByUser devolve os agendamentos do usuário em ordem de criação.
func (s *Store) ListAppointmentsByUser(_ context.Context, userID string) ([]domain.AppointmentWithDetails, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AppointmentWithDetails, 0)
	for _, id := range s.apptOrder {
		appt := s.appointments[id]
		if appt.UserID == userID {
			out = append(out, s.details(appt))
		}
	}
	return out, nil
}

// details monta a junção; deve ser chamado com o lock mantido.
func (s *Store) details(appt domain.Appointment) domain.AppointmentWithDetails {
	return domain.AppointmentWithDetails{
		Appointment: appt,
		Specialty:   s.specialties[appt.SpecialtyID],
		Unit:        s.units[appt.UnitID],
		Schedule:    s.schedules[appt.ScheduleID],
	}
}
