package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
)

// ClaimSchedule grava o agendamento e ocupa o horário na mesma transação.
// O horário é travado com FOR UPDATE e o UPDATE condicional garante que só um chamador o vira de 1 para 0.
func (s *Store) ClaimSchedule(ctx context.Context, appt domain.Appointment) (created domain.Appointment, err error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Appointment{}, apperror.NewDBError("failed to start tx", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var unitID, specialtyID, disponivel int
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT unit_id, specialty_id, disponivel FROM schedules WHERE id = $1 FOR UPDATE`, appt.ScheduleID,
	).Scan(&unitID, &specialtyID, &disponivel)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Appointment{}, apperror.NewNotFoundError(fmt.Sprintf("horário %d", appt.ScheduleID))
	}
	if err != nil {
		return domain.Appointment{}, apperror.NewDBError("failed to lock schedule", err)
	}

	if unitID != appt.UnitID || specialtyID != appt.SpecialtyID {
		err = apperror.NewValidationError(
			fmt.Sprintf("horário %d não pertence à unidade %d / especialidade %d", appt.ScheduleID, appt.UnitID, appt.SpecialtyID))
		return domain.Appointment{}, err
	}
	if disponivel != domain.ScheduleAvailable {
		s.logger.Warn("Horário já reservado.", map[string]interface{}{"schedule_id": appt.ScheduleID, "user_id": appt.UserID})
		err = apperror.NewSlotUnavailableError()
		return domain.Appointment{}, err
	}

	res, err := tx.ExecContext(ctxTimeout, `UPDATE schedules SET disponivel = 0 WHERE id = $1 AND disponivel = 1`, appt.ScheduleID)
	if err != nil {
		return domain.Appointment{}, apperror.NewDBError("failed to claim schedule", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = apperror.NewSlotUnavailableError()
		return domain.Appointment{}, err
	}

	err = tx.QueryRowContext(ctxTimeout,
		`INSERT INTO appointments (user_id, unit_id, specialty_id, schedule_id, status, observacoes)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		appt.UserID, appt.UnitID, appt.SpecialtyID, appt.ScheduleID, appt.Status, appt.Observacoes,
	).Scan(&appt.ID, &appt.CreatedAt)
	if err != nil {
		switch pqCode(err) {
		case pqForeignKeyViolation:
			err = apperror.NewNotFoundError(fmt.Sprintf("usuário %s", appt.UserID))
		case pqUniqueViolation:
			err = apperror.NewSlotUnavailableError()
		default:
			err = apperror.NewDBError("failed to insert appointment", err)
		}
		return domain.Appointment{}, err
	}

	if err = tx.Commit(); err != nil {
		return domain.Appointment{}, apperror.NewDBError("failed to commit tx", err)
	}

	s.logger.Info("Agendamento criado e horário ocupado.", map[string]interface{}{
		"appointment_id": appt.ID,
		"schedule_id":    appt.ScheduleID,
		"user_id":        appt.UserID,
	})
	return appt, nil
}

// CancelAppointment cancela um agendamento do usuário e reabre o horário na mesma transação.
func (s *Store) CancelAppointment(ctx context.Context, id int, userID string) (cancelled domain.Appointment, err error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.DB.BeginTx(ctxTimeout, nil)
	if err != nil {
		return domain.Appointment{}, apperror.NewDBError("failed to start tx", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var appt domain.Appointment
	err = tx.QueryRowContext(ctxTimeout,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1 AND user_id = $2 FOR UPDATE`, id, userID,
	).Scan(&appt.ID, &appt.UserID, &appt.UnitID, &appt.SpecialtyID, &appt.ScheduleID, &appt.Status, &appt.Observacoes, &appt.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		err = apperror.NewNotFoundError(fmt.Sprintf("agendamento %d", id))
		return domain.Appointment{}, err
	}
	if err != nil {
		return domain.Appointment{}, apperror.NewDBError("failed to lock appointment", err)
	}
	if appt.Status == domain.StatusCancelled {
		err = apperror.NewConflictError("Agendamento já cancelado.")
		return domain.Appointment{}, err
	}

	if _, err = tx.ExecContext(ctxTimeout, `UPDATE appointments SET status = $1 WHERE id = $2`, domain.StatusCancelled, id); err != nil {
		return domain.Appointment{}, apperror.NewDBError("failed to cancel appointment", err)
	}
	if _, err = tx.ExecContext(ctxTimeout, `UPDATE schedules SET disponivel = 1 WHERE id = $1`, appt.ScheduleID); err != nil {
		return domain.Appointment{}, apperror.NewDBError("failed to reopen schedule", err)
	}
	if err = tx.Commit(); err != nil {
		return domain.Appointment{}, apperror.NewDBError("failed to commit tx", err)
	}

	appt.Status = domain.StatusCancelled
	s.logger.Info("Agendamento cancelado e horário reaberto.", map[string]interface{}{
		"appointment_id": id,
		"schedule_id":    appt.ScheduleID,
	})
	return appt, nil
}

const appointmentColumns = `id, user_id, unit_id, specialty_id, schedule_id, status, observacoes, created_at`

const detailsQuery = `SELECT a.id, a.user_id, a.unit_id, a.specialty_id, a.schedule_id, a.status, a.observacoes, a.created_at,
       sp.id, sp.nome,
       u.id, u.nome, u.specialty_id, u.endereco,
       s.id, s.unit_id, s.specialty_id, s.hora, s.data, s.disponivel
FROM appointments a
JOIN specialties sp ON sp.id = a.specialty_id
JOIN units u ON u.id = a.unit_id
JOIN schedules s ON s.id = a.schedule_id`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanDetails(row scanner) (domain.AppointmentWithDetails, error) {
	var d domain.AppointmentWithDetails
	err := row.Scan(
		&d.ID, &d.UserID, &d.UnitID, &d.SpecialtyID, &d.ScheduleID, &d.Status, &d.Observacoes, &d.CreatedAt,
		&d.Specialty.ID, &d.Specialty.Nome,
		&d.Unit.ID, &d.Unit.Nome, &d.Unit.SpecialtyID, &d.Unit.Endereco,
		&d.Schedule.ID, &d.Schedule.UnitID, &d.Schedule.SpecialtyID, &d.Schedule.Hora, &d.Schedule.Data, &d.Schedule.Disponivel,
	)
	return d, err
}

// FindAppointment busca um agendamento do usuário com detalhes; de outro usuário é NotFound.
func (s *Store) FindAppointment(ctx context.Context, id int, userID string) (domain.AppointmentWithDetails, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	d, err := scanDetails(s.DB.QueryRowContext(ctxTimeout, detailsQuery+` WHERE a.id = $1 AND a.user_id = $2`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AppointmentWithDetails{}, apperror.NewNotFoundError(fmt.Sprintf("agendamento %d", id))
	}
	if err != nil {
		return domain.AppointmentWithDetails{}, apperror.NewDBError("failed to find appointment", err)
	}
	return d, nil
}

// ListAppointmentsByUser devolve os agendamentos do usuário em ordem de criação.
func (s *Store) ListAppointmentsByUser(ctx context.Context, userID string) ([]domain.AppointmentWithDetails, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctxTimeout, detailsQuery+` WHERE a.user_id = $1 ORDER BY a.id`, userID)
	if err != nil {
		return nil, apperror.NewDBError("failed to list appointments", err)
	}
	defer rows.Close()

	out := make([]domain.AppointmentWithDetails, 0)
	for rows.Next() {
		d, err := scanDetails(rows)
		if err != nil {
			return nil, apperror.NewDBError("failed to scan appointment", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate appointments", err)
	}
	return out, nil
}
