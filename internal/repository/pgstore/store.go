// Package pgstore implementa o armazenamento de agendamento sobre PostgreSQL (database/sql + lib/pq).
// O contrato é o mesmo do memstore; o esquema vem das migrações goose em internal/pkg/database.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/logger"
)

// Códigos SQLSTATE tratados explicitamente.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// Store implementa as tabelas de agendamento no PostgreSQL.
type Store struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// New cria o Store injetando a conexão e o timeout por operação.
func New(db *sql.DB, dbTimeout time.Duration, log logger.Logger) *Store {
	return &Store{DB: db, DBTimeout: dbTimeout, logger: log}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.DBTimeout)
}

// pqCode devolve o código SQLSTATE de um erro do driver, ou "".
func pqCode(err error) pq.ErrorCode {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code
	}
	return ""
}

// --- Usuários ---

// InsertUser grava um usuário novo. CPF e email duplicados viram ConflictError.
func (s *Store) InsertUser(ctx context.Context, user domain.User) (domain.User, error) {
	s.logger.Debug("Iniciando InsertUser no repositório.", map[string]interface{}{"email": user.Email})

	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	const q = `INSERT INTO users (id, cpf, email, senha_hash, nome, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctxTimeout, q, user.ID, user.CPF, user.Email, user.PasswordHash, user.Nome, user.CreatedAt)
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			s.logger.Warn("Tentativa de cadastro duplicado.", map[string]interface{}{"email": user.Email})
			return domain.User{}, apperror.NewConflictError("CPF ou email já cadastrado.")
		}
		s.logger.Error("Falha ao inserir usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to insert user", err)
	}

	s.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

const userColumns = `id, cpf, email, senha_hash, nome, created_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.CPF, &u.Email, &u.PasswordHash, &u.Nome, &u.CreatedAt)
	return u, err
}

// FindUserByID busca um usuário pelo ID.
func (s *Store) FindUserByID(ctx context.Context, id string) (domain.User, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := scanUser(s.DB.QueryRowContext(ctxTimeout, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("usuário %s", id))
	}
	if err != nil {
		return domain.User{}, apperror.NewDBError("failed to find user by id", err)
	}
	return u, nil
}

// FindUserByIdentifier busca um usuário cujo email OU cpf seja igual a identifier.
func (s *Store) FindUserByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	s.logger.Debug("Executando query FindUserByIdentifier.", nil)

	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	u, err := scanUser(s.DB.QueryRowContext(ctxTimeout,
		`SELECT `+userColumns+` FROM users WHERE email = $1 OR cpf = $1 ORDER BY created_at LIMIT 1`, identifier))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, apperror.NewNotFoundError("usuário")
	}
	if err != nil {
		s.logger.Error("Falha ao buscar usuário no DB.", err)
		return domain.User{}, apperror.NewDBError("failed to find user", err)
	}
	return u, nil
}

// --- Especialidades ---

// InsertSpecialty grava uma especialidade; o ID vem da coluna identity.
func (s *Store) InsertSpecialty(ctx context.Context, sp domain.Specialty) (domain.Specialty, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.DB.QueryRowContext(ctxTimeout, `INSERT INTO specialties (nome) VALUES ($1) RETURNING id`, sp.Nome).Scan(&sp.ID)
	if err != nil {
		return domain.Specialty{}, apperror.NewDBError("failed to insert specialty", err)
	}
	return sp, nil
}

// ListSpecialties devolve todas as especialidades em ordem de ID.
func (s *Store) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctxTimeout, `SELECT id, nome FROM specialties ORDER BY id`)
	if err != nil {
		return nil, apperror.NewDBError("failed to list specialties", err)
	}
	defer rows.Close()

	out := make([]domain.Specialty, 0)
	for rows.Next() {
		var sp domain.Specialty
		if err := rows.Scan(&sp.ID, &sp.Nome); err != nil {
			return nil, apperror.NewDBError("failed to scan specialty", err)
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate specialties", err)
	}
	return out, nil
}

// FindSpecialty busca uma especialidade pelo ID.
func (s *Store) FindSpecialty(ctx context.Context, id int) (domain.Specialty, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	var sp domain.Specialty
	err := s.DB.QueryRowContext(ctxTimeout, `SELECT id, nome FROM specialties WHERE id = $1`, id).Scan(&sp.ID, &sp.Nome)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Specialty{}, apperror.NewNotFoundError(fmt.Sprintf("especialidade %d", id))
	}
	if err != nil {
		return domain.Specialty{}, apperror.NewDBError("failed to find specialty", err)
	}
	return sp, nil
}

// --- Unidades ---

// InsertUnit grava uma unidade. Especialidade inexistente vira ValidationError.
func (s *Store) InsertUnit(ctx context.Context, unit domain.Unit) (domain.Unit, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.DB.QueryRowContext(ctxTimeout,
		`INSERT INTO units (nome, specialty_id, endereco) VALUES ($1, $2, $3) RETURNING id`,
		unit.Nome, unit.SpecialtyID, unit.Endereco,
	).Scan(&unit.ID)
	if err != nil {
		if pqCode(err) == pqForeignKeyViolation {
			return domain.Unit{}, apperror.NewValidationError(fmt.Sprintf("especialidade %d inexistente", unit.SpecialtyID))
		}
		return domain.Unit{}, apperror.NewDBError("failed to insert unit", err)
	}
	return unit, nil
}

// ListUnitsBySpecialty devolve as unidades da especialidade com ela embutida (JOIN).
func (s *Store) ListUnitsBySpecialty(ctx context.Context, specialtyID int) ([]domain.UnitWithSpecialty, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	const q = `SELECT u.id, u.nome, u.specialty_id, u.endereco, sp.id, sp.nome
	           FROM units u JOIN specialties sp ON sp.id = u.specialty_id
	           WHERE u.specialty_id = $1 ORDER BY u.id`
	rows, err := s.DB.QueryContext(ctxTimeout, q, specialtyID)
	if err != nil {
		return nil, apperror.NewDBError("failed to list units", err)
	}
	defer rows.Close()

	out := make([]domain.UnitWithSpecialty, 0)
	for rows.Next() {
		var u domain.UnitWithSpecialty
		if err := rows.Scan(&u.ID, &u.Nome, &u.SpecialtyID, &u.Endereco, &u.Specialty.ID, &u.Specialty.Nome); err != nil {
			return nil, apperror.NewDBError("failed to scan unit", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate units", err)
	}
	return out, nil
}

// FindUnit busca uma unidade pelo ID.
func (s *Store) FindUnit(ctx context.Context, id int) (domain.Unit, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	var u domain.Unit
	err := s.DB.QueryRowContext(ctxTimeout, `SELECT id, nome, specialty_id, endereco FROM units WHERE id = $1`, id).
		Scan(&u.ID, &u.Nome, &u.SpecialtyID, &u.Endereco)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Unit{}, apperror.NewNotFoundError(fmt.Sprintf("unidade %d", id))
	}
	if err != nil {
		return domain.Unit{}, apperror.NewDBError("failed to find unit", err)
	}
	return u, nil
}

// --- Horários ---

// InsertSchedule grava um horário. A unidade precisa atender a especialidade informada;
// (unidade, especialidade, data, hora) repetidos viram ConflictError.
func (s *Store) InsertSchedule(ctx context.Context, sc domain.Schedule) (domain.Schedule, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	// O SELECT garante a coerência unidade/especialidade: sem linha, nada é inserido.
	const q = `INSERT INTO schedules (unit_id, specialty_id, hora, data, disponivel)
	           SELECT u.id, u.specialty_id, $3, $4, $5 FROM units u WHERE u.id = $1 AND u.specialty_id = $2
	           RETURNING id`
	err := s.DB.QueryRowContext(ctxTimeout, q, sc.UnitID, sc.SpecialtyID, sc.Hora, sc.Data, sc.Disponivel).Scan(&sc.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Schedule{}, apperror.NewValidationError(fmt.Sprintf("unidade %d não atende a especialidade %d", sc.UnitID, sc.SpecialtyID))
	}
	if err != nil {
		if pqCode(err) == pqUniqueViolation {
			return domain.Schedule{}, apperror.NewConflictError(fmt.Sprintf("horário %s %s já existe na unidade %d", sc.Data, sc.Hora, sc.UnitID))
		}
		return domain.Schedule{}, apperror.NewDBError("failed to insert schedule", err)
	}
	return sc, nil
}

const scheduleColumns = `id, unit_id, specialty_id, hora, data, disponivel`

// ListAvailableSchedules filtra por unidade, especialidade e data exatas, apenas disponíveis, por hora.
func (s *Store) ListAvailableSchedules(ctx context.Context, f domain.ScheduleFilter) ([]domain.Schedule, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctxTimeout,
		`SELECT `+scheduleColumns+` FROM schedules
		 WHERE unit_id = $1 AND specialty_id = $2 AND data = $3 AND disponivel = 1
		 ORDER BY hora, id`,
		f.UnitID, f.SpecialtyID, f.Data)
	if err != nil {
		return nil, apperror.NewDBError("failed to list schedules", err)
	}
	defer rows.Close()

	out := make([]domain.Schedule, 0)
	for rows.Next() {
		var sc domain.Schedule
		if err := rows.Scan(&sc.ID, &sc.UnitID, &sc.SpecialtyID, &sc.Hora, &sc.Data, &sc.Disponivel); err != nil {
			return nil, apperror.NewDBError("failed to scan schedule", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("failed to iterate schedules", err)
	}
	return out, nil
}

// FindSchedule busca um horário pelo ID.
func (s *Store) FindSchedule(ctx context.Context, id int) (domain.Schedule, error) {
	ctxTimeout, cancel := s.withTimeout(ctx)
	defer cancel()

	var sc domain.Schedule
	err := s.DB.QueryRowContext(ctxTimeout, `SELECT `+scheduleColumns+` FROM schedules WHERE id = $1`, id).
		Scan(&sc.ID, &sc.UnitID, &sc.SpecialtyID, &sc.Hora, &sc.Data, &sc.Disponivel)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Schedule{}, apperror.NewNotFoundError(fmt.Sprintf("horário %d", id))
	}
	if err != nil {
		return domain.Schedule{}, apperror.NewDBError("failed to find schedule", err)
	}
	return sc, nil
}
