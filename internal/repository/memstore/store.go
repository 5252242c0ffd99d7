// Package memstore é o armazenamento em memória das tabelas de agendamento.
//
// Todas as leituras devolvem cópias recém-alocadas; nenhum chamador consegue alterar o estado
// do Store através de um resultado de consulta. Escritas passam pelo lock exclusivo, e
// ClaimSchedule/CancelAppointment fazem as duas escritas (agendamento + horário) na mesma seção
// crítica.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/logger"
)

type slotKey struct {
	unitID      int
	specialtyID int
	data        string
	hora        string
}

// Store mantém as tabelas em memória. O valor zero não é utilizável; use New.
type Store struct {
	mu sync.RWMutex

	users        map[string]domain.User
	userOrder    []string
	specialties  map[int]domain.Specialty
	specOrder    []int
	units        map[int]domain.Unit
	unitOrder    []int
	schedules    map[int]domain.Schedule
	schedOrder   []int
	slots        map[slotKey]int
	appointments map[int]domain.Appointment
	apptOrder    []int

	nextSpecialtyID   int
	nextUnitID        int
	nextScheduleID    int
	nextAppointmentID int

	now    func() time.Time
	logger logger.Logger
}

// New cria um Store vazio.
func New(log logger.Logger) *Store {
	return &Store{
		users:             make(map[string]domain.User),
		specialties:       make(map[int]domain.Specialty),
		units:             make(map[int]domain.Unit),
		schedules:         make(map[int]domain.Schedule),
		slots:             make(map[slotKey]int),
		appointments:      make(map[int]domain.Appointment),
		nextSpecialtyID:   1,
		nextUnitID:        1,
		nextScheduleID:    1,
		nextAppointmentID: 1,
		now:               time.Now,
		logger:            log,
	}
}

// --- Usuários ---

// InsertUser grava um usuário novo. CPF e email são únicos.
func (s *Store) InsertUser(_ context.Context, user domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.CPF == user.CPF || u.Email == user.Email {
			s.logger.Warn("Tentativa de cadastro duplicado.", map[string]interface{}{"email": user.Email})
			return domain.User{}, apperror.NewConflictError("CPF ou email já cadastrado.")
		}
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.ID] = user
	s.userOrder = append(s.userOrder, user.ID)

	s.logger.Info("Usuário salvo com sucesso no repositório.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// FindUserByID busca um usuário pelo ID.
func (s *Store) FindUserByID(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("usuário %s", id))
	}
	return u, nil
}

// FindUserByIdentifier busca um usuário cujo email OU cpf seja igual a identifier.
func (s *Store) FindUserByIdentifier(_ context.Context, identifier string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.userOrder {
		u := s.users[id]
		if u.Email == identifier || u.CPF == identifier {
			return u, nil
		}
	}
	return domain.User{}, apperror.NewNotFoundError("usuário")
}

// --- Especialidades ---

// InsertSpecialty grava uma especialidade com o próximo ID.
func (s *Store) InsertSpecialty(_ context.Context, sp domain.Specialty) (domain.Specialty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp.ID = s.nextSpecialtyID
	s.nextSpecialtyID++
	s.specialties[sp.ID] = sp
	s.specOrder = append(s.specOrder, sp.ID)
	return sp, nil
}

// ListSpecialties devolve todas as especialidades em ordem de inserção.
func (s *Store) ListSpecialties(_ context.Context) ([]domain.Specialty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Specialty, 0, len(s.specOrder))
	for _, id := range s.specOrder {
		out = append(out, s.specialties[id])
	}
	return out, nil
}

// FindSpecialty busca uma especialidade pelo ID.
func (s *Store) FindSpecialty(_ context.Context, id int) (domain.Specialty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, ok := s.specialties[id]
	if !ok {
		return domain.Specialty{}, apperror.NewNotFoundError(fmt.Sprintf("especialidade %d", id))
	}
	return sp, nil
}

// --- Unidades ---

// InsertUnit grava uma unidade. A especialidade referenciada precisa existir.
func (s *Store) InsertUnit(_ context.Context, unit domain.Unit) (domain.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.specialties[unit.SpecialtyID]; !ok {
		return domain.Unit{}, apperror.NewValidationError(fmt.Sprintf("especialidade %d inexistente", unit.SpecialtyID))
	}

	unit.ID = s.nextUnitID
	s.nextUnitID++
	s.units[unit.ID] = unit
	s.unitOrder = append(s.unitOrder, unit.ID)
	return unit, nil
}

// ListUnitsBySpecialty devolve as unidades da especialidade com ela embutida.
// Especialidade desconhecida resulta em lista vazia.
func (s *Store) ListUnitsBySpecialty(_ context.Context, specialtyID int) ([]domain.UnitWithSpecialty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UnitWithSpecialty, 0)
	sp, ok := s.specialties[specialtyID]
	if !ok {
		return out, nil
	}
	for _, id := range s.unitOrder {
		u := s.units[id]
		if u.SpecialtyID == specialtyID {
			out = append(out, domain.UnitWithSpecialty{Unit: u, Specialty: sp})
		}
	}
	return out, nil
}

// FindUnit busca uma unidade pelo ID.
func (s *Store) FindUnit(_ context.Context, id int) (domain.Unit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.units[id]
	if !ok {
		return domain.Unit{}, apperror.NewNotFoundError(fmt.Sprintf("unidade %d", id))
	}
	return u, nil
}

// --- Horários ---

// InsertSchedule grava um horário. (unidade, especialidade, data, hora) é único e as
// referências precisam existir e ser coerentes entre si.
func (s *Store) InsertSchedule(_ context.Context, sc domain.Schedule) (domain.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	unit, ok := s.units[sc.UnitID]
	if !ok {
		return domain.Schedule{}, apperror.NewValidationError(fmt.Sprintf("unidade %d inexistente", sc.UnitID))
	}
	if unit.SpecialtyID != sc.SpecialtyID {
		return domain.Schedule{}, apperror.NewValidationError(fmt.Sprintf("unidade %d não atende a especialidade %d", sc.UnitID, sc.SpecialtyID))
	}

	key := slotKey{unitID: sc.UnitID, specialtyID: sc.SpecialtyID, data: sc.Data, hora: sc.Hora}
	if _, dup := s.slots[key]; dup {
		return domain.Schedule{}, apperror.NewConflictError(fmt.Sprintf("horário %s %s já existe na unidade %d", sc.Data, sc.Hora, sc.UnitID))
	}

	sc.ID = s.nextScheduleID
	s.nextScheduleID++
	s.schedules[sc.ID] = sc
	s.schedOrder = append(s.schedOrder, sc.ID)
	s.slots[key] = sc.ID
	return sc, nil
}

// ListAvailableSchedules filtra por unidade, especialidade e data exatas, apenas horários
// disponíveis, ordenados por hora.
func (s *Store) ListAvailableSchedules(_ context.Context, f domain.ScheduleFilter) ([]domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Schedule, 0)
	for _, id := range s.schedOrder {
		sc := s.schedules[id]
		if sc.UnitID == f.UnitID && sc.SpecialtyID == f.SpecialtyID && sc.Data == f.Data && sc.Available() {
			out = append(out, sc)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Hora < out[j].Hora })
	return out, nil
}

// FindSchedule busca um horário pelo ID.
func (s *Store) FindSchedule(_ context.Context, id int) (domain.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.schedules[id]
	if !ok {
		return domain.Schedule{}, apperror.NewNotFoundError(fmt.Sprintf("horário %d", id))
	}
	return sc, nil
}
