// Package workflow implementa o fluxo de agendamento em quatro passos do lado do cliente:
// especialidade → unidade → horário → confirmação.
//
// Um Flow pertence a uma única sessão de usuário e não é seguro para uso concorrente.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"agendamed/internal/domain"
)

// Erros de transição do fluxo.
var (
	ErrInvalidTransition = errors.New("workflow: ação não permitida no passo atual")
	ErrUnknownChoice     = errors.New("workflow: opção não está entre as disponíveis")
	ErrIncompleteDraft   = errors.New("workflow: selecione especialidade, unidade e horário antes de confirmar")
	ErrFinished          = errors.New("workflow: fluxo encerrado")
)

// State é o passo atual do fluxo.
type State int

const (
	ChoosingSpecialty State = iota
	ChoosingUnit
	ChoosingSchedule
	Confirming
	Done
	Closed
)

func (s State) String() string {
	switch s {
	case ChoosingSpecialty:
		return "choosing_specialty"
	case ChoosingUnit:
		return "choosing_unit"
	case ChoosingSchedule:
		return "choosing_schedule"
	case Confirming:
		return "confirming"
	case Done:
		return "done"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal indica se nenhuma ação é mais aceita.
func (s State) Terminal() bool {
	return s == Done || s == Closed
}

// Catalog fornece as opções de cada passo.
type Catalog interface {
	ListSpecialties(ctx context.Context) ([]domain.Specialty, error)
	ListUnits(ctx context.Context, specialtyID int) ([]domain.UnitWithSpecialty, error)
	ListAvailableSchedules(ctx context.Context, unitID, specialtyID int, date string) ([]domain.Schedule, error)
}

// Booker envia o agendamento em nome do usuário da sessão.
type Booker interface {
	CreateAppointment(ctx context.Context, req domain.AppointmentRequest) (domain.Appointment, error)
}

// Draft acumula as escolhas do usuário. Campos nil ainda não foram escolhidos.
type Draft struct {
	Specialty *domain.Specialty
	Unit      *domain.UnitWithSpecialty
	Date      string
	Schedule  *domain.Schedule
	Notes     string
}

// Complete indica se o rascunho pode ser confirmado.
func (d Draft) Complete() bool {
	return d.Specialty != nil && d.Unit != nil && d.Schedule != nil
}

func (d Draft) clone() Draft {
	out := d
	if d.Specialty != nil {
		sp := *d.Specialty
		out.Specialty = &sp
	}
	if d.Unit != nil {
		u := *d.Unit
		out.Unit = &u
	}
	if d.Schedule != nil {
		sc := *d.Schedule
		out.Schedule = &sc
	}
	return out
}

// Flow é a máquina de estados do agendamento.
type Flow struct {
	catalog Catalog
	booker  Booker

	state  State
	draft  Draft
	result *domain.Appointment
}

// New inicia um fluxo em ChoosingSpecialty com rascunho vazio.
func New(catalog Catalog, booker Booker) *Flow {
	return &Flow{catalog: catalog, booker: booker, state: ChoosingSpecialty}
}

// State devolve o passo atual.
func (f *Flow) State() State { return f.state }

// Draft devolve uma cópia profunda do rascunho atual; alterá-la não afeta o fluxo.
func (f *Flow) Draft() Draft { return f.draft.clone() }

// Result devolve o agendamento criado, se o fluxo terminou em Done.
func (f *Flow) Result() (domain.Appointment, bool) {
	if f.result == nil {
		return domain.Appointment{}, false
	}
	return *f.result, true
}

// --- Opções de cada passo ---

// Specialties lista as especialidades.
func (f *Flow) Specialties(ctx context.Context) ([]domain.Specialty, error) {
	if f.state.Terminal() {
		return nil, ErrFinished
	}
	return f.catalog.ListSpecialties(ctx)
}

// Units lista as unidades da especialidade escolhida.
func (f *Flow) Units(ctx context.Context) ([]domain.UnitWithSpecialty, error) {
	if f.state.Terminal() {
		return nil, ErrFinished
	}
	if f.draft.Specialty == nil {
		return nil, ErrInvalidTransition
	}
	return f.catalog.ListUnits(ctx, f.draft.Specialty.ID)
}

// Schedules lista os horários livres da unidade escolhida na data.
func (f *Flow) Schedules(ctx context.Context, date string) ([]domain.Schedule, error) {
	if f.state.Terminal() {
		return nil, ErrFinished
	}
	if f.draft.Unit == nil {
		return nil, ErrInvalidTransition
	}
	return f.catalog.ListAvailableSchedules(ctx, f.draft.Unit.ID, f.draft.Specialty.ID, date)
}

// --- Seleções ---

// SelectSpecialty escolhe a especialidade e avança para ChoosingUnit.
func (f *Flow) SelectSpecialty(ctx context.Context, id int) error {
	if err := f.expect(ChoosingSpecialty); err != nil {
		return err
	}
	choices, err := f.Specialties(ctx)
	if err != nil {
		return err
	}
	for _, sp := range choices {
		if sp.ID == id {
			chosen := sp
			f.draft.Specialty = &chosen
			f.state = ChoosingUnit
			return nil
		}
	}
	return ErrUnknownChoice
}

// SelectUnit escolhe a unidade e avança para ChoosingSchedule.
func (f *Flow) SelectUnit(ctx context.Context, id int) error {
	if err := f.expect(ChoosingUnit); err != nil {
		return err
	}
	choices, err := f.Units(ctx)
	if err != nil {
		return err
	}
	for _, u := range choices {
		if u.ID == id {
			chosen := u
			f.draft.Unit = &chosen
			f.state = ChoosingSchedule
			return nil
		}
	}
	return ErrUnknownChoice
}

// SelectSchedule escolhe um horário livre da data e avança para Confirming.
func (f *Flow) SelectSchedule(ctx context.Context, date string, id int) error {
	if err := f.expect(ChoosingSchedule); err != nil {
		return err
	}
	choices, err := f.Schedules(ctx, date)
	if err != nil {
		return err
	}
	for _, sc := range choices {
		if sc.ID == id {
			chosen := sc
			f.draft.Schedule = &chosen
			f.draft.Date = date
			f.state = Confirming
			return nil
		}
	}
	return ErrUnknownChoice
}

// SetNotes grava as observações; aceito em qualquer passo não terminal.
func (f *Flow) SetNotes(text string) error {
	if f.state.Terminal() {
		return ErrFinished
	}
	f.draft.Notes = text
	return nil
}

// Confirm envia o agendamento com status "confirmed".
// Em caso de falha o fluxo continua em Confirming com o rascunho intacto.
func (f *Flow) Confirm(ctx context.Context) (domain.Appointment, error) {
	if err := f.expect(Confirming); err != nil {
		return domain.Appointment{}, err
	}
	if !f.draft.Complete() {
		return domain.Appointment{}, ErrIncompleteDraft
	}

	appt, err := f.booker.CreateAppointment(ctx, domain.AppointmentRequest{
		UnitID:      f.draft.Unit.ID,
		SpecialtyID: f.draft.Specialty.ID,
		ScheduleID:  f.draft.Schedule.ID,
		Status:      domain.StatusConfirmed,
		Observacoes: f.draft.Notes,
	})
	if err != nil {
		return domain.Appointment{}, err
	}

	f.result = &appt
	f.state = Done
	return appt, nil
}

// Back volta um passo descartando apenas a última escolha. Em ChoosingSpecialty equivale a Close.
func (f *Flow) Back() error {
	switch f.state {
	case ChoosingSpecialty:
		return f.Close()
	case ChoosingUnit:
		f.draft.Specialty = nil
		f.draft.Unit = nil
		f.state = ChoosingSpecialty
	case ChoosingSchedule:
		f.draft.Unit = nil
		f.state = ChoosingUnit
	case Confirming:
		f.draft.Schedule = nil
		f.draft.Date = ""
		f.state = ChoosingSchedule
	default:
		return ErrFinished
	}
	return nil
}

// Close encerra o fluxo e descarta o rascunho.
func (f *Flow) Close() error {
	if f.state.Terminal() {
		return ErrFinished
	}
	f.draft = Draft{}
	f.state = Closed
	return nil
}

func (f *Flow) expect(want State) error {
	if f.state.Terminal() {
		return ErrFinished
	}
	if f.state != want {
		return fmt.Errorf("%w: em %s, esperado %s", ErrInvalidTransition, f.state, want)
	}
	return nil
}
