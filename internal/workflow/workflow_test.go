package workflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agendamed/internal/domain"
	"agendamed/internal/workflow"
)

type fakeCatalog struct {
	specialties []domain.Specialty
	units       map[int][]domain.UnitWithSpecialty
	schedules   map[string][]domain.Schedule // chave: data
	err         error
}

func (c *fakeCatalog) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	return c.specialties, c.err
}

func (c *fakeCatalog) ListUnits(ctx context.Context, specialtyID int) ([]domain.UnitWithSpecialty, error) {
	return c.units[specialtyID], c.err
}

func (c *fakeCatalog) ListAvailableSchedules(ctx context.Context, unitID, specialtyID int, date string) ([]domain.Schedule, error) {
	var out []domain.Schedule
	for _, s := range c.schedules[date] {
		if s.UnitID == unitID && s.SpecialtyID == specialtyID {
			out = append(out, s)
		}
	}
	return out, c.err
}

type fakeBooker struct {
	requests []domain.AppointmentRequest
	err      error
}

func (b *fakeBooker) CreateAppointment(ctx context.Context, req domain.AppointmentRequest) (domain.Appointment, error) {
	b.requests = append(b.requests, req)
	if b.err != nil {
		return domain.Appointment{}, b.err
	}
	return domain.Appointment{
		ID:          42,
		UserID:      "u-1",
		UnitID:      req.UnitID,
		SpecialtyID: req.SpecialtyID,
		ScheduleID:  req.ScheduleID,
		Status:      req.Status,
		Observacoes: req.Observacoes,
	}, nil
}

const day = "2026-10-19"

func newCatalog() *fakeCatalog {
	cardio := domain.Specialty{ID: 1, Nome: "Cardiologia"}
	derma := domain.Specialty{ID: 2, Nome: "Dermatologia"}
	return &fakeCatalog{
		specialties: []domain.Specialty{cardio, derma},
		units: map[int][]domain.UnitWithSpecialty{
			1: {{Unit: domain.Unit{ID: 1, Nome: "Clínica Coração", SpecialtyID: 1}, Specialty: cardio}},
			2: {{Unit: domain.Unit{ID: 4, Nome: "Clínica Derma Care", SpecialtyID: 2}, Specialty: derma}},
		},
		schedules: map[string][]domain.Schedule{
			day: {
				{ID: 10, UnitID: 1, SpecialtyID: 1, Data: day, Hora: "08:00", Disponivel: 1},
				{ID: 11, UnitID: 1, SpecialtyID: 1, Data: day, Hora: "09:00", Disponivel: 1},
				{ID: 20, UnitID: 4, SpecialtyID: 2, Data: day, Hora: "10:00", Disponivel: 1},
			},
		},
	}
}

// walkToConfirming leva o fluxo até Confirming com cardiologia / unidade 1 / horário 11.
func walkToConfirming(t *testing.T, f *workflow.Flow) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.SelectSpecialty(ctx, 1))
	require.NoError(t, f.SelectUnit(ctx, 1))
	require.NoError(t, f.SelectSchedule(ctx, day, 11))
	require.Equal(t, workflow.Confirming, f.State())
}

func TestFlow_HappyPath(t *testing.T) {
	ctx := context.Background()
	booker := &fakeBooker{}
	f := workflow.New(newCatalog(), booker)
	assert.Equal(t, workflow.ChoosingSpecialty, f.State())

	specialties, err := f.Specialties(ctx)
	require.NoError(t, err)
	assert.Len(t, specialties, 2)

	require.NoError(t, f.SelectSpecialty(ctx, 1))
	assert.Equal(t, workflow.ChoosingUnit, f.State())

	units, err := f.Units(ctx)
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "Clínica Coração", units[0].Nome)

	require.NoError(t, f.SelectUnit(ctx, 1))
	assert.Equal(t, workflow.ChoosingSchedule, f.State())

	schedules, err := f.Schedules(ctx, day)
	require.NoError(t, err)
	assert.Len(t, schedules, 2, "apenas horários da unidade e especialidade escolhidas")

	require.NoError(t, f.SelectSchedule(ctx, day, 11))
	require.NoError(t, f.SetNotes("primeira consulta"))

	appt, err := f.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, workflow.Done, f.State())
	assert.Equal(t, 42, appt.ID)

	require.Len(t, booker.requests, 1)
	assert.Equal(t, domain.AppointmentRequest{
		UnitID:      1,
		SpecialtyID: 1,
		ScheduleID:  11,
		Status:      domain.StatusConfirmed,
		Observacoes: "primeira consulta",
	}, booker.requests[0])

	got, ok := f.Result()
	assert.True(t, ok)
	assert.Equal(t, appt, got)
}

func TestFlow_UnknownChoiceKeepsState(t *testing.T) {
	ctx := context.Background()
	f := workflow.New(newCatalog(), &fakeBooker{})

	assert.ErrorIs(t, f.SelectSpecialty(ctx, 99), workflow.ErrUnknownChoice)
	assert.Equal(t, workflow.ChoosingSpecialty, f.State())

	require.NoError(t, f.SelectSpecialty(ctx, 1))
	// unidade 4 existe, mas pertence a outra especialidade
	assert.ErrorIs(t, f.SelectUnit(ctx, 4), workflow.ErrUnknownChoice)
	assert.Equal(t, workflow.ChoosingUnit, f.State())

	require.NoError(t, f.SelectUnit(ctx, 1))
	assert.ErrorIs(t, f.SelectSchedule(ctx, day, 20), workflow.ErrUnknownChoice)
	assert.ErrorIs(t, f.SelectSchedule(ctx, "2026-10-20", 11), workflow.ErrUnknownChoice)
	assert.Equal(t, workflow.ChoosingSchedule, f.State())
	assert.Nil(t, f.Draft().Schedule)
}

func TestFlow_OutOfOrderActions(t *testing.T) {
	ctx := context.Background()
	f := workflow.New(newCatalog(), &fakeBooker{})

	assert.ErrorIs(t, f.SelectUnit(ctx, 1), workflow.ErrInvalidTransition)
	assert.ErrorIs(t, f.SelectSchedule(ctx, day, 10), workflow.ErrInvalidTransition)
	_, err := f.Confirm(ctx)
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	_, err = f.Units(ctx)
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
	_, err = f.Schedules(ctx, day)
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)

	require.NoError(t, f.SelectSpecialty(ctx, 1))
	assert.ErrorIs(t, f.SelectSpecialty(ctx, 2), workflow.ErrInvalidTransition)
}

func TestFlow_Back(t *testing.T) {
	ctx := context.Background()
	f := workflow.New(newCatalog(), &fakeBooker{})
	walkToConfirming(t, f)

	require.NoError(t, f.Back())
	assert.Equal(t, workflow.ChoosingSchedule, f.State())
	d := f.Draft()
	assert.Nil(t, d.Schedule)
	assert.Empty(t, d.Date)
	assert.NotNil(t, d.Unit)

	require.NoError(t, f.Back())
	assert.Equal(t, workflow.ChoosingUnit, f.State())
	d = f.Draft()
	assert.Nil(t, d.Unit)
	assert.NotNil(t, d.Specialty)

	require.NoError(t, f.Back())
	assert.Equal(t, workflow.ChoosingSpecialty, f.State())
	assert.Nil(t, f.Draft().Specialty)

	// recomeça por outra especialidade
	require.NoError(t, f.SelectSpecialty(ctx, 2))
	require.NoError(t, f.SelectUnit(ctx, 4))
	require.NoError(t, f.SelectSchedule(ctx, day, 20))

	// Back no primeiro passo encerra
	f2 := workflow.New(newCatalog(), &fakeBooker{})
	require.NoError(t, f2.Back())
	assert.Equal(t, workflow.Closed, f2.State())
}

func TestFlow_DraftIsDetached(t *testing.T) {
	booker := &fakeBooker{}
	f := workflow.New(newCatalog(), booker)
	walkToConfirming(t, f)

	d := f.Draft()
	d.Specialty.ID = 2
	d.Unit.ID = 4
	d.Unit.Specialty.ID = 2
	d.Schedule.ID = 999999

	again := f.Draft()
	assert.Equal(t, 1, again.Specialty.ID)
	assert.Equal(t, 1, again.Unit.ID)
	assert.Equal(t, 11, again.Schedule.ID)

	_, err := f.Confirm(context.Background())
	require.NoError(t, err)
	require.Len(t, booker.requests, 1)
	assert.Equal(t, 1, booker.requests[0].SpecialtyID)
	assert.Equal(t, 1, booker.requests[0].UnitID)
	assert.Equal(t, 11, booker.requests[0].ScheduleID)
}

func TestFlow_NotesSurviveBack(t *testing.T) {
	f := workflow.New(newCatalog(), &fakeBooker{})
	require.NoError(t, f.SetNotes("trazer exames"))
	walkToConfirming(t, f)
	require.NoError(t, f.Back())
	assert.Equal(t, "trazer exames", f.Draft().Notes)
}

func TestFlow_ConfirmFailureKeepsDraft(t *testing.T) {
	ctx := context.Background()
	booker := &fakeBooker{err: errors.New("Horário indisponível.")}
	f := workflow.New(newCatalog(), booker)
	walkToConfirming(t, f)

	_, err := f.Confirm(ctx)
	require.Error(t, err)
	assert.Equal(t, workflow.Confirming, f.State())
	d := f.Draft()
	require.NotNil(t, d.Schedule)
	assert.Equal(t, 11, d.Schedule.ID)
	_, ok := f.Result()
	assert.False(t, ok)

	// usuário volta e escolhe outro horário
	require.NoError(t, f.Back())
	booker.err = nil
	require.NoError(t, f.SelectSchedule(ctx, day, 10))
	appt, err := f.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, appt.ScheduleID)
	assert.Len(t, booker.requests, 2)
}

func TestFlow_CatalogErrorPropagates(t *testing.T) {
	cat := newCatalog()
	cat.err = errors.New("rede fora")
	f := workflow.New(cat, &fakeBooker{})

	assert.EqualError(t, f.SelectSpecialty(context.Background(), 1), "rede fora")
	assert.Equal(t, workflow.ChoosingSpecialty, f.State())
}

func TestFlow_TerminalStates(t *testing.T) {
	ctx := context.Background()

	closed := workflow.New(newCatalog(), &fakeBooker{})
	walkToConfirming(t, closed)
	require.NoError(t, closed.Close())
	assert.Equal(t, workflow.Closed, closed.State())
	assert.False(t, closed.Draft().Complete())

	done := workflow.New(newCatalog(), &fakeBooker{})
	walkToConfirming(t, done)
	_, err := done.Confirm(ctx)
	require.NoError(t, err)

	for name, f := range map[string]*workflow.Flow{"closed": closed, "done": done} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, f.SelectSpecialty(ctx, 1), workflow.ErrFinished)
			assert.ErrorIs(t, f.SetNotes("x"), workflow.ErrFinished)
			assert.ErrorIs(t, f.Back(), workflow.ErrFinished)
			assert.ErrorIs(t, f.Close(), workflow.ErrFinished)
			_, err := f.Confirm(ctx)
			assert.ErrorIs(t, err, workflow.ErrFinished)
			_, err = f.Specialties(ctx)
			assert.ErrorIs(t, err, workflow.ErrFinished)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "choosing_specialty", workflow.ChoosingSpecialty.String())
	assert.Equal(t, "confirming", workflow.Confirming.String())
	assert.Equal(t, "state(9)", workflow.State(9).String())
	assert.True(t, workflow.Done.Terminal())
	assert.False(t, workflow.Confirming.Terminal())
}
