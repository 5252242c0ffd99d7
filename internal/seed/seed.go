package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/crypto/bcrypt"

	"agendamed/internal/domain"
	"agendamed/internal/pkg/logger"
)

// Credenciais do usuário de teste semeado.
const (
	TestUserEmail    = "teste@teste.com"
	TestUserCPF      = "12345678901"
	TestUserPassword = "123456"
	TestUserName     = "João Silva"
)

// TimeSlots são os horários diários semeados em cada unidade.
var TimeSlots = []string{"08:00", "09:30", "11:00", "14:00", "15:30", "17:00"}

// Specialties são as especialidades semeadas, na ordem dos IDs.
var Specialties = []string{"Cardiologia", "Dermatologia", "Ortopedia", "Pediatria"}

type unitFixture struct {
	nome      string
	specialty string
	endereco  string
}

var units = []unitFixture{
	{"Hospital Central - Unidade Sul", "Cardiologia", "Rua das Flores, 123 - Centro"},
	{"Clínica Especializada - Centro", "Cardiologia", "Av. Principal, 456 - Jardins"},
	{"Hospital São José - Unidade Norte", "Cardiologia", "Rua Norte, 789 - Vila Nova"},
	{"Clínica Derma Care", "Dermatologia", "Rua da Pele, 321 - Centro"},
	{"Hospital Ortopédico", "Ortopedia", "Av. dos Ossos, 654 - Jardins"},
	{"Pediatria Infantil", "Pediatria", "Rua das Crianças, 987 - Vila Nova"},
}

// Target é o que o Seeder precisa do armazenamento.
type Target interface {
	ListSpecialties(ctx context.Context) ([]domain.Specialty, error)
	InsertUser(ctx context.Context, user domain.User) (domain.User, error)
	InsertSpecialty(ctx context.Context, sp domain.Specialty) (domain.Specialty, error)
	InsertUnit(ctx context.Context, unit domain.Unit) (domain.Unit, error)
	InsertSchedule(ctx context.Context, sc domain.Schedule) (domain.Schedule, error)
}

// Options controla a janela e a aleatoriedade da semeadura.
type Options struct {
	Now          time.Time // primeiro dia da janela
	Days         int       // dias corridos a partir de Now (fins de semana são pulados)
	Availability float64   // probabilidade de cada horário nascer disponível, em [0, 1]
	RandomSeed   uint64    // mesma semente, mesma disponibilidade
	HashCost     int       // custo bcrypt da senha do usuário de teste
}

// DefaultOptions reproduz a semeadura original: 30 dias, 70% de disponibilidade.
func DefaultOptions() Options {
	return Options{
		Now:          time.Now(),
		Days:         30,
		Availability: 0.7,
		RandomSeed:   1,
		HashCost:     bcrypt.DefaultCost,
	}
}

// Seeder popula um Target vazio com os dados fixos do sistema.
type Seeder struct {
	opts   Options
	logger logger.Logger
}

// NewSeeder cria o Seeder.
func NewSeeder(opts Options, log logger.Logger) *Seeder {
	return &Seeder{opts: opts, logger: log}
}

// Run semeia o Target. Se já houver especialidades, nada é feito e skipped é true.
func (s *Seeder) Run(ctx context.Context, target Target) (skipped bool, err error) {
	existing, err := target.ListSpecialties(ctx)
	if err != nil {
		return false, fmt.Errorf("seed: falha ao verificar dados existentes: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info("Base já semeada, semeadura ignorada.", map[string]interface{}{"specialties": len(existing)})
		return true, nil
	}

	if err := s.seedUser(ctx, target); err != nil {
		return false, err
	}

	specialtyIDs := make(map[string]int, len(Specialties))
	for _, nome := range Specialties {
		sp, err := target.InsertSpecialty(ctx, domain.Specialty{Nome: nome})
		if err != nil {
			return false, fmt.Errorf("seed: especialidade %s: %w", nome, err)
		}
		specialtyIDs[nome] = sp.ID
	}

	created := make([]domain.Unit, 0, len(units))
	for _, u := range units {
		unit, err := target.InsertUnit(ctx, domain.Unit{
			Nome:        u.nome,
			SpecialtyID: specialtyIDs[u.specialty],
			Endereco:    u.endereco,
		})
		if err != nil {
			return false, fmt.Errorf("seed: unidade %s: %w", u.nome, err)
		}
		created = append(created, unit)
	}

	count, err := s.seedSchedules(ctx, target, created)
	if err != nil {
		return false, err
	}

	s.logger.Info("Semeadura concluída.", map[string]interface{}{
		"specialties": len(Specialties),
		"units":       len(created),
		"schedules":   count,
	})
	return false, nil
}

func (s *Seeder) seedUser(ctx context.Context, target Target) error {
	cost := s.opts.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(TestUserPassword), cost)
	if err != nil {
		return fmt.Errorf("seed: hash da senha: %w", err)
	}

	_, err = target.InsertUser(ctx, domain.User{
		CPF:          TestUserCPF,
		Email:        TestUserEmail,
		PasswordHash: string(hash),
		Nome:         TestUserName,
	})
	if err != nil {
		return fmt.Errorf("seed: usuário de teste: %w", err)
	}
	return nil
}

func (s *Seeder) seedSchedules(ctx context.Context, target Target, units []domain.Unit) (int, error) {
	rng := rand.New(rand.NewPCG(s.opts.RandomSeed, s.opts.RandomSeed^0x9e3779b97f4a7c15))
	count := 0

	for _, day := range Weekdays(s.opts.Now, s.opts.Days) {
		data := day.Format(domain.DateLayout)
		for _, unit := range units {
			for _, hora := range TimeSlots {
				disponivel := domain.ScheduleTaken
				if rng.Float64() < s.opts.Availability {
					disponivel = domain.ScheduleAvailable
				}
				_, err := target.InsertSchedule(ctx, domain.Schedule{
					UnitID:      unit.ID,
					SpecialtyID: unit.SpecialtyID,
					Hora:        hora,
					Data:        data,
					Disponivel:  disponivel,
				})
				if err != nil {
					return count, fmt.Errorf("seed: horário %s %s unidade %d: %w", data, hora, unit.ID, err)
				}
				count++
			}
		}
	}
	return count, nil
}

// Weekdays devolve os dias úteis (segunda a sexta) entre start e start+days-1, à meia-noite
// no fuso de start.
func Weekdays(start time.Time, days int) []time.Time {
	y, m, d := start.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, start.Location())

	out := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		day := first.AddDate(0, 0, i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		out = append(out, day)
	}
	return out
}
