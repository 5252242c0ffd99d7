package domain

// Specialty é uma especialidade médica (dado de referência estático).
type Specialty struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// Unit é uma unidade de atendimento vinculada a uma especialidade.
type Unit struct {
	ID          int    `json:"id"`
	Nome        string `json:"nome"`
	SpecialtyID int    `json:"specialty_id"`
	Endereco    string `json:"endereco"`
}

// UnitWithSpecialty é a unidade com a especialidade embutida, como devolvida na listagem.
type UnitWithSpecialty struct {
	Unit
	Specialty Specialty `json:"specialty"`
}

// Valores do campo Schedule.Disponivel.
const (
	ScheduleTaken     = 0
	ScheduleAvailable = 1
)

// Formatos de data e hora usados nos horários.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Schedule é um horário reservável (data + hora) em uma unidade para uma especialidade.
type Schedule struct {
	ID          int    `json:"id"`
	UnitID      int    `json:"unit_id"`
	SpecialtyID int    `json:"specialty_id"`
	Hora        string `json:"hora"` // "HH:MM"
	Data        string `json:"data"` // "YYYY-MM-DD"
	Disponivel  int    `json:"disponivel"`
}

// Available indica se o horário ainda pode ser reservado.
func (s Schedule) Available() bool {
	return s.Disponivel == ScheduleAvailable
}

// ScheduleFilter define a chave de busca de horários disponíveis.
type ScheduleFilter struct {
	UnitID      int
	SpecialtyID int
	Data        string
}
