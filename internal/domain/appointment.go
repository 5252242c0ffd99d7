package domain

import "time"

// AppointmentStatus é o estado de um agendamento.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment liga um usuário a um horário reservado.
type Appointment struct {
	ID          int               `json:"id"`
	UserID      string            `json:"user_id"`
	UnitID      int               `json:"unit_id"`
	SpecialtyID int               `json:"specialty_id"`
	ScheduleID  int               `json:"schedule_id"`
	Status      AppointmentStatus `json:"status"`
	Observacoes string            `json:"observacoes"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// AppointmentWithDetails é o agendamento com especialidade, unidade e horário embutidos.
type AppointmentWithDetails struct {
	Appointment
	Specialty Specialty `json:"specialty"`
	Unit      Unit      `json:"unit"`
	Schedule  Schedule  `json:"schedule"`
}

// AppointmentRequest é o payload de criação de agendamento.
// O user_id nunca vem do corpo: é extraído do token.
type AppointmentRequest struct {
	UnitID      int               `json:"unit_id" validate:"required,gt=0"`
	SpecialtyID int               `json:"specialty_id" validate:"required,gt=0"`
	ScheduleID  int               `json:"schedule_id" validate:"required,gt=0"`
	Status      AppointmentStatus `json:"status" validate:"omitempty,oneof=pending confirmed"`
	Observacoes string            `json:"observacoes" validate:"max=1000"`
}
