package domain

import "time"

// User representa o paciente autenticável.
type User struct {
	ID           string    `json:"id"`
	CPF          string    `json:"cpf"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Nome         string    `json:"nome"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser é a visão do usuário devolvida no login.
type PublicUser struct {
	ID    string `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
	CPF   string `json:"cpf"`
}

// Public remove os campos sensíveis do usuário.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Nome: u.Nome, Email: u.Email, CPF: u.CPF}
}

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	CPF      string `json:"cpf" validate:"required,len=11,numeric"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Nome     string `json:"nome" validate:"required,max=120"`
}

// LoginRequest representa o payload de entrada para o login.
type LoginRequest struct {
	EmailOrCPF string `json:"emailOrCpf" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Session é o resultado de um login: o token bearer e os dados públicos do usuário.
// O cliente guarda a sessão explicitamente e a repassa a cada chamada protegida.
type Session struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}
