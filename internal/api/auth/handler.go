package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/logger"
	"agendamed/internal/pkg/respond"
	"agendamed/internal/pkg/validate"
	"agendamed/internal/service/authservice"
)

// AuthService define o contrato para as operações de registro e login.
type AuthService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, identifier, password string) (domain.Session, error)
}

// Handler agrupa os endpoints de autenticação.
type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// RegisterHandler lida com a requisição POST /api/register.
// @Summary Registra um novo usuário
// @Description Cria um usuário com CPF e email únicos; a senha é guardada como hash bcrypt.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Dados de cadastro"
// @Success 201 {object} domain.User "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "CPF ou email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /register [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	newUser, err := h.Service.Register(r.Context(), reg)
	respond.Result(w, r, h.Logger, newUser, err, http.StatusCreated)
}

// LoginHandler lida com a requisição POST /api/login.
// @Summary Autentica um usuário e retorna a sessão
// @Description Recebe email ou CPF e senha; devolve um JWT e os dados públicos do usuário.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body domain.LoginRequest true "Credenciais (email ou CPF e senha)"
// @Success 200 {object} domain.Session "Sessão emitida"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Failure 429 {object} domain.ErrorResponse "Muitas tentativas"
// @Router /login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewValidationError("Payload JSON inválido."))
		return
	}

	// Campos vazios recebem a mesma resposta genérica de credenciais erradas.
	if err := validate.Struct(req); err != nil {
		respond.Error(w, r, h.Logger, apperror.NewUnauthorizedError(authservice.InvalidCredentialsMsg))
		return
	}

	session, err := h.Service.Login(r.Context(), req.EmailOrCPF, req.Password)
	respond.Result(w, r, h.Logger, session, err, http.StatusOK)
}
