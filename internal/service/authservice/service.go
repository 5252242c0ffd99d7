package authservice

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/logger"
	"agendamed/internal/pkg/metrics"
	"agendamed/internal/pkg/token"
	"agendamed/internal/pkg/validate"
)

// Mensagens fixas do portão de autenticação.
const (
	InvalidCredentialsMsg = "Credenciais inválidas."
	MissingTokenMsg       = "Token não fornecido."
	InvalidTokenMsg       = "Token inválido."
)

// UserRepository define o contrato da Persistência para usuários.
type UserRepository interface {
	InsertUser(ctx context.Context, user domain.User) (domain.User, error)
	FindUserByIdentifier(ctx context.Context, identifier string) (domain.User, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// Service autentica usuários e valida tokens bearer.
type Service struct {
	UserRepo UserRepository
	TokenSvc TokenService
	hashCost int
	metrics  *metrics.Metrics
	logger   logger.Logger
}

// NewService cria o Serviço de autenticação. m pode ser nil.
func NewService(repo UserRepository, tokenSvc TokenService, m *metrics.Metrics, log logger.Logger) *Service {
	return &Service{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		hashCost: bcrypt.DefaultCost,
		metrics:  m,
		logger:   log,
	}
}

// WithHashCost troca o custo do bcrypt usado no registro (testes usam bcrypt.MinCost).
func (s *Service) WithHashCost(cost int) *Service {
	s.hashCost = cost
	return s
}

// Register cadastra um novo usuário com a senha em hash bcrypt.
func (s *Service) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	if err := validate.Struct(registration); err != nil {
		return domain.User{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), s.hashCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	user, err := s.UserRepo.InsertUser(ctx, domain.User{
		CPF:          registration.CPF,
		Email:        registration.Email,
		PasswordHash: string(hashedPassword),
		Nome:         registration.Nome,
	})
	if err != nil {
		var appErr apperror.AppError
		if errors.As(err, &appErr) {
			return domain.User{}, err
		}
		return domain.User{}, apperror.NewInternalError("Falha interna ao cadastrar usuário.", err)
	}

	s.logger.Info("Usuário cadastrado.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// Login autentica por email OU cpf e devolve a Session (token + dados públicos).
// Qualquer falha de credencial resulta na mesma mensagem, sem indicar qual parte falhou.
func (s *Service) Login(ctx context.Context, identifier, password string) (domain.Session, error) {
	if identifier == "" || password == "" {
		s.metrics.ObserveLogin(metrics.LoginRejected)
		return domain.Session{}, apperror.NewUnauthorizedError(InvalidCredentialsMsg)
	}

	user, err := s.UserRepo.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			s.metrics.ObserveLogin(metrics.LoginRejected)
			s.logger.Warn("Login recusado: usuário inexistente.", nil)
			return domain.Session{}, apperror.NewUnauthorizedError(InvalidCredentialsMsg)
		}
		s.metrics.ObserveLogin(metrics.LoginError)
		return domain.Session{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.metrics.ObserveLogin(metrics.LoginRejected)
		s.logger.Warn("Login recusado: senha incorreta.", map[string]interface{}{"user_id": user.ID})
		return domain.Session{}, apperror.NewUnauthorizedError(InvalidCredentialsMsg)
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID)
	if err != nil {
		s.metrics.ObserveLogin(metrics.LoginError)
		return domain.Session{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.metrics.ObserveLogin(metrics.LoginSuccess)
	s.logger.Info("Login realizado.", map[string]interface{}{"user_id": user.ID})
	return domain.Session{Token: tokenString, User: user.Public()}, nil
}

// Authenticate valida o token bearer e devolve o ID do usuário.
// Token ausente é 401; token presente mas inválido ou expirado é 403.
func (s *Service) Authenticate(tokenString string) (string, error) {
	if tokenString == "" {
		return "", apperror.NewUnauthorizedError(MissingTokenMsg)
	}

	claims, err := s.TokenSvc.ValidateToken(tokenString)
	if err != nil {
		s.logger.Debug("Token recusado.", map[string]interface{}{"reason": err.Error()})
		return "", apperror.NewForbiddenError(InvalidTokenMsg, fmt.Errorf("authenticate: %w", err))
	}
	return claims.UserID, nil
}
