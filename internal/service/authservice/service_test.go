package authservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/logger"
	"agendamed/internal/pkg/token"
	"agendamed/internal/service/authservice"
)

// MockUserRepository é uma implementação mock da interface UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) InsertUser(ctx context.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	args := m.Called(ctx, identifier)
	return args.Get(0).(domain.User), args.Error(1)
}

const secret = "segredo-de-teste"

func seededUser(t *testing.T) domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	return domain.User{
		ID:           "8c5e2f9a-1b3d-4e6f-a7c8-9d0e1f2a3b4c",
		CPF:          "12345678901",
		Email:        "teste@teste.com",
		PasswordHash: string(hash),
		Nome:         "João Silva",
	}
}

func newService(repo *MockUserRepository) *authservice.Service {
	return authservice.NewService(repo, token.NewService(secret, time.Hour), nil, logger.NewLogger("debug")).
		WithHashCost(bcrypt.MinCost)
}

func TestLogin_ByEmailAndByCPF(t *testing.T) {
	user := seededUser(t)
	repo := new(MockUserRepository)
	repo.On("FindUserByIdentifier", mock.Anything, user.Email).Return(user, nil)
	repo.On("FindUserByIdentifier", mock.Anything, user.CPF).Return(user, nil)
	svc := newService(repo)

	for _, identifier := range []string{user.Email, user.CPF} {
		session, err := svc.Login(context.Background(), identifier, "123456")
		require.NoError(t, err)
		assert.NotEmpty(t, session.Token)
		assert.Equal(t, user.Public(), session.User)

		userID, err := svc.Authenticate(session.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	}
	repo.AssertExpectations(t)
}

func TestLogin_FailuresShareOneMessage(t *testing.T) {
	user := seededUser(t)
	repo := new(MockUserRepository)
	repo.On("FindUserByIdentifier", mock.Anything, user.Email).Return(user, nil)
	repo.On("FindUserByIdentifier", mock.Anything, "ninguem@teste.com").Return(domain.User{}, apperror.NewNotFoundError("usuário"))
	svc := newService(repo)

	attempts := []struct{ identifier, password string }{
		{user.Email, "errada"},
		{"ninguem@teste.com", "123456"},
		{"", "123456"},
		{user.Email, ""},
	}
	for _, a := range attempts {
		_, err := svc.Login(context.Background(), a.identifier, a.password)
		require.Error(t, err)
		assert.IsType(t, &apperror.UnauthorizedError{}, err)
		assert.Equal(t, authservice.InvalidCredentialsMsg, err.Error())
	}
}

func TestLogin_RepoFailureIsNotMaskedAsCredentials(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("FindUserByIdentifier", mock.Anything, "teste@teste.com").
		Return(domain.User{}, apperror.NewDBError("failed to find user", errors.New("timeout")))
	svc := newService(repo)

	_, err := svc.Login(context.Background(), "teste@teste.com", "123456")

	assert.IsType(t, &apperror.InternalError{}, err)
}

func TestRegister_HashesPassword(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("InsertUser", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.CPF == "98765432100" && u.PasswordHash != "segura1" &&
			bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("segura1")) == nil
	})).Return(domain.User{ID: "novo", CPF: "98765432100", Email: "maria@teste.com", Nome: "Maria"}, nil)
	svc := newService(repo)

	user, err := svc.Register(context.Background(), domain.UserRegistration{
		CPF: "98765432100", Email: "maria@teste.com", Password: "segura1", Nome: "Maria",
	})

	require.NoError(t, err)
	assert.Equal(t, "novo", user.ID)
	repo.AssertExpectations(t)
}

func TestRegister_Validation(t *testing.T) {
	repo := new(MockUserRepository)
	svc := newService(repo)

	cases := []domain.UserRegistration{
		{CPF: "123", Email: "a@b.com", Password: "123456", Nome: "A"},
		{CPF: "1234567890a", Email: "a@b.com", Password: "123456", Nome: "A"},
		{CPF: "12345678901", Email: "nao-e-email", Password: "123456", Nome: "A"},
		{CPF: "12345678901", Email: "a@b.com", Password: "123", Nome: "A"},
		{CPF: "12345678901", Email: "a@b.com", Password: "123456"},
	}
	for _, reg := range cases {
		_, err := svc.Register(context.Background(), reg)
		assert.IsType(t, &apperror.ValidationError{}, err, "%+v", reg)
	}
	repo.AssertNotCalled(t, "InsertUser", mock.Anything, mock.Anything)
}

func TestRegister_Duplicate(t *testing.T) {
	repo := new(MockUserRepository)
	repo.On("InsertUser", mock.Anything, mock.Anything).Return(domain.User{}, apperror.NewConflictError("CPF ou email já cadastrado."))
	svc := newService(repo)

	_, err := svc.Register(context.Background(), domain.UserRegistration{
		CPF: "12345678901", Email: "teste@teste.com", Password: "123456", Nome: "João",
	})

	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestAuthenticate_MissingVersusInvalid(t *testing.T) {
	svc := newService(new(MockUserRepository))

	_, err := svc.Authenticate("")
	assert.IsType(t, &apperror.UnauthorizedError{}, err)
	assert.Equal(t, authservice.MissingTokenMsg, err.Error())

	_, err = svc.Authenticate("nao.e.jwt")
	assert.IsType(t, &apperror.ForbiddenError{}, err)
	assert.Equal(t, authservice.InvalidTokenMsg, err.Error())

	other, err := token.NewService("outro-segredo", time.Hour).GenerateToken("x")
	require.NoError(t, err)
	_, err = svc.Authenticate(other)
	assert.IsType(t, &apperror.ForbiddenError{}, err)

	expired, err := token.NewService(secret, time.Hour).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		GenerateToken("x")
	require.NoError(t, err)
	_, err = svc.Authenticate(expired)
	assert.IsType(t, &apperror.ForbiddenError{}, err)
}
