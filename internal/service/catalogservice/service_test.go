package catalogservice_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/cache"
	"agendamed/internal/pkg/logger"
	"agendamed/internal/service/catalogservice"
)

// MockCatalogRepository é uma implementação mock da interface CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Specialty), args.Error(1)
}

func (m *MockCatalogRepository) ListUnitsBySpecialty(ctx context.Context, specialtyID int) ([]domain.UnitWithSpecialty, error) {
	args := m.Called(ctx, specialtyID)
	return args.Get(0).([]domain.UnitWithSpecialty), args.Error(1)
}

func (m *MockCatalogRepository) ListAvailableSchedules(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Schedule, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Schedule), args.Error(1)
}

func newService(repo *MockCatalogRepository) *catalogservice.Service {
	return catalogservice.NewService(repo, cache.NewMemoryClient(time.Minute), time.Minute, logger.NewLogger("debug"))
}

// TestListSpecialties_CacheAside garante que a segunda chamada não chega ao repositório.
func TestListSpecialties_CacheAside(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := newService(mockRepo)

	expected := []domain.Specialty{{ID: 1, Nome: "Cardiologia"}, {ID: 2, Nome: "Dermatologia"}}
	mockRepo.On("ListSpecialties", mock.Anything).Return(expected, nil).Once()

	ctx := context.Background()
	first, err := svc.ListSpecialties(ctx)
	require.NoError(t, err)
	second, err := svc.ListSpecialties(ctx)
	require.NoError(t, err)

	assert.Equal(t, expected, first)
	assert.Equal(t, expected, second)
	mockRepo.AssertNumberOfCalls(t, "ListSpecialties", 1)
}

func TestListSpecialties_WithoutCache(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := catalogservice.NewService(mockRepo, nil, 0, logger.NewNop())

	mockRepo.On("ListSpecialties", mock.Anything).Return([]domain.Specialty{}, nil).Twice()

	for i := 0; i < 2; i++ {
		out, err := svc.ListSpecialties(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, out)
	}
	mockRepo.AssertExpectations(t)
}

func TestListSpecialties_RepoError(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := newService(mockRepo)

	mockRepo.On("ListSpecialties", mock.Anything).Return([]domain.Specialty(nil), errors.New("database connection lost"))

	_, err := svc.ListSpecialties(context.Background())

	assert.IsType(t, &apperror.InternalError{}, err)
	assert.Contains(t, err.Error(), "Falha interna ao buscar especialidades.")
}

func TestListUnits_CachesPerSpecialty(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := newService(mockRepo)

	cardio := domain.Specialty{ID: 1, Nome: "Cardiologia"}
	units := []domain.UnitWithSpecialty{
		{Unit: domain.Unit{ID: 1, Nome: "Hospital Central - Unidade Sul", SpecialtyID: 1}, Specialty: cardio},
	}
	mockRepo.On("ListUnitsBySpecialty", mock.Anything, 1).Return(units, nil).Once()
	mockRepo.On("ListUnitsBySpecialty", mock.Anything, 2).Return([]domain.UnitWithSpecialty{}, nil).Once()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		out, err := svc.ListUnits(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, units, out)
	}
	out, err := svc.ListUnits(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, out)

	mockRepo.AssertExpectations(t)
}

func TestListSpecialties_KeepsWrappedTypedError(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := newService(mockRepo)

	wrapped := fmt.Errorf("pgstore: %w", apperror.NewNotFoundError("especialidades"))
	mockRepo.On("ListSpecialties", mock.Anything).Return([]domain.Specialty(nil), wrapped).Once()

	_, err := svc.ListSpecialties(context.Background())

	var notFound *apperror.NotFoundError
	require.True(t, errors.As(err, &notFound))
	status, category, _ := apperror.MapToHTTPStatus(err)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", category)
}

func TestListUnits_RejectsNonPositiveID(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := newService(mockRepo)

	_, err := svc.ListUnits(context.Background(), 0)

	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "ListUnitsBySpecialty", mock.Anything, mock.Anything)
}

func TestListAvailableSchedules_SortsAndNeverCaches(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := newService(mockRepo)

	filter := domain.ScheduleFilter{UnitID: 1, SpecialtyID: 1, Data: "2026-10-19"}
	mockRepo.On("ListAvailableSchedules", mock.Anything, filter).Return([]domain.Schedule{
		{ID: 3, Hora: "14:00", Disponivel: 1},
		{ID: 1, Hora: "08:00", Disponivel: 1},
		{ID: 2, Hora: "09:30", Disponivel: 1},
	}, nil).Twice()

	ctx := context.Background()
	out, err := svc.ListAvailableSchedules(ctx, 1, 1, "2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "09:30", "14:00"}, []string{out[0].Hora, out[1].Hora, out[2].Hora})

	_, err = svc.ListAvailableSchedules(ctx, 1, 1, "2026-10-19")
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestListAvailableSchedules_Validation(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	svc := newService(mockRepo)
	ctx := context.Background()

	cases := []struct {
		name        string
		unit, spec  int
		date        string
	}{
		{"unidade zero", 0, 1, "2026-10-19"},
		{"especialidade negativa", 1, -1, "2026-10-19"},
		{"data vazia", 1, 1, ""},
		{"data em outro formato", 1, 1, "19/10/2026"},
		{"data impossível", 1, 1, "2026-02-30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ListAvailableSchedules(ctx, tc.unit, tc.spec, tc.date)
			assert.IsType(t, &apperror.ValidationError{}, err)
		})
	}
	mockRepo.AssertNotCalled(t, "ListAvailableSchedules", mock.Anything, mock.Anything)
}
