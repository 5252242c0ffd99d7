package appointment_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"agendamed/internal/api/appointment"
	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/logger"
	"agendamed/internal/pkg/middleware"
)

// MockBookingService é uma implementação mock da interface BookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateAppointment(ctx context.Context, userID string, req domain.AppointmentRequest) (domain.Appointment, error) {
	args := m.Called(ctx, userID, req)
	return args.Get(0).(domain.Appointment), args.Error(1)
}

func (m *MockBookingService) ListAppointments(ctx context.Context, userID string) ([]domain.AppointmentWithDetails, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.AppointmentWithDetails), args.Error(1)
}

func (m *MockBookingService) GetAppointment(ctx context.Context, userID string, id int) (domain.AppointmentWithDetails, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(domain.AppointmentWithDetails), args.Error(1)
}

func (m *MockBookingService) CancelAppointment(ctx context.Context, userID string, id int) (domain.Appointment, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(domain.Appointment), args.Error(1)
}

func authed(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func TestCreateHandler(t *testing.T) {
	svc := new(MockBookingService)
	req := domain.AppointmentRequest{UnitID: 4, SpecialtyID: 2, ScheduleID: 9}
	svc.On("CreateAppointment", mock.Anything, "u-1", req).
		Return(domain.Appointment{ID: 1, UserID: "u-1", UnitID: 4, SpecialtyID: 2, ScheduleID: 9, Status: domain.StatusConfirmed}, nil)
	h := appointment.NewHandler(svc, logger.NewNop())

	body := `{"unit_id":4,"specialty_id":2,"schedule_id":9}`
	rec := httptest.NewRecorder()
	h.CreateHandler(rec, authed(httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body)), "u-1"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	var out domain.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, domain.StatusConfirmed, out.Status)
	svc.AssertExpectations(t)
}

func TestCreateHandler_SlotTaken(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("CreateAppointment", mock.Anything, "u-1", mock.Anything).
		Return(domain.Appointment{}, apperror.NewSlotUnavailableError())
	h := appointment.NewHandler(svc, logger.NewNop())

	rec := httptest.NewRecorder()
	h.CreateHandler(rec, authed(httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{"unit_id":4,"specialty_id":2,"schedule_id":9}`)), "u-1"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body domain.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Message, "Horário indisponível.")
}

func TestCreateHandler_RejectsBadInput(t *testing.T) {
	svc := new(MockBookingService)
	h := appointment.NewHandler(svc, logger.NewNop())

	// sem usuário no contexto
	rec := httptest.NewRecorder()
	h.CreateHandler(rec, httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// JSON inválido
	rec = httptest.NewRecorder()
	h.CreateHandler(rec, authed(httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{`)), "u-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNotCalled(t, "CreateAppointment", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelHandler_PathID(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("CancelAppointment", mock.Anything, "u-1", 7).
		Return(domain.Appointment{ID: 7, Status: domain.StatusCancelled}, nil)
	h := appointment.NewHandler(svc, logger.NewNop())

	r := authed(httptest.NewRequest(http.MethodPost, "/api/appointments/7/cancel", nil), "u-1")
	r.SetPathValue("id", "7")
	rec := httptest.NewRecorder()
	h.CancelHandler(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)

	r = authed(httptest.NewRequest(http.MethodPost, "/api/appointments/x/cancel", nil), "u-1")
	r.SetPathValue("id", "x")
	rec = httptest.NewRecorder()
	h.CancelHandler(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	svc.AssertNumberOfCalls(t, "CancelAppointment", 1)
}

func TestGetHandler_NotFound(t *testing.T) {
	svc := new(MockBookingService)
	svc.On("GetAppointment", mock.Anything, "u-1", 99).
		Return(domain.AppointmentWithDetails{}, apperror.NewNotFoundError("agendamento 99"))
	h := appointment.NewHandler(svc, logger.NewNop())

	r := authed(httptest.NewRequest(http.MethodGet, "/api/appointments/99", nil), "u-1")
	r.SetPathValue("id", "99")
	rec := httptest.NewRecorder()
	h.GetHandler(rec, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}
