// Package apiclient é o cliente HTTP da API do AgendaMed.
// Rotas públicas não exigem sessão; rotas de agendamento recebem a Session explicitamente.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agendamed/internal/domain"
)

// APIError é uma resposta não-2xx decodificada de {code, category, message}.
type APIError struct {
	Status   int
	Category string
	Message  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Category, e.Message)
}

// Client conversa com o servidor em BaseURL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option ajusta o Client na criação.
type Option func(*Client)

// WithHTTPClient troca o http.Client padrão (timeout de 10s).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New cria o cliente. baseURL é a raiz do servidor, ex.: http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Autenticação ---

// Login troca credenciais por uma Session.
func (c *Client) Login(ctx context.Context, emailOrCPF, password string) (*Session, error) {
	var s domain.Session
	err := c.do(ctx, http.MethodPost, "/api/login", "", domain.LoginRequest{EmailOrCPF: emailOrCPF, Password: password}, &s)
	if err != nil {
		return nil, err
	}
	session := Session(s)
	return &session, nil
}

// Register cria um novo usuário.
func (c *Client) Register(ctx context.Context, reg domain.UserRegistration) (domain.User, error) {
	var u domain.User
	err := c.do(ctx, http.MethodPost, "/api/register", "", reg, &u)
	return u, err
}

// --- Consultas públicas ---

// ListSpecialties lista as especialidades.
func (c *Client) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	var out []domain.Specialty
	err := c.do(ctx, http.MethodGet, "/api/specialties", "", nil, &out)
	return out, err
}

// ListUnits lista as unidades de uma especialidade.
func (c *Client) ListUnits(ctx context.Context, specialtyID int) ([]domain.UnitWithSpecialty, error) {
	q := url.Values{"specialty": {strconv.Itoa(specialtyID)}}
	var out []domain.UnitWithSpecialty
	err := c.do(ctx, http.MethodGet, "/api/units?"+q.Encode(), "", nil, &out)
	return out, err
}

// ListAvailableSchedules lista os horários livres de unidade + especialidade na data (YYYY-MM-DD).
func (c *Client) ListAvailableSchedules(ctx context.Context, unitID, specialtyID int, date string) ([]domain.Schedule, error) {
	q := url.Values{
		"unit":      {strconv.Itoa(unitID)},
		"specialty": {strconv.Itoa(specialtyID)},
		"data":      {date},
	}
	var out []domain.Schedule
	err := c.do(ctx, http.MethodGet, "/api/schedules?"+q.Encode(), "", nil, &out)
	return out, err
}

// --- Agendamentos ---

// CreateAppointment reserva um horário em nome do usuário da sessão.
func (c *Client) CreateAppointment(ctx context.Context, s *Session, req domain.AppointmentRequest) (domain.Appointment, error) {
	var out domain.Appointment
	err := c.do(ctx, http.MethodPost, "/api/appointments", s.bearer(), req, &out)
	return out, err
}

// ListAppointments lista os agendamentos do usuário da sessão.
func (c *Client) ListAppointments(ctx context.Context, s *Session) ([]domain.AppointmentWithDetails, error) {
	var out []domain.AppointmentWithDetails
	err := c.do(ctx, http.MethodGet, "/api/appointments", s.bearer(), nil, &out)
	return out, err
}

// CancelAppointment cancela um agendamento e libera o horário.
func (c *Client) CancelAppointment(ctx context.Context, s *Session, id int) (domain.Appointment, error) {
	var out domain.Appointment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/appointments/%d/cancel", id), s.bearer(), nil, &out)
	return out, err
}

// Booker vincula a sessão ao cliente para o passo de confirmação do fluxo.
func (c *Client) Booker(s *Session) *SessionBooker {
	return &SessionBooker{client: c, session: s}
}

// SessionBooker cria agendamentos sempre com a mesma sessão.
type SessionBooker struct {
	client  *Client
	session *Session
}

// CreateAppointment repassa ao Client com a sessão vinculada.
func (b *SessionBooker) CreateAppointment(ctx context.Context, req domain.AppointmentRequest) (domain.Appointment, error) {
	return b.client.CreateAppointment(ctx, b.session, req)
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("falha ao codificar requisição: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("falha ao decodificar resposta de %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Category: http.StatusText(resp.StatusCode)}
	var body domain.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Message != "" {
		apiErr.Category = body.Category
		apiErr.Message = body.Message
	}
	return apiErr
}
