package router

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "agendamed/docs" // registra o documento swagger
	"agendamed/internal/api/appointment"
	"agendamed/internal/api/auth"
	"agendamed/internal/api/catalog"
	"agendamed/internal/pkg/cache"
	"agendamed/internal/pkg/logger"
	"agendamed/internal/pkg/metrics"
	"agendamed/internal/pkg/middleware"
)

// Config reúne os Handlers e a infraestrutura já inicializados por injeção de dependências.
type Config struct {
	Auth        *auth.Handler
	Catalog     *catalog.Handler
	Appointment *appointment.Handler

	Authenticator middleware.Authenticator
	Cache         cache.Client
	Logger        logger.Logger
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer

	LoginRateLimit  int
	LoginRatePeriod time.Duration
	ThrottleRPS     float64
	ThrottleBurst   int
}

// NewRouter configura e retorna o roteador HTTP principal com os middlewares globais aplicados.
func NewRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	// --- Health check, métricas e documentação ---
	mux.HandleFunc("GET /ping", PingHandler)
	if cfg.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// --- Autenticação (login com rate limit por IP) ---
	loginLimiter := middleware.RateLimiter(cfg.Cache, "login", cfg.LoginRateLimit, cfg.LoginRatePeriod, cfg.Logger)
	mux.Handle("POST /api/login", loginLimiter(http.HandlerFunc(cfg.Auth.LoginHandler)))
	mux.HandleFunc("POST /api/register", cfg.Auth.RegisterHandler)

	// --- Consultas públicas ---
	mux.HandleFunc("GET /api/specialties", cfg.Catalog.ListSpecialtiesHandler)
	mux.HandleFunc("GET /api/units", cfg.Catalog.ListUnitsHandler)
	mux.HandleFunc("GET /api/schedules", cfg.Catalog.ListSchedulesHandler)

	// --- Agendamentos (bearer obrigatório) ---
	requireAuth := middleware.NewAuthMiddleware(cfg.Authenticator, cfg.Logger)
	mux.HandleFunc("POST /api/appointments", requireAuth(cfg.Appointment.CreateHandler))
	mux.HandleFunc("GET /api/appointments", requireAuth(cfg.Appointment.ListHandler))
	mux.HandleFunc("GET /api/appointments/{id}", requireAuth(cfg.Appointment.GetHandler))
	mux.HandleFunc("POST /api/appointments/{id}/cancel", requireAuth(cfg.Appointment.CancelHandler))

	mws := []func(http.Handler) http.Handler{middleware.Instrument(cfg.Logger, cfg.Metrics)}
	if cfg.ThrottleRPS > 0 {
		mws = append(mws, middleware.Throttle(cfg.ThrottleRPS, cfg.ThrottleBurst, cfg.Logger))
	}
	return middleware.Chain(mux, mws...)
}

// PingHandler é a função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
