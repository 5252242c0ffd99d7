// Package app monta a aplicação: armazenamento, cache, serviços, handlers e roteador.
// É usado pelo cmd/main.go e pelos testes ponta a ponta.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"agendamed/config"
	"agendamed/internal/api/appointment"
	"agendamed/internal/api/auth"
	"agendamed/internal/api/catalog"
	"agendamed/internal/api/router"
	"agendamed/internal/pkg/cache"
	"agendamed/internal/pkg/database"
	"agendamed/internal/pkg/logger"
	"agendamed/internal/pkg/metrics"
	"agendamed/internal/pkg/token"
	"agendamed/internal/repository/memstore"
	"agendamed/internal/repository/pgstore"
	"agendamed/internal/seed"
	"agendamed/internal/service/authservice"
	"agendamed/internal/service/bookingservice"
	"agendamed/internal/service/catalogservice"
)

// Store é o contrato completo de armazenamento; memstore e pgstore o satisfazem.
type Store interface {
	seed.Target
	authservice.UserRepository
	catalogservice.CatalogRepository
	bookingservice.AppointmentRepository
}

var (
	_ Store = (*memstore.Store)(nil)
	_ Store = (*pgstore.Store)(nil)
)

// App é a aplicação montada.
type App struct {
	Handler  http.Handler
	Store    Store
	Registry *prometheus.Registry

	closers []func() error
	logger  logger.Logger
}

// Build monta a aplicação a partir da configuração. Close deve ser chamado ao final.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{logger: log}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = store

	if cfg.SeedEnabled {
		opts := seed.DefaultOptions()
		opts.Days = cfg.SeedDays
		opts.Availability = cfg.SeedAvailability
		opts.RandomSeed = cfg.SeedRandom
		if _, err := seed.NewSeeder(opts, log).Run(ctx, store); err != nil {
			a.Close()
			return nil, err
		}
	}

	cacheClient, err := a.openCache(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Registro próprio por App.
	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(a.Registry, "agendamed")

	// Ordem: Repository -> Service -> Handler
	tokenSvc := token.NewService(cfg.JWTSecretKey, cfg.TokenExpiry)
	authSvc := authservice.NewService(store, tokenSvc, m, log)
	catalogSvc := catalogservice.NewService(store, cacheClient, cfg.CacheTTL, log)
	bookingSvc := bookingservice.NewService(store, m, log)
	log.Debug("Serviços inicializados.", nil)

	a.Handler = router.NewRouter(router.Config{
		Auth:            auth.NewHandler(authSvc, log),
		Catalog:         catalog.NewHandler(catalogSvc, log),
		Appointment:     appointment.NewHandler(bookingSvc, log),
		Authenticator:   authSvc,
		Cache:           cacheClient,
		Logger:          log,
		Metrics:         m,
		Gatherer:        a.Registry,
		LoginRateLimit:  cfg.RateLimitMaxRequests,
		LoginRatePeriod: cfg.RateLimitPeriod,
		ThrottleRPS:     cfg.RateLimitRPS,
		ThrottleBurst:   cfg.RateLimitBurst,
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.StorageDriver != config.StoragePostgres {
		a.logger.Info("Usando armazenamento em memória.", nil)
		return memstore.New(a.logger), nil
	}

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao banco de dados: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	a.logger.Info("Conexão PostgreSQL estabelecida.", nil)

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db, "up"); err != nil {
			return nil, err
		}
		a.logger.Info("Migrações aplicadas.", nil)
	}
	return pgstore.New(db, cfg.DBTimeout, a.logger), nil
}

func (a *App) openCache(ctx context.Context, cfg *config.Config) (cache.Client, error) {
	if cfg.RedisAddr == "" {
		a.logger.Info("REDIS_ADDR vazio, usando cache em memória.", nil)
		return cache.NewMemoryClient(time.Minute), nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar ao Redis: %w", err)
	}
	a.closers = append(a.closers, client.Close)
	a.logger.Info("Conexão Redis estabelecida.", map[string]interface{}{"addr": cfg.RedisAddr})
	return client, nil
}

// Close libera as conexões abertas em ordem inversa.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("Falha ao encerrar recurso.", err)
		}
	}
	a.closers = nil
}
