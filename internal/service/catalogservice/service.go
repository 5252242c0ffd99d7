package catalogservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"agendamed/internal/domain"
	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/cache"
	"agendamed/internal/pkg/logger"
)

// CatalogRepository define o que o Serviço espera da camada de Persistência para as consultas.
type CatalogRepository interface {
	ListSpecialties(ctx context.Context) ([]domain.Specialty, error)
	ListUnitsBySpecialty(ctx context.Context, specialtyID int) ([]domain.UnitWithSpecialty, error)
	ListAvailableSchedules(ctx context.Context, filter domain.ScheduleFilter) ([]domain.Schedule, error)
}

// Chaves de cache dos dados de referência. Horários nunca são cacheados.
const (
	specialtiesCacheKey = "catalog:specialties"
	unitsCacheKey       = "catalog:units:%d"
)

// Service responde às consultas somente-leitura do fluxo de agendamento.
type Service struct {
	repo     CatalogRepository
	cache    cache.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

// NewService cria o Serviço. cacheClient pode ser nil (sem cache).
func NewService(repo CatalogRepository, cacheClient cache.Client, cacheTTL time.Duration, log logger.Logger) *Service {
	return &Service{repo: repo, cache: cacheClient, cacheTTL: cacheTTL, logger: log}
}

// ListSpecialties devolve todas as especialidades.
func (s *Service) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	var out []domain.Specialty
	if s.fromCache(ctx, specialtiesCacheKey, &out) {
		return out, nil
	}

	out, err := s.repo.ListSpecialties(ctx)
	if err != nil {
		return nil, wrapRepoError("Falha interna ao buscar especialidades.", err)
	}

	s.toCache(ctx, specialtiesCacheKey, out)
	return out, nil
}

// ListUnits devolve as unidades que atendem a especialidade, com ela embutida.
// Especialidade desconhecida resulta em lista vazia.
func (s *Service) ListUnits(ctx context.Context, specialtyID int) ([]domain.UnitWithSpecialty, error) {
	if specialtyID <= 0 {
		return nil, apperror.NewValidationError("specialty deve ser um ID positivo.")
	}

	key := fmt.Sprintf(unitsCacheKey, specialtyID)
	var out []domain.UnitWithSpecialty
	if s.fromCache(ctx, key, &out) {
		return out, nil
	}

	out, err := s.repo.ListUnitsBySpecialty(ctx, specialtyID)
	if err != nil {
		return nil, wrapRepoError("Falha interna ao buscar unidades.", err)
	}

	s.toCache(ctx, key, out)
	return out, nil
}

// ListAvailableSchedules devolve os horários livres da unidade/especialidade na data, por hora.
func (s *Service) ListAvailableSchedules(ctx context.Context, unitID, specialtyID int, date string) ([]domain.Schedule, error) {
	if unitID <= 0 || specialtyID <= 0 {
		return nil, apperror.NewValidationError("unit e specialty devem ser IDs positivos.")
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return nil, apperror.NewValidationError(fmt.Sprintf("data '%s' inválida, use AAAA-MM-DD.", date))
	}

	out, err := s.repo.ListAvailableSchedules(ctx, domain.ScheduleFilter{UnitID: unitID, SpecialtyID: specialtyID, Data: date})
	if err != nil {
		return nil, wrapRepoError("Falha interna ao buscar horários.", err)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Hora < out[j].Hora })
	return out, nil
}

// fromCache tenta o Cache-Aside (READ). Qualquer falha é tratada como MISS.
func (s *Service) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if err != cache.ErrCacheMiss {
			s.logger.Warn("Falha ao ler o cache, consultando o repositório.", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		s.logger.Warn("Entrada de cache corrompida, descartando.", map[string]interface{}{"key": key})
		_ = s.cache.Delete(ctx, key)
		return false
	}
	s.logger.Debug("Cache HIT.", map[string]interface{}{"key": key})
	return true
}

// toCache grava no cache (WRITE). Falhas apenas são registradas.
func (s *Service) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("Falha ao serializar valor para o cache.", err)
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("Falha ao gravar no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// wrapRepoError preserva erros tipados e encapsula os demais como InternalError.
func wrapRepoError(msg string, err error) error {
	var appErr apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.NewInternalError(msg, err)
}
