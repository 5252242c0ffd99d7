package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryClient implementa Client em processo sobre go-cache.
// É usado quando REDIS_ADDR não está configurado.
type MemoryClient struct {
	mu sync.Mutex // serializa Incr (read-modify-write)
	c  *gocache.Cache
}

// NewMemoryClient cria o cache em memória com limpeza periódica das chaves expiradas.
func NewMemoryClient(cleanupInterval time.Duration) *MemoryClient {
	return &MemoryClient{c: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func ttl(expiration time.Duration) time.Duration {
	if expiration <= 0 {
		return gocache.NoExpiration
	}
	return expiration
}

func (m *MemoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", ErrCacheMiss
	}
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	default:
		return fmt.Sprint(val), nil
	}
}

func (m *MemoryClient) getInt(key string) (int, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return 0, ErrCacheMiss
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case string:
		return strconv.Atoi(val)
	default:
		return 0, fmt.Errorf("cache: valor de %q não é inteiro", key)
	}
}

func (m *MemoryClient) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	if b, ok := value.([]byte); ok {
		// go-cache guarda a referência; copiamos para não compartilhar o buffer do chamador.
		value = string(b)
	}
	m.c.Set(key, value, ttl(expiration))
	return nil
}

// Incr segue a semântica do Redis: chave ausente começa em 0 e fica sem expiração;
// chave existente mantém o TTL.
func (m *MemoryClient) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.c.Get(key); !ok {
		m.c.Set(key, int64(1), gocache.NoExpiration)
		return 1, nil
	}
	if err := m.c.Increment(key, 1); err != nil {
		return 0, err
	}
	n, err := m.getInt(key)
	return int64(n), err
}

// Expire regrava o valor com o novo TTL; chave ausente é ignorada, como no Redis.
func (m *MemoryClient) Expire(_ context.Context, key string, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.c.Get(key); ok {
		m.c.Set(key, v, ttl(expiration))
	}
	return nil
}

func (m *MemoryClient) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}
