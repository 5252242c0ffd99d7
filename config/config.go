package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Drivers de armazenamento aceitos em STORAGE_DRIVER.
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config armazena todas as configurações do AgendaMed.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Armazenamento
	StorageDriver string
	DatabaseURL   string
	DBTimeout     time.Duration
	DBAutoMigrate bool

	// Cache (Redis; vazio usa cache em memória)
	RedisAddr string
	CacheTTL  time.Duration

	// Segurança (JWT)
	JWTSecretKey string
	TokenExpiry  time.Duration

	// Rate Limiting: janela por IP no login e limite global
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
	RateLimitRPS         float64
	RateLimitBurst       int

	// Semeadura
	SeedEnabled      bool
	SeedDays         int
	SeedAvailability float64
	SeedRandom       uint64
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
// Encerra o processo se a configuração for inválida.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("❌ Erro de Configuração: %v", err)
	}
	return cfg
}

// Load lê o ambiente e valida as combinações obrigatórias.
func Load() (*Config, error) {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Armazenamento
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DBTimeout:     getDurationEnv("DB_TIMEOUT_SEC", 5) * time.Second,
		DBAutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", true),

		// 3. Cache
		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getDurationEnv("CACHE_TTL_SEC", 300) * time.Second,

		// 4. Segurança (JWT)
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		TokenExpiry:  getDurationEnv("JWT_EXPIRY_HOURS", 168) * time.Hour, // 7 dias

		// 5. Rate Limiting
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
		RateLimitRPS:         getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst:       getIntEnv("RATE_LIMIT_BURST", 100),

		// 6. Semeadura
		SeedEnabled:      getBoolEnv("SEED_ENABLED", true),
		SeedDays:         getIntEnv("SEED_DAYS", 30),
		SeedAvailability: getFloatEnv("SEED_AVAILABILITY", 0.7),
		SeedRandom:       uint64(getIntEnv("SEED_RANDOM", 1)),
	}

	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("a variável de ambiente JWT_SECRET_KEY deve ser definida")
	}
	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL é obrigatória com STORAGE_DRIVER=%s", StoragePostgres)
		}
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER '%s' desconhecido (use %s ou %s)", cfg.StorageDriver, StorageMemory, StoragePostgres)
	}
	if cfg.SeedAvailability < 0 || cfg.SeedAvailability > 1 {
		return nil, fmt.Errorf("SEED_AVAILABILITY deve estar entre 0 e 1, recebido %v", cfg.SeedAvailability)
	}

	return cfg, nil
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue))
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getFloatEnv lê uma variável de ambiente decimal.
func getFloatEnv(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número válido. Usando padrão (%v).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getBoolEnv lê uma variável booleana (true/false, 1/0).
func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é booleano. Usando padrão (%t).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}
