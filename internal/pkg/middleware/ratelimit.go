package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	apperror "agendamed/internal/errors"
	"agendamed/internal/pkg/cache"
	"agendamed/internal/pkg/logger"
	"agendamed/internal/pkg/respond"
)

// RateLimiter limita requisições por IP em janela fixa, com o contador guardado no cache
// (Redis ou go-cache). prefix separa os contadores de rotas diferentes.
func RateLimiter(client cache.Client, prefix string, limit int, duration time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "rate-limit:" + prefix + ":" + clientIP(r)
			ctx := r.Context()

			// Incr é atômico; o primeiro acesso da janela (n == 1) define a expiração.
			n, err := client.Incr(ctx, key)
			if err != nil {
				respond.Error(w, r, log, apperror.NewInternalError("Falha no rate limiter.", err))
				return
			}
			if n == 1 {
				if err := client.Expire(ctx, key, duration); err != nil {
					respond.Error(w, r, log, apperror.NewInternalError("Falha no rate limiter.", err))
					return
				}
			}

			if n > int64(limit) {
				log.Warn("Limite de requisições excedido.", map[string]interface{}{"key": key})
				w.Header().Set("Retry-After", strconv.Itoa(int(duration.Seconds())))
				respond.Error(w, r, log, apperror.NewTooManyRequestsError("Muitas tentativas. Tente novamente mais tarde."))
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(limit-int(n), 0)))
			next.ServeHTTP(w, r)
		})
	}
}

// Throttle aplica um limite global de taxa (token bucket) a todas as requisições.
func Throttle(rps float64, burst int, log logger.Logger) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				respond.Error(w, r, log, apperror.NewTooManyRequestsError("Servidor sobrecarregado. Tente novamente."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
