package middleware

import (
	"context"
	"net/http"
	"strings"

	"agendamed/internal/pkg/logger"
	"agendamed/internal/pkg/respond"
)

// ContextKey é o tipo das chaves que o middleware grava no contexto.
// Chaves de contexto devem ser não-exportadas e de um tipo próprio.
type ContextKey int

const (
	userIDKey ContextKey = iota
)

// Authenticator valida um token bearer e devolve o ID do usuário.
// Token vazio deve resultar em 401 e token inválido em 403.
type Authenticator interface {
	Authenticate(tokenString string) (string, error)
}

// BearerToken extrai o token do header "Authorization: Bearer <token>". Sem header, devolve "".
func BearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// NewAuthMiddleware cria o middleware que exige um token válido e anexa o ID do usuário ao contexto.
func NewAuthMiddleware(auth Authenticator, log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, err := auth.Authenticate(BearerToken(r))
			if err != nil {
				respond.Error(w, r, log, err)
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// WithUserID anexa o ID do usuário autenticado ao contexto.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext é a função utilitária para extrair o usuário no handler.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
