package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"tabot/internal/logger"
)

type ctxKey string

const serviceKey ctxKey = "service"

// ServiceFromContext returns the front-end service named by the request's token.
func ServiceFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(serviceKey).(string)
	return s, ok
}

// RequireAuth admits requests carrying a valid service token and tags their
// logs with the calling service.
func RequireAuth(jwtSvc *JWT) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearer(r)
			if !ok {
				unauthorized(w)
				return
			}

			service, err := jwtSvc.Verify(token)
			if err != nil {
				slog.WarnContext(r.Context(), "rejected service token", "path", r.URL.Path, "error", err)
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), serviceKey, service)
			ctx = logger.WithLogFields(ctx, logger.LogFields{Caller: logger.Ptr(service)})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","message":"A valid service token is required."}`))
}
