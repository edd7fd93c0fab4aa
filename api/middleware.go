package api

import (
	"context"
	"net/http"
	"os"

	"log/slog"

	"github.com/gorilla/mux"

	"github.com/gabya-ai/Smart-Intro/internal/auth"
	"github.com/gabya-ai/Smart-Intro/pkg/repository"
)

type ctxKey string

const CtxIdentity ctxKey = "identity"

// package-level logger used by middleware and helpers; can be set via SetLogger from caller
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger installs a logger for the api package. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote", r.RemoteAddr),
		)
		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic", slog.Any("err", err))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// IdentityMiddleware resolves a verified identity from the restoration chain
// (bearer header, then id_token URL parameter, then the gh_id_token cookie).
// A URL token that verifies is persisted into the cookie so a refresh does
// not force a new sign-in round-trip; any failure clears the cookie and ends
// the interaction with 401.
func IdentityMiddleware(v auth.Verifier, users repository.UserRepo) mux.MiddlewareFunc {
	chain := auth.DefaultChain()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, source, err := auth.Resolve(r.Context(), v, r, chain)
			if err != nil {
				auth.ClearTokenCookie(w)
				http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
				return
			}

			if source == "query" {
				if token := auth.QuerySource().Extract(r); token != "" {
					auth.SetTokenCookie(w, token)
				}
			}

			// profile row is created on first sign-in; failure is diagnostic only
			if users != nil {
				if err := users.EnsureUser(r.Context(), ident.UserID, ident.Email); err != nil {
					logger.Warn("ensure user profile failed", slog.String("user_id", ident.UserID), slog.Any("err", err))
				}
			}

			ctx := context.WithValue(r.Context(), CtxIdentity, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext returns the verified identity set by IdentityMiddleware.
func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	ident, ok := ctx.Value(CtxIdentity).(auth.Identity)
	return ident, ok
}
