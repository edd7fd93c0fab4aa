package api

import (
	"context"
	"fmt"

	"github.com/gorilla/mux"

	"github.com/gabya-ai/Smart-Intro/internal/analytics"
	"github.com/gabya-ai/Smart-Intro/internal/auth"
	"github.com/gabya-ai/Smart-Intro/internal/config"
	"github.com/gabya-ai/Smart-Intro/internal/db"
	"github.com/gabya-ai/Smart-Intro/internal/letters"
	"github.com/gabya-ai/Smart-Intro/internal/repository/sqlite"
	"github.com/gabya-ai/Smart-Intro/pkg/ollama"
)

// generatorAdapter narrows the ollama client to the manager's Generator.
type generatorAdapter struct {
	client *ollama.Client
}

func (g *generatorAdapter) Generate(ctx context.Context, model, prompt string) (string, error) {
	res, err := g.client.Generate(ctx, model, prompt)
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

func SetupRoutes(ctx context.Context, cfg *config.Config, version, buildTime string, database *db.DB, genClient *ollama.Client) (*mux.Router, error) {
	// Repository
	repo := sqlite.New(database)

	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	rec, err := analytics.NewRecorder(ctx, repo, repo)
	if err != nil {
		return nil, fmt.Errorf("create analytics recorder: %w", err)
	}

	manager, err := letters.NewManager(ctx, cfg.EngineConfig, &generatorAdapter{client: genClient}, repo, repo, repo, repo, repo, rec)
	if err != nil {
		return nil, fmt.Errorf("create letters manager: %w", err)
	}

	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, verifier, cfg.TokenDuration)
	lettersHandler := NewLettersHandler(manager, repo, repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(IdentityMiddleware(verifier, repo))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Session and letter endpoints
	apiV1.HandleFunc("/sessions", lettersHandler.StartSession).Methods("POST")
	apiV1.HandleFunc("/sessions/{session_id}", lettersHandler.GetSession).Methods("GET")
	apiV1.HandleFunc("/sessions/{session_id}/generate", lettersHandler.Generate).Methods("POST")
	apiV1.HandleFunc("/sessions/{session_id}/edits", lettersHandler.Edit).Methods("POST")
	apiV1.HandleFunc("/sessions/{session_id}/feedback", lettersHandler.Feedback).Methods("POST")

	return r, nil
}
