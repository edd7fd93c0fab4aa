package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/gabya-ai/Smart-Intro/internal/analytics"
	"github.com/gabya-ai/Smart-Intro/internal/auth"
	"github.com/gabya-ai/Smart-Intro/internal/config"
	"github.com/gabya-ai/Smart-Intro/internal/letters"
	"github.com/gabya-ai/Smart-Intro/pkg/models"
	"github.com/gabya-ai/Smart-Intro/pkg/repository/mock"
)

const testSecret = "test-secret"

type stubGen struct {
	out string
	err error
}

func (g *stubGen) Generate(ctx context.Context, model, prompt string) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.out, nil
}

// testAPI wires the full route table over mocks, mirroring SetupRoutes.
type testAPI struct {
	router   *mux.Router
	mocks    *mock.Mocks
	gen      *stubGen
	verifier *auth.JWTVerifier
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	mocks := mock.NewMocks()
	mocks.Templates.Stored = &models.PromptTemplate{
		Name:        "cover_letter",
		Version:     "p1.0",
		TemplateTxt: "{{.Resume}} / {{.JD}} / {{.LengthStyle}} / {{.FormatStyle}}",
	}

	gen := &stubGen{out: "Dear hiring manager, ..."}
	verifier := auth.NewJWTVerifier(testSecret)

	manager, err := letters.NewManager(context.Background(),
		config.EngineConfig{Model: "test-model", Timeout: 5 * time.Second}, gen,
		mocks.Sessions, mocks.Letters, mocks.Finals, mocks.Feedback,
		mocks.Templates, analytics.NewUnvalidatedRecorder(mocks.Logs))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(mocks.Users, verifier, time.Hour)
	lettersHandler := NewLettersHandler(manager, mocks.Sessions, mocks.Finals)

	r := mux.NewRouter()
	r.HandleFunc("/version", systemHandler.VersionHandler("test", "now")).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(IdentityMiddleware(verifier, mocks.Users))
	apiV1.HandleFunc("/auth/signout", authHandler.Signout).Methods("POST")
	apiV1.HandleFunc("/sessions", lettersHandler.StartSession).Methods("POST")
	apiV1.HandleFunc("/sessions/{session_id}", lettersHandler.GetSession).Methods("GET")
	apiV1.HandleFunc("/sessions/{session_id}/generate", lettersHandler.Generate).Methods("POST")
	apiV1.HandleFunc("/sessions/{session_id}/edits", lettersHandler.Edit).Methods("POST")
	apiV1.HandleFunc("/sessions/{session_id}/feedback", lettersHandler.Feedback).Methods("POST")

	return &testAPI{router: r, mocks: mocks, gen: gen, verifier: verifier}
}

// token mints a bearer token for a test user.
func (a *testAPI) token(t *testing.T, userID, email string) string {
	t.Helper()
	tok, err := a.verifier.Issue(auth.Identity{UserID: userID, Email: email}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return tok
}

func authed(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}
