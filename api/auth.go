package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/gabya-ai/Smart-Intro/internal/auth"
	"github.com/gabya-ai/Smart-Intro/pkg/models"
	"github.com/gabya-ai/Smart-Intro/pkg/repository"
)

type AuthHandler struct {
	userRepo      repository.UserRepo
	verifier      *auth.JWTVerifier
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(ur repository.UserRepo, v *auth.JWTVerifier, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{userRepo: ur, verifier: v, tokenDuration: tokenDuration}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	ctx := r.Context()

	user := models.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := h.userRepo.CreateUser(ctx, &user); err != nil {
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	h.issueToken(w, auth.Identity{UserID: user.ID, Email: user.Email})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var req signinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Missing fields", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil || user == nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "Credentials not found", http.StatusUnauthorized)
		return
	}

	h.issueToken(w, auth.Identity{UserID: user.ID, Email: user.Email})
}

func (h *AuthHandler) issueToken(w http.ResponseWriter, ident auth.Identity) {
	tokenStr, err := h.verifier.Issue(ident, h.tokenDuration)
	if err != nil {
		http.Error(w, "Error signing token", http.StatusInternalServerError)
		return
	}

	// persist the session so a refresh does not force a round-trip
	auth.SetTokenCookie(w, tokenStr)
	writeJSON(w, authResponse{Token: tokenStr}, http.StatusOK)
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w)
	writeJSON(w, map[string]string{"message": "signed out"}, http.StatusOK)
}
