package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/middleware"
	"github.com/yshmodi/eiregate/supabase"
	"github.com/yshmodi/eiregate/utils"
)

// AuthService is the slice of the Supabase client the auth endpoints need
type AuthService interface {
	SignUp(ctx context.Context, email, password, fullName string) (*supabase.AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*supabase.AuthResponse, error)
	SignOut(ctx context.Context, token string) error
	OAuthURL(provider, redirectTo string) (string, error)
}

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	auth   AuthService
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleSignUp handles POST /api/v1/auth/signup
func (h *AuthHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err)
		return
	}

	auth, err := h.auth.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("user registered", zap.String("email", req.Email))
	_ = utils.WriteJSON(w, http.StatusCreated, auth)
}

// HandleSignIn handles POST /api/v1/auth/login
func (h *AuthHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		HandleValidationError(w, err)
		return
	}

	auth, err := h.auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, auth)
}

// HandleSignOut handles POST /api/v1/auth/logout
func (h *AuthHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	if err := h.auth.SignOut(r.Context(), token); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// HandleMe handles GET /api/v1/auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, user)
}

// HandleOAuthURL handles GET /api/v1/auth/oauth/{provider}.
// The frontend redirects the user to the returned URL; Supabase redirects
// back with tokens after the external login completes.
func (h *AuthHandler) HandleOAuthURL(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	redirectTo := r.URL.Query().Get("redirect_to")

	url, err := h.auth.OAuthURL(provider, redirectTo)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteJSON(w, http.StatusOK, map[string]string{
		"url":      url,
		"provider": provider,
	})
}
