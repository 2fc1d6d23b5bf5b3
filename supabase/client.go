// Package supabase wraps the Supabase auth API (GoTrue). Token validation is
// done locally with the project JWT secret when configured, falling back to
// the /auth/v1/user endpoint otherwise.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/yshmodi/eiregate/config"
	"github.com/yshmodi/eiregate/services"
)

// User is the authenticated identity surfaced to handlers
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// AuthResponse is the outcome of signup and login
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Client talks to one Supabase project
type Client struct {
	cfg        config.SupabaseConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Supabase client. A client without credentials is
// returned as-is; every operation on it fails with ErrAuthUnavailable so the
// rest of the service keeps working.
func NewClient(cfg config.SupabaseConfig, logger *zap.Logger) *Client {
	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	if cfg.URL == "" || cfg.AnonKey == "" {
		logger.Warn("supabase credentials not set, auth will not work")
	} else {
		logger.Info("supabase client initialized", zap.String("url", cfg.URL))
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Available reports whether the client has credentials
func (c *Client) Available() bool {
	return c.cfg.URL != "" && c.cfg.AnonKey != ""
}

// tokenClaims is the subset of the Supabase access token we care about
type tokenClaims struct {
	jwt.RegisteredClaims
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// ValidateToken verifies an access token and returns the user it belongs to.
// With SUPABASE_JWT_SECRET configured the check is a local HS256 verification;
// otherwise it costs one round trip to the auth API.
func (c *Client) ValidateToken(ctx context.Context, token string) (*User, error) {
	if !c.Available() {
		return nil, services.ErrAuthUnavailable
	}

	if c.cfg.JWTSecret != "" {
		return c.validateLocal(token)
	}
	return c.GetUser(ctx, token)
}

func (c *Client) validateLocal(token string) (*User, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(c.cfg.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, services.NewDomainError(services.ErrorTypeUnauthorized, "invalid or expired token", err)
	}

	return &User{
		ID:        claims.Subject,
		Email:     claims.Email,
		FullName:  metadataString(claims.UserMetadata, "full_name"),
		AvatarURL: metadataString(claims.UserMetadata, "avatar_url"),
	}, nil
}

type userResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

func (u *userResponse) toUser() User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  metadataString(u.UserMetadata, "full_name"),
		AvatarURL: metadataString(u.UserMetadata, "avatar_url"),
	}
}

// GetUser fetches the user behind an access token from the auth API
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	if !c.Available() {
		return nil, services.ErrAuthUnavailable
	}

	body, status, err := c.do(ctx, http.MethodGet, "/auth/v1/user", token, nil)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeUnavailable, "auth service unavailable", err)
	}
	if status != http.StatusOK {
		return nil, services.ErrInvalidToken
	}

	var resp userResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeExternal, "malformed auth response", err)
	}

	user := resp.toUser()
	return &user, nil
}

type sessionResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *userResponse `json:"user"`
}

// SignUp registers a new user with email and password
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*AuthResponse, error) {
	if !c.Available() {
		return nil, services.ErrAuthUnavailable
	}

	payload := map[string]interface{}{
		"email":    email,
		"password": password,
		"data": map[string]string{
			"full_name": fullName,
		},
	}

	body, status, err := c.do(ctx, http.MethodPost, "/auth/v1/signup", "", payload)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeUnavailable, "auth service unavailable", err)
	}
	if status != http.StatusOK {
		return nil, services.NewDomainError(services.ErrorTypeValidation, "registration failed", apiError(body, status))
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, services.NewDomainError(services.ErrorTypeExternal, "malformed auth response", err)
	}

	auth := &AuthResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if resp.User != nil {
		auth.User = resp.User.toUser()
	} else {
		// Signup with email confirmation enabled returns a bare user object
		var user userResponse
		if err := json.Unmarshal(body, &user); err == nil {
			auth.User = user.toUser()
		}
	}
	auth.User.FullName = fullName
	return auth, nil
}

// SignIn exchanges email and password for a session
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	if !c.Available() {
		return nil, services.ErrAuthUnavailable
	}

	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	body, status, err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", payload)
	if err != nil {
		return nil, services.NewDomainError(services.ErrorTypeUnavailable, "auth service unavailable", err)
	}
	if status != http.StatusOK {
		return nil, services.NewDomainError(services.ErrorTypeUnauthorized, "invalid credentials", apiError(body, status))
	}

	var resp sessionResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.User == nil {
		return nil, services.NewDomainError(services.ErrorTypeUnauthorized, "invalid credentials", err)
	}

	return &AuthResponse{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         resp.User.toUser(),
	}, nil
}

// SignOut invalidates the session behind an access token
func (c *Client) SignOut(ctx context.Context, token string) error {
	if !c.Available() {
		return services.ErrAuthUnavailable
	}

	_, status, err := c.do(ctx, http.MethodPost, "/auth/v1/logout", token, nil)
	if err != nil {
		c.logger.Warn("sign out failed", zap.Error(err))
		return nil
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		c.logger.Warn("sign out rejected", zap.Int("status", status))
	}
	return nil
}

// OAuthURL builds the authorize URL the frontend redirects the user to.
// Only google and github are wired up.
func (c *Client) OAuthURL(provider, redirectTo string) (string, error) {
	if !c.Available() {
		return "", services.ErrAuthUnavailable
	}
	if provider != "google" && provider != "github" {
		return "", services.ErrInvalidOAuth
	}

	query := url.Values{}
	query.Set("provider", provider)
	if redirectTo != "" {
		query.Set("redirect_to", redirectTo)
	}
	return fmt.Sprintf("%s/auth/v1/authorize?%s", strings.TrimRight(c.cfg.URL, "/"), query.Encode()), nil
}

func (c *Client) do(ctx context.Context, method, path, token string, payload interface{}) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	endpoint := strings.TrimRight(c.cfg.URL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("apikey", c.cfg.AnonKey)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read auth response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func apiError(body []byte, status int) error {
	var errResp struct {
		Msg       string `json:"msg"`
		Message   string `json:"message"`
		ErrorDesc string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		for _, msg := range []string{errResp.Msg, errResp.Message, errResp.ErrorDesc} {
			if msg != "" {
				return fmt.Errorf("status %d: %s", status, msg)
			}
		}
	}
	return fmt.Errorf("status %d", status)
}

func metadataString(metadata map[string]interface{}, key string) string {
	if metadata == nil {
		return ""
	}
	if value, ok := metadata[key].(string); ok {
		return value
	}
	return ""
}
