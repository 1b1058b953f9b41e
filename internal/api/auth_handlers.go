package api

import (
	"log"
	"net/http"
	"time"

	"github.com/example/fashion-catalog/internal/api/middleware"
	"github.com/example/fashion-catalog/internal/auth"
)

// AuthHandlers handles the admin panel session
type AuthHandlers struct {
	admin        *auth.Admin
	jwtService   *auth.JWTService
	secureCookie bool
}

// NewAuthHandlers creates a new AuthHandlers instance. secureCookie marks the
// session cookie Secure and should be set behind TLS.
func NewAuthHandlers(admin *auth.Admin, jwtService *auth.JWTService, secureCookie bool) *AuthHandlers {
	return &AuthHandlers{
		admin:        admin,
		jwtService:   jwtService,
		secureCookie: secureCookie,
	}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token,omitempty"`
	User    *UserSummary `json:"user,omitempty"`
	Message string       `json:"message,omitempty"`
}

type UserSummary struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Login handles POST /api/admin/login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.admin.Authenticate(req.Email, req.Password); err != nil {
		log.Printf("[Auth] Failed login for %q", req.Email)
		respondJSON(w, http.StatusUnauthorized, LoginResponse{Message: "Credenciais inválidas"})
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken(h.admin.Email, auth.RoleAdmin)
	if err != nil {
		log.Printf("[Auth] Signing token: %v", err)
		respondJSONError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.setAuthCookie(w, token, expiresAt)

	respondJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Token:   token,
		User:    &UserSummary{Email: h.admin.Email},
	})
}

// Logout handles POST /api/admin/logout
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.setAuthCookie(w, "", time.Unix(0, 0))
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me handles GET /api/admin/me
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, UserSummary{Email: claims.Email, Role: claims.Role})
}

func (h *AuthHandlers) setAuthCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	cookie := &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}
