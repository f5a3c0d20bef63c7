package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"matclub/internal/models"
	"matclub/internal/security"
	"matclub/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const MemberContextKey ContextKey = "member"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	csrf        *security.CSRFGenerator
	limiter     *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, csrf *security.CSRFGenerator, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		csrf:        csrf,
		limiter:     limiter,
	}
}

// RequireAuth is middleware that requires a valid member session
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		member, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), MemberContextKey, member)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin is middleware that requires an admin member session
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		member := GetMemberFromContext(r.Context())
		if member == nil || !member.IsAdmin {
			http.Error(w, ErrUnauthorized, http.StatusForbidden)
			return
		}
		next(w, r)
	})
}

// CSRFProtect validates the csrf_token form field against the session
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			http.Error(w, ErrUnauthorized, http.StatusForbidden)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
			return
		}
		token := r.FormValue("csrf_token")
		if token == "" || !m.csrf.ValidateToken(cookie.Value, token) {
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// RateLimit throttles requests per client IP
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			http.Error(w, "Too many requests, please try again later", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// CSRFToken issues a token bound to the request's session, for rendering
// into forms. Empty when there is no session.
func (m *Middleware) CSRFToken(r *http.Request) string {
	return csrfTokenFor(m.csrf, r)
}

func csrfTokenFor(csrf *security.CSRFGenerator, r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	token, err := csrf.GenerateToken(cookie.Value)
	if err != nil {
		return ""
	}
	return token
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetMemberFromContext retrieves the member from the request context
func GetMemberFromContext(ctx context.Context) *models.Member {
	member, ok := ctx.Value(MemberContextKey).(*models.Member)
	if !ok {
		return nil
	}
	return member
}
