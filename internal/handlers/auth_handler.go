package handlers

import (
	"html/template"
	"log"
	"net/http"

	"matclub/internal/security"
	"matclub/internal/service"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService          *service.AuthService
	emailService         *service.EmailService
	templates            *template.Template
	oauthProviders       map[string]OAuthProvider
	oauthRedirectBaseURL string
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, emailService *service.EmailService, templates *template.Template, oauthProviders map[string]OAuthProvider, oauthRedirectBaseURL string) *AuthHandler {
	return &AuthHandler{
		authService:          authService,
		emailService:         emailService,
		templates:            templates,
		oauthProviders:       oauthProviders,
		oauthRedirectBaseURL: oauthRedirectBaseURL,
	}
}

// ShowLogin renders the login page
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfLoggedIn(w, r) {
		return
	}

	h.renderLogin(w, r, LoginViewData{Title: "Login"})
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	session, _, err := h.authService.Login(email, password)
	if err != nil {
		h.renderLogin(w, r, LoginViewData{
			Title: "Login",
			Error: "Invalid email or password",
			Email: email,
		})
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// ShowRegister renders the registration page
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if h.redirectIfLoggedIn(w, r) {
		return
	}

	h.renderRegister(w, r, RegisterViewData{Title: "Join the Club"})
}

// Register handles registration form submission
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	name := r.FormValue("name")
	dateOfBirth := r.FormValue("date_of_birth")

	member, err := h.authService.Register(email, password, name, dateOfBirth)
	if err != nil {
		h.renderRegister(w, r, RegisterViewData{
			Title: "Join the Club",
			Error: err.Error(),
			Email: email,
			Name:  name,
		})
		return
	}

	if h.emailService != nil && h.emailService.IsEnabled() {
		if err := h.emailService.SendWelcomeEmail(r.Context(), member.Email, member.Name); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", member.Email, err)
		}
	}

	session, _, err := h.authService.Login(email, password)
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, session.ID, session.ExpiresAt))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout handles logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		_ = h.authService.Logout(cookie.Value)
	}

	http.SetCookie(w, security.CreateDeleteCookie(r, SessionCookieName))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ShowForgotPassword renders the password reset request page
func (h *AuthHandler) ShowForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.render(w, "forgot_password.tmpl", ForgotPasswordViewData{Title: "Forgot Password"})
}

// ForgotPassword handles the password reset request form
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	if err := h.authService.RequestPasswordReset(r.Context(), h.emailService, email); err != nil {
		log.Printf("Password reset request failed for %s: %v", email, err)
	}

	// Same response either way so the form never reveals account existence.
	h.render(w, "forgot_password.tmpl", ForgotPasswordViewData{
		Title:   "Forgot Password",
		Success: "If that email has an account, a reset link is on its way.",
	})
}

// ShowResetPassword renders the password reset form for a token
func (h *AuthHandler) ShowResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	valid, err := h.authService.ValidatePasswordResetToken(token)
	if err != nil || !valid {
		h.render(w, "reset_password.tmpl", ResetPasswordViewData{
			Title: "Reset Password",
			Error: "This reset link is invalid or has expired.",
		})
		return
	}

	h.render(w, "reset_password.tmpl", ResetPasswordViewData{Title: "Reset Password", Token: token})
}

// ResetPassword handles the password reset form submission
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, ErrInvalidFormData, http.StatusBadRequest)
		return
	}

	token := r.FormValue("token")
	password := r.FormValue("password")

	if err := h.authService.ResetPassword(token, password); err != nil {
		h.render(w, "reset_password.tmpl", ResetPasswordViewData{
			Title: "Reset Password",
			Token: token,
			Error: err.Error(),
		})
		return
	}

	h.renderLogin(w, r, LoginViewData{
		Title:   "Login",
		Success: "Password updated. Log in with your new password.",
	})
}

func (h *AuthHandler) redirectIfLoggedIn(w http.ResponseWriter, r *http.Request) bool {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if _, err := h.authService.ValidateSession(cookie.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return true
		}
	}
	return false
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, data LoginViewData) {
	data.OAuthProviders = h.oauthProviderViews()
	h.render(w, "login.tmpl", data)
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, data RegisterViewData) {
	data.OAuthProviders = h.oauthProviderViews()
	h.render(w, "register.tmpl", data)
}

func (h *AuthHandler) render(w http.ResponseWriter, name string, data interface{}) {
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, ErrInternalServerError, http.StatusInternalServerError)
	}
}
