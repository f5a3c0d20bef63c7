package main

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"matclub/internal/billing"
	"matclub/internal/config"
	"matclub/internal/database"
	"matclub/internal/handlers"
	"matclub/internal/observability"
	"matclub/internal/repository"
	"matclub/internal/schedule"
	"matclub/internal/security"
	"matclub/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.OpenWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Load templates
	templates, err := loadTemplates(cfg.TemplatesPath)
	if err != nil {
		log.Fatalf("Failed to load templates: %v", err)
	}

	log.Println("Templates loaded successfully")

	// Initialize repositories
	memberRepo := repository.NewMemberRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	classRepo := repository.NewClassRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	contentRepo := repository.NewContentRepository(db)

	// Initialize services
	clock := schedule.SystemClock{}

	emailService, err := service.NewEmailService(contentRepo, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if cfg.SESFromEmail == "" {
		log.Println("SES_FROM_EMAIL not set, outgoing email disabled")
	}

	mediaService, err := service.NewMediaService(cfg.AWSRegion, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		log.Fatalf("Failed to initialize media service: %v", err)
	}
	if cfg.S3Bucket == "" {
		log.Println("S3_BUCKET not set, photo uploads disabled")
	}

	billingProvider := billing.NewHTTPProvider(cfg.BillingBaseURL, cfg.BillingAPIKey)

	authService := service.NewAuthService(memberRepo, cfg.SessionDuration)
	memberService := service.NewMemberService(memberRepo)
	membershipService := service.NewMembershipService(membershipRepo, locationRepo, memberRepo, billingProvider, emailService, cfg.AppBaseURL, clock)
	scheduleService := service.NewScheduleService(classRepo, attendanceRepo, membershipRepo, clock)
	checkInService := service.NewCheckInService(classRepo, membershipRepo, attendanceRepo, clock)
	backupService := service.NewBackupService(db)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name:  "google",
			Label: "Google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email", "profile"},
			},
			UserInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
		},
		"apple": {
			Name:  "apple",
			Label: "Apple",
			Config: &oauth2.Config{
				ClientID:     cfg.AppleClientID,
				ClientSecret: cfg.AppleClientSecret,
				Endpoint: oauth2.Endpoint{
					AuthURL:  "https://appleid.apple.com/auth/authorize",
					TokenURL: "https://appleid.apple.com/auth/token",
				},
				Scopes: []string{"name", "email"},
			},
			AuthParams: map[string]string{
				"response_mode": "query",
			},
		},
	}

	// Initialize handlers
	csrf := security.NewCSRFGenerator(cfg.SessionSecret)
	limiter := security.NewRateLimiter(20, time.Minute)
	middleware := handlers.NewMiddleware(authService, csrf, limiter)

	publicHandler := handlers.NewPublicHandler(locationRepo, templates)
	authHandler := handlers.NewAuthHandler(authService, emailService, templates, oauthProviders, cfg.OAuthRedirectBase)
	memberHandler := handlers.NewMemberHandler(memberService, scheduleService, checkInService, membershipService, mediaService, locationRepo, contentRepo, templates, csrf, clock)
	adminHandler := handlers.NewAdminHandler(memberService, membershipService, scheduleService, backupService, locationRepo, classRepo, membershipRepo, attendanceRepo, contentRepo, templates, csrf, clock, cfg.Version)
	billingHandler := handlers.NewBillingHandler(membershipService, cfg.BillingWebhookSecret)

	// Setup routes
	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticFilesPath))))

	// Operational endpoints
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	// Public routes
	mux.HandleFunc("GET /", publicHandler.Home)
	mux.HandleFunc("GET /pricing", publicHandler.PricingIndex)
	mux.HandleFunc("GET /locations/{id}/pricing", publicHandler.Pricing)
	mux.HandleFunc("GET /about", publicHandler.About)
	mux.HandleFunc("GET /contact", publicHandler.Contact)
	mux.HandleFunc("GET /login", authHandler.ShowLogin)
	mux.HandleFunc("POST /login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /register", authHandler.ShowRegister)
	mux.HandleFunc("POST /register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/forgot-password", authHandler.ShowForgotPassword)
	mux.HandleFunc("POST /auth/forgot-password", middleware.RateLimit(authHandler.ForgotPassword))
	mux.HandleFunc("GET /auth/reset-password", authHandler.ShowResetPassword)
	mux.HandleFunc("POST /auth/reset-password", middleware.RateLimit(authHandler.ResetPassword))
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// Billing webhook (authenticated by signature, not session)
	mux.HandleFunc("POST /billing/webhook", billingHandler.Webhook)

	// Member routes
	mux.HandleFunc("GET /dashboard", middleware.RequireAuth(memberHandler.Dashboard))
	mux.HandleFunc("POST /checkin/{id}", middleware.RequireAuth(middleware.RateLimit(middleware.CSRFProtect(memberHandler.CheckIn))))
	mux.HandleFunc("GET /profile", middleware.RequireAuth(memberHandler.ShowProfile))
	mux.HandleFunc("POST /profile", middleware.RequireAuth(middleware.CSRFProtect(memberHandler.UpdateProfile)))
	mux.HandleFunc("GET /children", middleware.RequireAuth(memberHandler.ShowChildren))
	mux.HandleFunc("POST /children/create", middleware.RequireAuth(middleware.CSRFProtect(memberHandler.AddChild)))
	mux.HandleFunc("POST /children/{id}/update", middleware.RequireAuth(middleware.CSRFProtect(memberHandler.UpdateChild)))
	mux.HandleFunc("POST /children/{id}/delete", middleware.RequireAuth(middleware.CSRFProtect(memberHandler.RemoveChild)))
	mux.HandleFunc("GET /videos", middleware.RequireAuth(memberHandler.Videos))
	mux.HandleFunc("GET /membership", middleware.RequireAuth(memberHandler.ShowMembership))
	mux.HandleFunc("POST /membership/signup", middleware.RequireAuth(middleware.CSRFProtect(memberHandler.StartSignup)))
	mux.HandleFunc("POST /membership/{id}/cancel", middleware.RequireAuth(middleware.CSRFProtect(memberHandler.CancelMembership)))
	mux.HandleFunc("GET /membership/complete", middleware.RequireAuth(memberHandler.CheckoutComplete))
	mux.HandleFunc("GET /membership/cancelled", middleware.RequireAuth(memberHandler.CheckoutCancelled))

	// Admin routes
	mux.HandleFunc("GET /admin/dashboard", middleware.RequireAdmin(adminHandler.Dashboard))
	mux.HandleFunc("GET /admin/members", middleware.RequireAdmin(adminHandler.ListMembers))
	mux.HandleFunc("GET /admin/members/{id}", middleware.RequireAdmin(adminHandler.ShowMember))
	mux.HandleFunc("POST /admin/members/{id}/promote", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.PromoteMember)))
	mux.HandleFunc("POST /admin/members/{id}/belt", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.SetMemberBelt)))
	mux.HandleFunc("POST /admin/members/{id}/admin", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.SetMemberAdmin)))
	mux.HandleFunc("POST /admin/members/{id}/delete", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteMember)))
	mux.HandleFunc("GET /admin/locations", middleware.RequireAdmin(adminHandler.ListLocations))
	mux.HandleFunc("POST /admin/locations/create", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.CreateLocation)))
	mux.HandleFunc("POST /admin/locations/{id}/update", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.UpdateLocation)))
	mux.HandleFunc("POST /admin/locations/{id}/delete", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteLocation)))
	mux.HandleFunc("POST /admin/tiers/create", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.CreateMembershipType)))
	mux.HandleFunc("POST /admin/tiers/{id}/update", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.UpdateMembershipType)))
	mux.HandleFunc("POST /admin/tiers/{id}/delete", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteMembershipType)))
	mux.HandleFunc("GET /admin/classes", middleware.RequireAdmin(adminHandler.ListClasses))
	mux.HandleFunc("POST /admin/classes/create", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.CreateClass)))
	mux.HandleFunc("POST /admin/classes/{id}/update", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.UpdateClass)))
	mux.HandleFunc("POST /admin/classes/{id}/delete", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteClass)))
	mux.HandleFunc("GET /admin/classes/{id}/roster", middleware.RequireAdmin(adminHandler.ClassRoster))
	mux.HandleFunc("GET /admin/memberships", middleware.RequireAdmin(adminHandler.ListMemberships))
	mux.HandleFunc("POST /admin/memberships/{id}/status", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.SetMembershipStatus)))
	mux.HandleFunc("GET /admin/videos", middleware.RequireAdmin(adminHandler.ListVideos))
	mux.HandleFunc("POST /admin/videos/create", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.CreateVideo)))
	mux.HandleFunc("POST /admin/videos/{id}/update", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.UpdateVideo)))
	mux.HandleFunc("POST /admin/videos/{id}/delete", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteVideo)))
	mux.HandleFunc("GET /admin/templates", middleware.RequireAdmin(adminHandler.ListEmailTemplates))
	mux.HandleFunc("POST /admin/templates/save", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.SaveEmailTemplate)))
	mux.HandleFunc("POST /admin/templates/{name}/delete", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteEmailTemplate)))
	mux.HandleFunc("GET /admin/database", middleware.RequireAdmin(adminHandler.ShowDatabase))
	mux.HandleFunc("GET /admin/database/export", middleware.RequireAdmin(adminHandler.ExportDatabase))
	mux.HandleFunc("POST /admin/database/import", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.ImportDatabase)))

	// Wrap with metrics and logging middleware
	handler := handlers.Logging(observability.Middleware(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	go cleanupExpiredSessions(authService)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// cleanupExpiredSessions removes expired sessions every hour
func cleanupExpiredSessions(authService *service.AuthService) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			log.Printf("Session cleanup failed: %v", err)
			continue
		}
		observability.RecordSessionCleanup(time.Now())
	}
}

// loadTemplates loads all template files
func loadTemplates(templatesPath string) (*template.Template, error) {
	patterns := []string{
		filepath.Join(templatesPath, "*.tmpl"),
		filepath.Join(templatesPath, "auth/*.tmpl"),
		filepath.Join(templatesPath, "member/*.tmpl"),
		filepath.Join(templatesPath, "admin/*.tmpl"),
		filepath.Join(templatesPath, "components/*.tmpl"),
	}

	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		files = append(files, matches...)
	}

	// Define template functions
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDay": func(day int) string {
			days := []string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
			if day < 0 || day > 6 {
				return ""
			}
			return days[day]
		},
		"formatPrice": func(cents int64) string {
			return fmt.Sprintf("%.2f", float64(cents)/100)
		},
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"div": func(a, b int) int {
			if b == 0 {
				return 0
			}
			return a / b
		},
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
	}

	return template.New("").Funcs(funcMap).ParseFiles(files...)
}
