package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/librarium-app/librarium/internal/auth"
	"github.com/librarium-app/librarium/internal/config"
	"github.com/librarium-app/librarium/internal/database"
	"github.com/librarium-app/librarium/internal/database/archive"
	"github.com/librarium-app/librarium/internal/database/books"
	"github.com/librarium-app/librarium/internal/database/members"
	"github.com/librarium-app/librarium/internal/database/staff"
	"github.com/librarium-app/librarium/internal/database/transactions"
	http_controllers "github.com/librarium-app/librarium/internal/http"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Librarium v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	loanPeriod := time.Duration(cfg.Library.LoanPeriodDays) * 24 * time.Hour
	bookRepo := books.NewRepository(db.DB)
	memberRepo := members.NewRepository(db.DB)
	staffRepo := staff.NewRepository(db.DB)
	ledger := transactions.NewRepository(db.DB, loanPeriod)
	archiveRepo := archive.NewRepository(db.DB)

	// Auth service and sessions
	authService := auth.NewService(db.DB, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	authMiddleware := auth.NewMiddleware(sessionManager)

	rateLimiter := auth.NewRateLimiter(auth.RateLimitConfig{
		MaxAttempts:     cfg.Auth.MaxLoginAttempts,
		WindowDuration:  cfg.Auth.RateLimitWindow,
		LockoutDuration: cfg.Auth.LockoutDuration,
	})

	// Generate or use configured CSRF secret
	var csrfSecret []byte
	if cfg.Auth.SessionSecret != "" {
		csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
		if err != nil {
			// Not hex, use as raw bytes
			csrfSecret = []byte(cfg.Auth.SessionSecret)
		}
	} else {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			log.Fatalf("Failed to generate CSRF secret: %v", err)
		}
		csrfSecret, _ = hex.DecodeString(secret)
		log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	// Seed the owner account if configured; owner ids are never minted
	// through the API.
	if cfg.Owner.Email != "" && cfg.Owner.Password != "" {
		hash, err := authService.HashPassword(cfg.Owner.Password)
		if err != nil {
			log.Fatalf("Failed to hash owner password: %v", err)
		}
		if err := db.SeedOwner(cfg.Owner.Email, hash, cfg.Owner.Fname, cfg.Owner.Lname); err != nil {
			log.Fatalf("Failed to seed owner account: %v", err)
		}
	} else {
		log.Printf("No owner seed configured (set OWNER_EMAIL and OWNER_PASSWORD to create one)")
	}

	// Build router configuration with all dependencies
	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		Books:          bookRepo,
		Members:        memberRepo,
		Staff:          staffRepo,
		StaffProfiles:  staffRepo,
		Ledger:         ledger,
		Transactions:   ledger,
		Archive:        archiveRepo,
		BookDeleter:    ledger,
		MemberDeleter:  ledger,
		AuthService:    authService,
		SessionManager: sessionManager,
		AuthMiddleware: authMiddleware,
		RateLimiter:    rateLimiter,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		MaxUploadBytes: cfg.Library.MaxUploadBytes,
		Version:        version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		rateLimiter.Stop()
	}

	Serve(router, cfg, onShutdown)
}
