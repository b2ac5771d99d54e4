package http

import (
	"github.com/librarium-app/librarium/internal/auth"
	"github.com/librarium-app/librarium/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router. This replaces the long parameter list
// in NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Stores
	Books         BookStore
	Members       MemberStore
	Staff         StaffStore
	StaffProfiles StaffProfileStore
	Ledger        Ledger
	Transactions  TransactionLister
	Archive       ArchiveStore
	BookDeleter   BookDeleter
	MemberDeleter MemberDeleter

	// Authentication
	AuthService    *auth.Service
	SessionManager *auth.SessionManager
	AuthMiddleware *auth.Middleware
	RateLimiter    *auth.RateLimiter
	CSRFSecret     []byte
	SecureCookies  bool

	// Upload limits
	MaxUploadBytes int64

	// Application info
	Version string
}
