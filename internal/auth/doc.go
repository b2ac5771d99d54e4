// Package auth provides authentication and authorization for the API.
//
// Credentials are verified against bcrypt hashes stored in the members
// and staff tables (email is unique across both). A successful login
// creates a server-side session (scs, SQLite-backed); the session's role
// claim is the only authorization signal the server accepts. Identifier
// prefixes in paths or bodies are never treated as proof of anything.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_BCRYPT_COST=10                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//	AUTH_MAX_LOGIN_ATTEMPTS=5           # Per IP+email before lockout
//
// # Usage
//
// Initialize in entrypoint:
//
//	authService := auth.NewService(db.DB, cfg.Auth)
//	sessionManager, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	authMiddleware := auth.NewMiddleware(sessionManager)
//	router.Use(sessionManager.SessionLoadSave())
//
// Gate routes by verified role:
//
//	admin := router.Group("/", authMiddleware.RequireRole(auth.AdminTier...))
package auth
