package http

import (
	"github.com/gin-gonic/gin"

	"github.com/librarium-app/librarium/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
//
// Every gate is decided from the verified server-side session; nothing in
// a path or body grants privilege.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by
	// CSRF's request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	authController := auth.NewController(cfg.AuthService, cfg.SessionManager, cfg.RateLimiter)
	health := NewHealthController(cfg.Database, cfg.Version)
	booksController := NewBooksController(cfg.Books, cfg.BookDeleter, cfg.MaxUploadBytes)
	membersController := NewMembersController(cfg.Members, cfg.StaffProfiles, cfg.MemberDeleter, cfg.AuthService, cfg.MaxUploadBytes)
	staffController := NewStaffController(cfg.Staff, cfg.AuthService)
	transactionsController := NewTransactionsController(cfg.Ledger)
	reportsController := NewReportsController(cfg.Transactions, cfg.Archive)

	authenticated := cfg.AuthMiddleware.RequireAuthenticated()
	staffOnly := cfg.AuthMiddleware.RequireRole(auth.StaffTier...)
	adminOnly := cfg.AuthMiddleware.RequireRole(auth.AdminTier...)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Session endpoints
	router.POST("/api/login", authController.Login)
	router.POST("/api/logout", authenticated, authController.Logout)
	router.GET("/api/session", authController.Session)
	router.GET("/api/csrf", authController.CSRF)

	// Catalog: reads are public, mutations need a staff-tier session
	router.GET("/api/books", booksController.GetAllBooks)
	router.GET("/api/getBookCover/:bookId", booksController.GetBookCover)
	router.POST("/api/books", staffOnly, booksController.CreateBook)
	router.PUT("/api/books/:id", staffOnly, booksController.UpdateBook)
	router.DELETE("/api/books/:id", staffOnly, booksController.DeleteBook)

	// Membership
	router.POST("/api/users", membersController.Signup)
	router.GET("/api/members", staffOnly, membersController.ListMembers)
	router.GET("/api/getUserDetails/:id", authenticated, membersController.GetUserDetails)
	router.PUT("/api/updateUserDetails/:id", authenticated, membersController.UpdateUserDetails)
	router.DELETE("/api/users/:id", staffOnly, membersController.DeleteUser)
	router.GET("/api/getUserStatus/:id", authenticated, membersController.GetUserStatus)
	router.POST("/api/uploadProfilePicture/:userId", authenticated, membersController.UploadProfilePicture)
	router.GET("/api/getProfilePicture/:userId", authenticated, membersController.GetProfilePicture)

	// Staff management
	router.POST("/api/staffUser", adminOnly, staffController.CreateStaff)
	router.GET("/api/staff", adminOnly, staffController.ListStaff)
	router.PUT("/api/users/:id", adminOnly, staffController.UpdateStaff)
	router.DELETE("/api/deleteStaff/:id", adminOnly, staffController.DeleteStaff)
	router.GET("/api/getAdminDetails/:id", authenticated, staffController.GetAdminDetails)

	// Loans
	router.POST("/api/borrowBook", authenticated, transactionsController.BorrowBook)
	router.POST("/api/returnBook", authenticated, transactionsController.ReturnBook)
	router.GET("/api/borrowedBooks/:memberId", authenticated, transactionsController.BorrowedBooks)

	// Reporting
	router.PUT("/api/transactions/:id", staffOnly, reportsController.TransactionsReport)
	router.GET("/api/deletedRecords", staffOnly, reportsController.DeletedRecords)

	return router
}
