package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Controller serves the login/logout/session endpoints.
type Controller struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
}

// NewController creates the auth controller.
func NewController(service *Service, sessionManager *SessionManager, rateLimiter *RateLimiter) *Controller {
	return &Controller{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and establishes a server-side session.
// POST /api/login
//
// An unknown email and a wrong password produce byte-identical responses.
func (ctrl *Controller) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	ip := c.ClientIP()
	if ctrl.rateLimiter != nil {
		if allowed, retryAfter := ctrl.rateLimiter.Allow(ip, req.Email); !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many login attempts",
				"retry_after": retryAfter.String(),
			})
			return
		}
	}

	user, err := ctrl.service.Authenticate(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			if ctrl.rateLimiter != nil {
				ctrl.rateLimiter.RecordFailure(ip, req.Email)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
			return
		}
		log.Printf("Login failed for %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error processing login"})
		return
	}

	if ctrl.rateLimiter != nil {
		ctrl.rateLimiter.RecordSuccess(ip, req.Email)
	}

	if ctrl.sessionManager != nil {
		if err := ctrl.sessionManager.CreateSession(c.Request, user); err != nil {
			log.Printf("Failed to create session for %s: %v", user.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error processing login"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": loginMessage(user),
		"user":    user,
	})
}

// Logout destroys the current session.
// POST /api/logout
func (ctrl *Controller) Logout(c *gin.Context) {
	if ctrl.sessionManager != nil {
		if err := ctrl.sessionManager.DestroySession(c.Request); err != nil {
			log.Printf("Failed to destroy session: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error logging out"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Session reports the identity bound to the current session, so the SPA
// can restore state without trusting anything stored client-side.
// GET /api/session
func (ctrl *Controller) Session(c *gin.Context) {
	userID := ctrl.sessionManager.GetUserID(c.Request)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        userID,
			"user_type": ctrl.sessionManager.GetUserRole(c.Request),
		},
	})
}

// CSRF hands the SPA the token to echo on mutating requests.
// GET /api/csrf
func (ctrl *Controller) CSRF(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrf_token": CSRFToken(c)})
}

func loginMessage(user *AuthenticatedUser) string {
	switch user.UserType {
	case "staff":
		return "Logged in as staff!"
	case "admin":
		return "Logged in as admin!"
	case "owner":
		return "Logged in as owner!"
	default:
		return "Logged in as member!"
	}
}
