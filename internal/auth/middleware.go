package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/librarium-app/librarium/internal/entities"
)

// Context keys for user data
const (
	ContextKeyUserID = "auth_user_id"
	ContextKeyRole   = "auth_role"
)

// StaffTier are the roles allowed to manage the catalog and run reports.
var StaffTier = []entities.Role{entities.RoleStaff, entities.RoleAdmin, entities.RoleOwner}

// AdminTier are the roles allowed to manage staff accounts.
var AdminTier = []entities.Role{entities.RoleAdmin, entities.RoleOwner}

// Middleware gates endpoints on the role carried by the server-side
// session. The role claim was written at login after password
// verification; nothing from the request path or body is consulted.
type Middleware struct {
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(sessionManager *SessionManager) *Middleware {
	return &Middleware{sessionManager: sessionManager}
}

// RequireAuthenticated rejects requests without a valid session.
func (m *Middleware) RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := m.sessionManager.GetUserID(c.Request)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyRole, m.sessionManager.GetUserRole(c.Request))
		c.Next()
	}
}

// RequireRole rejects requests whose session role is not in the allowed
// set. Unauthenticated requests get 401, authenticated-but-disallowed 403.
func (m *Middleware) RequireRole(allowed ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := m.sessionManager.GetUserID(c.Request)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		role := m.sessionManager.GetUserRole(c.Request)
		for _, r := range allowed {
			if role == r {
				c.Set(ContextKeyUserID, userID)
				c.Set(ContextKeyRole, role)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "permission denied",
		})
	}
}

// GetUserID extracts the authenticated user's id from the Gin context.
func GetUserID(c *gin.Context) string {
	id, _ := c.Get(ContextKeyUserID)
	s, _ := id.(string)
	return s
}

// GetRole extracts the verified role from the Gin context.
func GetRole(c *gin.Context) entities.Role {
	role, _ := c.Get(ContextKeyRole)
	r, _ := role.(entities.Role)
	return r
}
