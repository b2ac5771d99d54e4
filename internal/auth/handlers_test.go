package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/librarium-app/librarium/internal/config"
	"github.com/librarium-app/librarium/internal/entities"
)

// setupAuthStack wires a real database-backed service, session manager
// and middleware the way the router does.
func setupAuthStack(t *testing.T) (*gin.Engine, *Service, *gorm.DB, func()) {
	gin.SetMode(gin.TestMode)
	dbPath := "./test_handlers_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Member{}, &entities.StaffUser{}))

	cfg := config.Auth{BcryptCost: 4, SessionLifetime: time.Hour}
	service := NewService(db, cfg)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sessionManager, err := NewSessionManager(sqlDB, cfg)
	require.NoError(t, err)

	middleware := NewMiddleware(sessionManager)
	controller := NewController(service, sessionManager, nil)

	router := gin.New()
	router.Use(sessionManager.SessionLoadSave())
	router.POST("/api/login", controller.Login)
	router.POST("/api/logout", controller.Logout)
	router.GET("/api/session", controller.Session)
	router.GET("/staff-only", middleware.RequireRole(StaffTier...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	router.GET("/admin-only", middleware.RequireRole(AdminTier...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})

	cleanup := func() {
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return router, service, db, cleanup
}

func login(t *testing.T, router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	payload := `{"email": "` + email + `", "password": "` + password + `"}`
	req, _ := http.NewRequest("POST", "/api/login", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin_Member(t *testing.T) {
	router, service, db, cleanup := setupAuthStack(t)
	defer cleanup()

	seedMember(t, service, db, "alice@example.com", "password123")

	w := login(t, router, "alice@example.com", "password123")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged in as member!")
	assert.Contains(t, w.Body.String(), `"user_type":"member"`)
	// The session cookie is the credential; nothing else is handed out
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestLogin_StaffMessageMatchesRole(t *testing.T) {
	router, service, db, cleanup := setupAuthStack(t)
	defer cleanup()

	seedStaff(t, service, db, "OWN00001", entities.RoleOwner, "owner@example.com", "password123")

	w := login(t, router, "owner@example.com", "password123")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logged in as owner!")
}

func TestLogin_UniformFailureResponse(t *testing.T) {
	router, service, db, cleanup := setupAuthStack(t)
	defer cleanup()

	seedMember(t, service, db, "alice@example.com", "password123")

	wrongPassword := login(t, router, "alice@example.com", "wrong-password")
	unknownEmail := login(t, router, "nobody@example.com", "password123")

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Byte-identical bodies: the response must not leak which part failed
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestLogin_MissingFields(t *testing.T) {
	router, _, _, cleanup := setupAuthStack(t)
	defer cleanup()

	w := login(t, router, "alice@example.com", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionGatesRoles(t *testing.T) {
	router, service, db, cleanup := setupAuthStack(t)
	defer cleanup()

	seedStaff(t, service, db, "STF00001", entities.RoleStaff, "staff@example.com", "password123")

	loginResp := login(t, router, "staff@example.com", "password123")
	require.Equal(t, http.StatusOK, loginResp.Code)
	cookies := loginResp.Result().Cookies()
	require.NotEmpty(t, cookies)

	get := func(path string, withCookie bool) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("GET", path, nil)
		if withCookie {
			for _, c := range cookies {
				req.AddCookie(c)
			}
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	// No session at all
	assert.Equal(t, http.StatusUnauthorized, get("/staff-only", false).Code)

	// Staff session passes the staff gate
	w := get("/staff-only", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "STF00001")

	// ...but not the admin gate: authenticated yet disallowed is 403
	assert.Equal(t, http.StatusForbidden, get("/admin-only", true).Code)
}

func TestSessionEndpointReflectsLogin(t *testing.T) {
	router, service, db, cleanup := setupAuthStack(t)
	defer cleanup()

	seedStaff(t, service, db, "ADM00001", entities.RoleAdmin, "admin@example.com", "password123")

	loginResp := login(t, router, "admin@example.com", "password123")
	require.Equal(t, http.StatusOK, loginResp.Code)

	req, _ := http.NewRequest("GET", "/api/session", nil)
	for _, c := range loginResp.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ADM00001")
	assert.Contains(t, w.Body.String(), "admin")
}

func TestSessionEndpoint_NotLoggedIn(t *testing.T) {
	router, _, _, cleanup := setupAuthStack(t)
	defer cleanup()

	req, _ := http.NewRequest("GET", "/api/session", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	router, service, db, cleanup := setupAuthStack(t)
	defer cleanup()

	seedMember(t, service, db, "alice@example.com", "password123")

	loginResp := login(t, router, "alice@example.com", "password123")
	require.Equal(t, http.StatusOK, loginResp.Code)
	cookies := loginResp.Result().Cookies()

	req, _ := http.NewRequest("POST", "/api/logout", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The old cookie no longer opens a session
	req, _ = http.NewRequest("GET", "/api/session", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
