package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader is the header name for CSRF tokens on mutating requests.
const CSRFTokenHeader = "X-CSRF-Token"

// ContextKeyCSRFToken is the Gin context key under which the per-request
// CSRF token is stored for the token endpoint.
const ContextKeyCSRFToken = "csrf_token"

// CSRFMiddleware creates a Gin middleware for CSRF protection. Safe
// methods (GET, HEAD, OPTIONS, TRACE) pass through; mutating requests
// must carry the token issued alongside the CSRF cookie. The SPA fetches
// the token from GET /api/csrf and echoes it in the X-CSRF-Token header.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.RequestHeader(CSRFTokenHeader),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Expose the token for the /api/csrf endpoint. Session
			// middleware runs after this, layering its context on top.
			c.Set(ContextKeyCSRFToken, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)
	}
}

// csrfErrorHandler handles CSRF validation failures. The client is always
// a JSON consumer here, so there is no HTML fallback.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"error":"CSRF token invalid or missing"}`))
}

// CSRFToken returns the token issued for the current request.
func CSRFToken(c *gin.Context) string {
	token, _ := c.Get(ContextKeyCSRFToken)
	s, _ := token.(string)
	return s
}
