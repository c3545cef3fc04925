package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTemplateField is the template data key holding the hidden token input.
const CSRFTemplateField = "csrfField"

// CSRFMiddleware protects every unsafe request with a gorilla/csrf token.
// Safe methods pass through and get a fresh token for the rendered form.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	protect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		passed := false
		handler := protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Set(CSRFTemplateField, csrf.TemplateField(r))
			// Session middleware runs after this and layers its context on top.
			c.Request = r
			c.Next()
		}))

		req := c.Request
		if !secure {
			// Origin checks assume HTTPS unless told otherwise.
			req = csrf.PlaintextHTTPRequest(req)
		}
		handler.ServeHTTP(c.Writer, req)
		if !passed {
			// The error handler already wrote the response.
			c.Abort()
		}
	}
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Form expired</title></head>
<body>
<h1>Form expired</h1>
<p>The form submission was missing a valid security token.</p>
<p><a href="javascript:history.back()">Go back and try again</a></p>
</body>
</html>`))
}

// CSRFField returns the hidden input carrying the token for HTML forms.
func CSRFField(c *gin.Context) template.HTML {
	if v, ok := c.Get(CSRFTemplateField); ok {
		if field, ok := v.(template.HTML); ok {
			return field
		}
	}
	return ""
}

// ResolveCSRFSecret turns the configured secret into key bytes. A hex string
// is decoded, any other value is used as is, and an empty one is replaced by
// a random key that lives as long as the process.
func ResolveCSRFSecret(configured string) (key []byte, generated bool, err error) {
	if configured != "" {
		if decoded, err := hex.DecodeString(configured); err == nil && len(decoded) == 32 {
			return decoded, false, nil
		}
		return []byte(configured), false, nil
	}

	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, false, err
	}
	return key, true, nil
}
