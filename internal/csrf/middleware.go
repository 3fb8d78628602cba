package csrf

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vfuster66/Batmodule-dev-sub002/internal/auth"
	"github.com/vfuster66/Batmodule-dev-sub002/internal/session"
)

// HeaderName is the primary channel for submitting a token.
const HeaderName = "X-CSRF-Token"

// bodyField is the fallback channel for form-style submissions.
const bodyField = "_csrf"

const tokenContextKey = "batmodule.csrfToken"

// maxBodyPeek bounds how much of the body is read looking for _csrf.
const maxBodyPeek = 1 << 20

// Paths that must stay reachable without a token: the client has no
// session (and therefore no token) before logging in, and the RGPD
// export is triggered by a plain form post.
var exemptPrefixes = []string{
	"/api/auth/login",
	"/api/auth/register",
	"/api/rgpd/export",
}

// TokenFromContext returns the token minted by TokenIssuer for this
// request, or "" when none was issued.
func TokenFromContext(c *gin.Context) string {
	v, ok := c.Get(tokenContextKey)
	if !ok {
		return ""
	}
	t, _ := v.(string)
	return t
}

// TokenIssuer mints a token for the current session and exposes it on
// the request context and the response header. Requests without a
// session pass through untouched.
func TokenIssuer(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess := session.FromContext(c); sess != nil && sess.ID != "" {
			token := svc.Generate(sess.ID)
			c.Set(tokenContextKey, token)
			c.Header(HeaderName, token)
		}
		c.Next()
	}
}

// Guard gates state-changing requests behind a valid token. Safe methods
// and the exempted prefixes pass through; everything else needs a token
// bound to the caller's identity. Failure is terminal for the request.
func Guard(svc *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		for _, prefix := range exemptPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		token := requestToken(c)
		identity, ok := ResolveIdentity(c)

		if token == "" || !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "Token CSRF manquant",
				"message": "Un token CSRF est requis pour cette opération",
			})
			return
		}

		if !svc.Verify(token, identity, DefaultMaxAge) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "Token CSRF invalide",
				"message": "Le token CSRF est invalide ou expiré",
			})
			return
		}

		c.Next()
	}
}

// ResolveIdentity produces the identity a token must be bound to: the
// session id when a session is attached, else the bearer-token user id.
func ResolveIdentity(c *gin.Context) (string, bool) {
	if sess := session.FromContext(c); sess != nil && sess.ID != "" {
		return sess.ID, true
	}
	if userID, ok := auth.UserIDFromContext(c); ok {
		return strconv.FormatInt(userID, 10), true
	}
	return "", false
}

// requestToken reads the header channel first, then falls back to the
// _csrf body field. The body is restored so handlers can still bind it.
func requestToken(c *gin.Context) string {
	if t := c.GetHeader(HeaderName); t != "" {
		return t
	}
	return bodyToken(c)
}

func bodyToken(c *gin.Context) string {
	if c.Request.Body == nil {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyPeek))
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	switch c.ContentType() {
	case "application/json":
		var fields map[string]any
		if json.Unmarshal(body, &fields) != nil {
			return ""
		}
		t, _ := fields[bodyField].(string)
		return t
	case "application/x-www-form-urlencoded":
		values, err := url.ParseQuery(string(body))
		if err != nil {
			return ""
		}
		return values.Get(bodyField)
	}
	return ""
}
