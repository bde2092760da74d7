package auth

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	// CookieName is the name of the browser cookie session.
	CookieName = "attendtrack"
	// ContextKey is where SessionAuth stores the parsed claims.
	ContextKey = "claims"

	cookieTokenKey = "token"
)

// RememberToken stores the session token in the cookie session so browser
// clients do not need to send the Authorization header.
func RememberToken(c *gin.Context, token string) error {
	s := sessions.Default(c)
	s.Set(cookieTokenKey, token)
	return s.Save()
}

// ForgetToken clears the cookie session.
func ForgetToken(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	return s.Save()
}

// SessionAuth requires an HS256 session token, taken from the bearer
// header or, failing that, the cookie session.
func SessionAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearer(c)
		if tokenStr == "" {
			if v, ok := sessions.Default(c).Get(cookieTokenKey).(string); ok {
				tokenStr = v
			}
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ContextKey, claims)
		c.Next()
	}
}

func bearer(c *gin.Context) string {
	authz := c.GetHeader("Authorization")
	if len(authz) < len("bearer ") || !strings.EqualFold(authz[:len("bearer ")], "bearer ") {
		return ""
	}
	return strings.TrimSpace(authz[len("bearer "):])
}
