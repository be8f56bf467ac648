package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const CtxIdentityKey = "auth_identity"

// Gate decides whether a mutating request is authorized. Reads never pass
// through it. Stateless per request.
type Gate struct {
	Verifier   Verifier // nil means the identity verifier is not configured
	AdminEmail string   // empty means any verified identity is allowed
}

// RequireAdmin gates mutating routes. With no verifier configured every
// mutation fails closed; writes are never silently allowed.
func (g Gate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if g.Verifier == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "identity verifier not configured"})
			c.Abort()
			return
		}

		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(strings.ToLower(h), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			c.Abort()
			return
		}

		raw := strings.TrimSpace(h[len("Bearer "):])
		ident, err := g.Verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		if g.AdminEmail != "" && ident.Email != g.AdminEmail {
			c.JSON(http.StatusForbidden, gin.H{"error": "not the admin account"})
			c.Abort()
			return
		}

		c.Set(CtxIdentityKey, ident)
		c.Next()
	}
}

func MustGetIdentity(c *gin.Context) *Identity {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil
	}
	ident, _ := v.(*Identity)
	return ident
}
