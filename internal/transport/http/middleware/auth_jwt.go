package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-api/internal/core/auth"
)

const (
	KeyClaims = "claims"
	KeyUserID = "userId"
)

// JWTGuard requireRole 为空时只校验签名与过期
func JWTGuard(j *auth.JWTer, requireRole string) Guard {
	return Guard{
		Name: "jwt",
		Check: func(c *gin.Context) Decision {
			ah := c.GetHeader("Authorization")
			if !strings.HasPrefix(ah, "Bearer ") {
				return Deny(http.StatusUnauthorized, "missing token")
			}
			claims, err := j.Parse(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
			if err != nil {
				return Deny(http.StatusUnauthorized, "invalid token")
			}
			if requireRole != "" && !claims.HasRole(requireRole) {
				return Deny(http.StatusForbidden, "forbidden")
			}
			c.Set(KeyClaims, claims)
			c.Set(KeyUserID, claims.UID)
			return Allow()
		},
	}
}

func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return Guards(JWTGuard(j, requireRole))
}

func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*auth.Claims)
	return cl, ok
}
