package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-api/internal/core/config"
)

// APIKeyGuard 缺参数 401，不匹配 403；配置值为空时永远不匹配
func APIKeyGuard(k config.APIKey) Guard {
	want := []byte(k.Value)
	return Guard{
		Name: "apikey",
		Check: func(c *gin.Context) Decision {
			got, ok := c.GetQuery(k.Name)
			if !ok {
				return Deny(http.StatusUnauthorized, "unauthenticated")
			}
			if len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				return Deny(http.StatusForbidden, "forbidden")
			}
			return Allow()
		},
	}
}

func APIKey(k config.APIKey) gin.HandlerFunc { return Guards(APIKeyGuard(k)) }
