package middleware

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "blog-api/internal/transport/http/response"
)

// Recovery panic 记录堆栈后返回 500 信封
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			resp.Fail(resp.CodeServerError, resp.ErrCodeInternal, "internal error", nil))
	})
}
