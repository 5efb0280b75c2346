package middleware

import (
	"github.com/gin-gonic/gin"

	"blog-api/internal/core/metrics"
	resp "blog-api/internal/transport/http/response"
)

type Decision struct {
	Allow  bool
	Status int
	Reason string
}

func Allow() Decision { return Decision{Allow: true} }

func Deny(status int, reason string) Decision {
	return Decision{Status: status, Reason: reason}
}

// Guard 请求前置检查，与用户身份无关的和基于 token 的都可以组合
type Guard struct {
	Name  string
	Check func(c *gin.Context) Decision
}

// Guards 按顺序执行，第一个拒绝即中止
func Guards(gs ...Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, g := range gs {
			d := g.Check(c)
			if d.Allow {
				continue
			}
			metrics.GateRejections.WithLabelValues(g.Name, statusLabel(d.Status)).Inc()
			c.AbortWithStatusJSON(d.Status, resp.Error(d.Status, d.Reason))
			return
		}
		c.Next()
	}
}

func statusLabel(s int) string {
	switch s {
	case 401:
		return "401"
	case 403:
		return "403"
	}
	return "other"
}
