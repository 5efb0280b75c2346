package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog-api/internal/domain"
	"blog-api/internal/service"
	"blog-api/internal/transport/http/ez"
	mdw "blog-api/internal/transport/http/middleware"
)

type usersAdminModule struct {
	svc *service.AdminService
	log *zap.Logger
}

type adminListQ struct {
	Offset int    `form:"offset,default=0" binding:"gte=0"`
	Limit  int    `form:"limit,default=50" binding:"gte=0"`
	Q      string `form:"q"` // 按 email/name 模糊搜
}

type adminRow struct {
	ID    int      `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
}

type adminListOut struct {
	Total int64      `json:"total"`
	Items []adminRow `json:"items"`
}

type rolesIn struct {
	Roles []string `json:"roles" binding:"required,min=1,dive,min=2,max=40"`
}

func adminErr(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return ez.Invalid([]string{"id must be a positive integer"})
	case errors.Is(err, service.ErrUnknownRole):
		return ez.BadRequest("unknown role")
	case errors.Is(err, domain.ErrNotFound):
		return ez.NotFound("user not found")
	}
	return ez.Internal("", err)
}

func toRow(u domain.User) adminRow {
	return adminRow{ID: u.ID, Email: u.Email, Name: u.Name, Roles: u.RoleNames()}
}

func (m *usersAdminModule) MountAdmin(admin *gin.RouterGroup) {
	e := ez.New(admin, m.log)

	// --- GET /admin/v1/users  用户列表 ---
	ez.RegisterAction(e, ez.Action[adminListQ, adminListOut]{
		Method: http.MethodGet, Path: "/users", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *adminListQ) (adminListOut, error) {
			users, total, err := m.svc.ListUsers(c.Request.Context(), in.Offset, in.Limit, in.Q)
			if err != nil {
				return adminListOut{}, adminErr(err)
			}
			out := adminListOut{Total: total, Items: make([]adminRow, 0, len(users))}
			for _, u := range users {
				out.Items = append(out.Items, toRow(u))
			}
			return out, nil
		},
	})

	// --- PUT /admin/v1/users/:id/roles  整体替换角色 ---
	ez.RegisterAction(e, ez.Action[rolesIn, adminRow]{
		Method: http.MethodPut, Path: "/users/:id/roles", Binder: ez.BindJSON, PathID: true,
		Handler: func(c *gin.Context, in *rolesIn) (adminRow, error) {
			u, err := m.svc.AssignRoles(c.Request.Context(), ez.ID(c), in.Roles)
			if err != nil {
				return adminRow{}, adminErr(err)
			}
			if cl, ok := mdw.ClaimsFrom(c); ok {
				m.log.Info("admin assigned roles", zap.Int("uid", u.ID), zap.String("by", cl.Email))
			}
			return toRow(*u), nil
		},
	})
}
