package router

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog-api/internal/domain"
	"blog-api/internal/service"
	"blog-api/internal/transport/http/ez"
)

// categories / tags / roles 共用同一套 CRUD
type taxonomyModule struct {
	categories *service.CachedCategories
	tags       ez.Store[domain.Tag]
	roles      ez.Store[domain.Role]
	apiKey     gin.HandlerFunc
	log        *zap.Logger
}

func (*taxonomyModule) Priority() int { return 30 }

type taxonomyIn struct {
	Name string `json:"name" binding:"required,min=2,max=40"`
	Slug string `json:"slug" binding:"required,min=2,max=40"`
}

func (in *taxonomyIn) fields() (string, string) {
	return strings.TrimSpace(in.Name), strings.ToLower(strings.TrimSpace(in.Slug))
}

func (m *taxonomyModule) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api, m.log)
	write := []gin.HandlerFunc{m.apiKey}

	ez.Crud(e, ez.CrudConfig[domain.Category, taxonomyIn]{
		Path: "/categories", Store: m.categories, Name: "category", WriteGuards: write,
		Apply: func(in *taxonomyIn, c *domain.Category) { c.Name, c.Slug = in.fields() },
	})
	ez.Crud(e, ez.CrudConfig[domain.Tag, taxonomyIn]{
		Path: "/tags", Store: m.tags, Name: "tag", WriteGuards: write,
		Apply: func(in *taxonomyIn, t *domain.Tag) { t.Name, t.Slug = in.fields() },
	})
	ez.Crud(e, ez.CrudConfig[domain.Role, taxonomyIn]{
		Path: "/roles", Store: m.roles, Name: "role", WriteGuards: write,
		Apply: func(in *taxonomyIn, r *domain.Role) { r.Name, r.Slug = in.fields() },
	})
}
