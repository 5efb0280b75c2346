package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"blog-api/internal/domain"
	"blog-api/internal/service"
	"blog-api/internal/transport/http/ez"
	resp "blog-api/internal/transport/http/response"
)

type postsModule struct {
	svc    *service.PostService
	apiKey gin.HandlerFunc
	log    *zap.Logger
}

func (*postsModule) Priority() int { return 20 }

type pageQ struct {
	Page     int `form:"page" binding:"gte=0"`
	PageSize int `form:"pageSize" binding:"gte=0"`
}

type postIn struct {
	Title    string `json:"title" binding:"required,min=3,max=100"`
	Summary  string `json:"summary" binding:"required,min=10,max=200"`
	Body     string `json:"body" binding:"required,min=10,max=1000"`
	Category string `json:"category" binding:"required"`
	Author   string `json:"author" binding:"required"`
}

type postUpdateIn struct {
	Title   string `json:"title" binding:"required,min=3,max=100"`
	Summary string `json:"summary" binding:"required,min=10,max=200"`
	Body    string `json:"body" binding:"required,min=10,max=1000"`
	Slug    string `json:"slug" binding:"required,min=3,max=40"`
}

func postErr(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		return ez.Invalid([]string{"id must be a positive integer"})
	case errors.Is(err, service.ErrCategoryNotFound):
		return ez.NotFound("category not found")
	case errors.Is(err, service.ErrAuthorNotFound):
		return ez.NotFound("author not found")
	case errors.Is(err, domain.ErrNotFound):
		return ez.NotFound("post not found")
	case errors.Is(err, domain.ErrConflict):
		return ez.Coded(http.StatusBadRequest, resp.ErrCodeConflict, "post slug already exists")
	}
	return ez.Internal("", err)
}

func (m *postsModule) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api.Group("/posts"), m.log)
	write := []gin.HandlerFunc{m.apiKey}

	ez.RegisterAction(e, ez.Action[pageQ, *service.PostPage]{
		Method: http.MethodGet, Path: "", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (*service.PostPage, error) {
			out, err := m.svc.List(c.Request.Context(), in.Page, in.PageSize)
			if err != nil {
				return nil, postErr(err)
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[pageQ, *service.PostPage]{
		Method: http.MethodGet, Path: "/category/:category", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *pageQ) (*service.PostPage, error) {
			out, err := m.svc.ByCategory(c.Request.Context(), c.Param("category"), in.Page, in.PageSize)
			if err != nil {
				return nil, postErr(err)
			}
			return out, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Post]{
		Method: http.MethodGet, Path: "/:id", Binder: ez.BindNone, PathID: true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Post, error) {
			p, err := m.svc.Get(c.Request.Context(), ez.ID(c))
			if err != nil {
				return nil, postErr(err)
			}
			return p, nil
		},
	})

	ez.RegisterAction(e, ez.Action[postIn, *domain.Post]{
		Method: http.MethodPost, Path: "", Binder: ez.BindJSON, Status: http.StatusCreated,
		Guards: write,
		Handler: func(c *gin.Context, in *postIn) (*domain.Post, error) {
			p, err := m.svc.Create(c.Request.Context(), service.PostInput{
				Title: in.Title, Summary: in.Summary, Body: in.Body,
				Category: in.Category, Author: in.Author,
			})
			if err != nil {
				return nil, postErr(err)
			}
			return p, nil
		},
	})

	ez.RegisterAction(e, ez.Action[postUpdateIn, *domain.Post]{
		Method: http.MethodPut, Path: "/:id", Binder: ez.BindJSON, PathID: true,
		Guards: write,
		Handler: func(c *gin.Context, in *postUpdateIn) (*domain.Post, error) {
			p, err := m.svc.Update(c.Request.Context(), ez.ID(c), service.PostUpdate{
				Title: in.Title, Summary: in.Summary, Body: in.Body, Slug: in.Slug,
			})
			if err != nil {
				return nil, postErr(err)
			}
			return p, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Post]{
		Method: http.MethodDelete, Path: "/:id", Binder: ez.BindNone, PathID: true,
		Guards: write,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Post, error) {
			p, err := m.svc.Delete(c.Request.Context(), ez.ID(c))
			if err != nil {
				return nil, postErr(err)
			}
			return p, nil
		},
	})
}
