package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"blog-api/internal/domain"
	"blog-api/pkg/utils"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

type PostSummary struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	LastUpdateDate time.Time `json:"lastUpdateDate"`
	Category       string    `json:"category"`
	Author         string    `json:"author"`
}

type PostPage struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Posts    []PostSummary `json:"posts"`
}

type PostInput struct {
	Title    string
	Summary  string
	Body     string
	Category string
	Author   string
}

type PostUpdate struct {
	Title   string
	Summary string
	Body    string
	Slug    string
}

type PostService struct {
	posts      domain.PostRepository
	categories domain.CategoryRepository
	users      domain.UserRepository
	now        func() time.Time
}

func NewPostService(posts domain.PostRepository, categories domain.CategoryRepository, users domain.UserRepository) *PostService {
	return &PostService{posts: posts, categories: categories, users: users, now: time.Now}
}

func clampPage(page, size int) (int, int) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func summarize(p domain.Post) PostSummary {
	s := PostSummary{ID: p.ID, Title: p.Title, Slug: p.Slug, LastUpdateDate: p.LastUpdateDate}
	if p.Category != nil {
		s.Category = p.Category.Name
	}
	if p.Author != nil {
		s.Author = fmt.Sprintf("%s (%s)", p.Author.Name, p.Author.Email)
	}
	return s
}

func (s *PostService) list(ctx context.Context, category string, page, size int) (*PostPage, error) {
	page, size = clampPage(page, size)
	rows, total, err := s.posts.List(ctx, domain.PostFilter{Category: category, Offset: page * size, Limit: size})
	if err != nil {
		return nil, err
	}
	out := &PostPage{Total: total, Page: page, PageSize: size, Posts: make([]PostSummary, 0, len(rows))}
	for _, p := range rows {
		out.Posts = append(out.Posts, summarize(p))
	}
	return out, nil
}

func (s *PostService) List(ctx context.Context, page, size int) (*PostPage, error) {
	return s.list(ctx, "", page, size)
}

// ByCategory 无结果时 ErrNotFound
func (s *PostService) ByCategory(ctx context.Context, category string, page, size int) (*PostPage, error) {
	out, err := s.list(ctx, category, page, size)
	if err != nil {
		return nil, err
	}
	if out.Total == 0 {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (s *PostService) Get(ctx context.Context, id int) (*domain.Post, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.posts.FindByID(ctx, id)
}

func (s *PostService) Create(ctx context.Context, in PostInput) (*domain.Post, error) {
	cat, err := s.categories.FindByName(ctx, in.Category)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	author, err := s.users.FindByName(ctx, in.Author)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}
	now := s.now().UTC()
	p := &domain.Post{
		Title:          strings.TrimSpace(in.Title),
		Summary:        strings.TrimSpace(in.Summary),
		Body:           in.Body,
		Slug:           utils.TitleSlug(in.Title),
		CreateDate:     now,
		LastUpdateDate: now,
		CategoryID:     cat.ID,
		AuthorID:       author.ID,
	}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	p.Category = cat
	p.Author = author
	return p, nil
}

func (s *PostService) Update(ctx context.Context, id int, in PostUpdate) (*domain.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Title = strings.TrimSpace(in.Title)
	p.Summary = strings.TrimSpace(in.Summary)
	p.Body = in.Body
	p.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	p.LastUpdateDate = s.now().UTC()
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id int) (*domain.Post, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	return s.posts.Delete(ctx, id)
}
