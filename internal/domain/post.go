package domain

import (
	"context"
	"time"
)

type Post struct {
	ID             int       `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:160;not null" json:"title"`
	Summary        string    `gorm:"size:255;not null" json:"summary"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	Slug           string    `gorm:"uniqueIndex;size:160;not null" json:"slug"`
	CreateDate     time.Time `json:"createDate"`
	LastUpdateDate time.Time `gorm:"index" json:"lastUpdateDate"`
	CategoryID     int       `gorm:"not null" json:"categoryId"`
	Category       *Category `json:"category,omitempty"`
	AuthorID       int       `gorm:"not null" json:"authorId"`
	Author         *User     `gorm:"constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Tags           []Tag     `gorm:"many2many:post_tags" json:"tags,omitempty"`
}

func (Post) TableName() string { return "posts" }

type PostFilter struct {
	Category string // 分类名模糊匹配（不区分大小写），为空则不过滤
	Offset   int
	Limit    int
}

type PostRepository interface {
	List(ctx context.Context, f PostFilter) ([]Post, int64, error)
	FindByID(ctx context.Context, id int) (*Post, error)
	Create(ctx context.Context, p *Post) error
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id int) (*Post, error)
}
