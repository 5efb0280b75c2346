package domain

import "context"

// Role 权限标签，名称会写进 token 的 roles claim
type Role struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:40;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:40;not null" json:"slug"`
}

func (Role) TableName() string { return "roles" }

type Category struct {
	ID    int    `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:40;not null" json:"name"`
	Slug  string `gorm:"uniqueIndex;size:40;not null" json:"slug"`
	Posts []Post `json:"posts,omitempty"`
}

func (Category) TableName() string { return "categories" }

type Tag struct {
	ID   int    `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:40;not null" json:"name"`
	Slug string `gorm:"uniqueIndex;size:40;not null" json:"slug"`
}

func (Tag) TableName() string { return "tags" }

type RoleRepository interface {
	FindBySlugs(ctx context.Context, slugs []string) ([]Role, error)
}

type CategoryRepository interface {
	FindByName(ctx context.Context, name string) (*Category, error)
}
