package domain

import (
	"context"
	"time"
)

type User struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:80;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Slug         string    `gorm:"index;size:191;not null" json:"slug"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Bio          string    `gorm:"type:text" json:"bio,omitempty"`
	Image        string    `gorm:"size:512" json:"image,omitempty"`
	Roles        []Role    `gorm:"many2many:user_roles" json:"roles,omitempty"`
	Posts        []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// RoleNames 用于写入 token claims
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id int) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByName(ctx context.Context, name string) (*User, error)
	SearchByName(ctx context.Context, fragment string) ([]User, error)
	List(ctx context.Context, offset, limit int, q string) ([]User, int64, error)
	Posts(ctx context.Context, id int) ([]Post, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, u *User) error
	ReplaceRoles(ctx context.Context, u *User, roles []Role) error
}
