package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"blog-api/internal/domain"
)

type RoleRepo struct {
	*CRUD[domain.Role]
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) *RoleRepo { return &RoleRepo{CRUD: NewCRUD[domain.Role](db), db: db} }

// FindBySlugs 任一 slug 不存在即 ErrNotFound
func (r *RoleRepo) FindBySlugs(ctx context.Context, slugs []string) ([]domain.Role, error) {
	if len(slugs) == 0 {
		return []domain.Role{}, nil
	}
	want := make(map[string]struct{}, len(slugs))
	norm := make([]string, 0, len(slugs))
	for _, s := range slugs {
		s = strings.ToLower(strings.TrimSpace(s))
		if _, ok := want[s]; ok {
			continue
		}
		want[s] = struct{}{}
		norm = append(norm, s)
	}
	var roles []domain.Role
	if err := r.db.WithContext(ctx).Where("slug IN ?", norm).Order("id").Find(&roles).Error; err != nil {
		return nil, translate(err)
	}
	if len(roles) != len(norm) {
		return nil, domain.ErrNotFound
	}
	return roles, nil
}

type CategoryRepo struct {
	*CRUD[domain.Category]
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{CRUD: NewCRUD[domain.Category](db), db: db}
}

func (r *CategoryRepo) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	var c domain.Category
	err := r.db.WithContext(ctx).First(&c, "LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}
