package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blog-api/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error)
}

func (r *UserRepo) FindByID(ctx context.Context, id int) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindByEmail 带出角色，签发 token 需要
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Preload("Roles").
		First(&u, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) FindByName(ctx context.Context, name string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "LOWER(name) = ?", strings.ToLower(name)).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepo) SearchByName(ctx context.Context, fragment string) ([]domain.User, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(fragment)+"%").
		Order("id desc").
		Find(&users).Error
	if err != nil {
		return nil, translate(err)
	}
	return users, nil
}

// List limit <= 0 表示不分页；q 按名字或邮箱模糊匹配
func (r *UserRepo) List(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	if q = strings.ToLower(strings.TrimSpace(q)); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR email LIKE ?", like, like)
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	if limit > 0 {
		tx = tx.Offset(offset).Limit(limit)
	}
	var users []domain.User
	if err := tx.Preload("Roles").Order("id desc").Find(&users).Error; err != nil {
		return nil, 0, translate(err)
	}
	return users, total, nil
}

func (r *UserRepo) Posts(ctx context.Context, id int) ([]domain.Post, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}
	var posts []domain.Post
	err := r.db.WithContext(ctx).Preload("Category").
		Where("author_id = ?", id).
		Order("last_update_date desc").
		Find(&posts).Error
	if err != nil {
		return nil, translate(err)
	}
	return posts, nil
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error)
}

// Delete 同时清理 user_roles；posts 由外键级联
func (r *UserRepo) Delete(ctx context.Context, u *domain.User) error {
	return translate(r.db.WithContext(ctx).Select("Roles").Delete(u).Error)
}

func (r *UserRepo) ReplaceRoles(ctx context.Context, u *domain.User, roles []domain.Role) error {
	if err := r.db.WithContext(ctx).Model(u).Association("Roles").Replace(roles); err != nil {
		return translate(err)
	}
	u.Roles = roles
	return nil
}
