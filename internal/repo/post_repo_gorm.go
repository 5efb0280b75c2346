package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blog-api/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

var _ domain.PostRepository = (*PostRepo)(nil)

func (r *PostRepo) List(ctx context.Context, f domain.PostFilter) ([]domain.Post, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Post{})
	if c := strings.ToLower(strings.TrimSpace(f.Category)); c != "" {
		tx = tx.Joins("JOIN categories ON categories.id = posts.category_id").
			Where("LOWER(categories.name) LIKE ?", "%"+c+"%")
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var posts []domain.Post
	err := tx.Preload("Category").Preload("Author").
		Order("posts.last_update_date desc").
		Offset(f.Offset).Limit(f.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return posts, total, nil
}

func (r *PostRepo) FindByID(ctx context.Context, id int) (*domain.Post, error) {
	var p domain.Post
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Author.Roles").Preload("Tags").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error)
}

func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error)
}

func (r *PostRepo) Delete(ctx context.Context, id int) (*domain.Post, error) {
	var p domain.Post
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	if err := r.db.WithContext(ctx).Select("Tags").Delete(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}
