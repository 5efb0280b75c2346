package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"blog-api/internal/domain"
)

type AdminService struct {
	users domain.UserRepository
	roles domain.RoleRepository
	log   *zap.Logger
}

func NewAdminService(users domain.UserRepository, roles domain.RoleRepository, l *zap.Logger) *AdminService {
	return &AdminService{users: users, roles: roles, log: l}
}

const maxAdminPage = 200

func (s *AdminService) ListUsers(ctx context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > maxAdminPage {
		limit = 50
	}
	return s.users.List(ctx, offset, limit, q)
}

// AssignRoles 整体替换用户角色
func (s *AdminService) AssignRoles(ctx context.Context, id int, slugs []string) (*domain.User, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	roles, err := s.roles.FindBySlugs(ctx, slugs)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUnknownRole
		}
		return nil, err
	}
	if err := s.users.ReplaceRoles(ctx, u, roles); err != nil {
		return nil, err
	}
	s.log.Info("roles replaced", zap.Int("uid", id), zap.Strings("roles", u.RoleNames()))
	return u, nil
}
