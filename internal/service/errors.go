package service

import (
	"errors"
	"fmt"

	"blog-api/internal/domain"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrOldPasswordIncorrect = errors.New("old password incorrect")
	ErrConfirmMismatch      = errors.New("confirmation mismatch")
	ErrWeakPassword         = errors.New("password too weak")
	ErrInvalidImage         = errors.New("invalid image")
	ErrAvatarStore          = errors.New("avatar storage failed")
	ErrAvatarPersist        = errors.New("avatar persistence failed")
	ErrInvalidID            = errors.New("id must be greater than zero")

	ErrCategoryNotFound = fmt.Errorf("category %w", domain.ErrNotFound)
	ErrAuthorNotFound   = fmt.Errorf("author %w", domain.ErrNotFound)
	ErrUnknownRole      = errors.New("unknown role")
)
