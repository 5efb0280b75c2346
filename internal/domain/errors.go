package domain

import "errors"

// 存储层统一错误，调用方用 errors.Is 分支
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("unique constraint violated")
)
