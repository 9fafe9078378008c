package user

import (
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 用户领域错误定义
var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = apperrors.ErrNotFound.WithMessage("User not found")

	// ErrEmailDuplicate 邮箱已注册
	ErrEmailDuplicate = apperrors.ErrDuplicate.WithMessage("Email already exists")

	// ErrInvalidPassword 密码错误
	ErrInvalidPassword = apperrors.ErrInvalidCredential.WithMessage("Invalid password")

	// ErrInvalidUserID 用户ID格式错误
	ErrInvalidUserID = apperrors.ErrInvalidID.WithMessage("Invalid user id")
)
