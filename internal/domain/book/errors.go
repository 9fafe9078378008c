package book

import (
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在
	ErrBookNotFound = apperrors.ErrNotFound.WithMessage("Book not found")

	// ErrInvalidBookID 图书ID格式错误
	ErrInvalidBookID = apperrors.ErrInvalidID.WithMessage("Invalid book id")

	// ErrDeleteDenied 删除失败：不存在、ID非法、非创建者统一返回此错误（不暴露图书是否存在）
	ErrDeleteDenied = apperrors.ErrNotFound.WithMessage("Book not found or you don't have permission to delete it")
)
