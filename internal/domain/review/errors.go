package review

import (
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// 评论领域错误定义
var (
	// ErrReviewNotFound 评论不存在
	ErrReviewNotFound = apperrors.ErrNotFound.WithMessage("Review not found")

	// ErrInvalidReviewID 评论ID格式错误
	ErrInvalidReviewID = apperrors.ErrInvalidID.WithMessage("Invalid review id")

	// ErrAlreadyReviewed 同一用户重复评论同一本书
	ErrAlreadyReviewed = apperrors.ErrDuplicate.WithMessage("You have already reviewed this book")

	// ErrNotAuthor 非作者修改或删除评论
	ErrNotAuthor = apperrors.ErrForbidden.WithMessage("Not authorized")
)
