package review

import (
	"time"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review 评论实体
// 业务规则：
// 1. 每个用户对每本书最多一条评论（由数据库唯一索引(book_id, user_id)保证）
// 2. 评分为1-5的整数
// 3. 只有作者可以修改或删除
type Review struct {
	ID        uint
	BookID    uint
	UserID    uint
	Rating    int
	Comment   string
	Reviewer  *Reviewer // 图书详情中填充
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Reviewer 评论者公开信息
type Reviewer struct {
	ID    uint
	Name  string
	Email string
}

// NewReview 创建评论（工厂方法）
func NewReview(bookID, userID uint, rating int, comment string) *Review {
	now := time.Now()
	return &Review{
		BookID:    bookID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ValidateRating 校验评分范围
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return apperrors.Validation("Review validation failed: rating must be between 1 and 5")
	}
	return nil
}

// IsAuthoredBy 是否由指定用户撰写
func (r *Review) IsAuthoredBy(userID uint) bool {
	return r.UserID == userID
}

// Apply 部分更新（nil字段保持不变）
func (r *Review) Apply(rating *int, comment *string) error {
	if rating != nil {
		if err := ValidateRating(*rating); err != nil {
			return err
		}
		r.Rating = *rating
	}
	if comment != nil {
		r.Comment = *comment
	}
	r.UpdatedAt = time.Now()
	return nil
}
