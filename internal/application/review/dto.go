package review

import (
	"time"

	"github.com/xiebiao/bookreview/internal/domain/review"
)

// ReviewInfo 评论DTO
type ReviewInfo struct {
	ID        uint          `json:"id"`
	BookID    uint          `json:"bookId"`
	UserID    uint          `json:"userId"`
	User      *ReviewerInfo `json:"user,omitempty"` // 图书详情中填充
	Rating    int           `json:"rating"`
	Comment   string        `json:"comment"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// ReviewerInfo 评论者公开信息
type ReviewerInfo struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewReviewInfo 领域实体 → DTO
func NewReviewInfo(r *review.Review) ReviewInfo {
	info := ReviewInfo{
		ID:        r.ID,
		BookID:    r.BookID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.Reviewer != nil {
		info.User = &ReviewerInfo{
			ID:    r.Reviewer.ID,
			Name:  r.Reviewer.Name,
			Email: r.Reviewer.Email,
		}
	}
	return info
}
