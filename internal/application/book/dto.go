package book

import (
	"time"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// BookInfo 图书DTO
type BookInfo struct {
	ID            uint         `json:"id"`
	Title         string       `json:"title"`
	Author        string       `json:"author"`
	Genre         string       `json:"genre"`
	CoverImage    string       `json:"coverImage"`
	AverageRating *float64     `json:"averageRating"`
	ReviewsCount  int64        `json:"reviewsCount"`
	CreatedBy     uint         `json:"createdBy"`
	Creator       *CreatorInfo `json:"creator,omitempty"` // 列表中填充
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// CreatorInfo 创建者公开信息
type CreatorInfo struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// NewBookInfo 领域实体 → DTO
func NewBookInfo(b *book.Book) BookInfo {
	info := BookInfo{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		CoverImage:    b.CoverImage,
		AverageRating: b.AverageRating,
		ReviewsCount:  b.ReviewsCount,
		CreatedBy:     b.CreatedBy,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.Creator != nil {
		info.Creator = &CreatorInfo{
			ID:          b.Creator.ID,
			Name:        b.Creator.Name,
			Email:       b.Creator.Email,
			PhoneNumber: b.Creator.PhoneNumber,
		}
	}
	return info
}
