package book

import (
	"strings"
	"time"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// Book 图书实体（聚合根）
// DDD设计说明：
// 1. AverageRating和ReviewsCount是评论集合的冗余统计，只由评分聚合器写入
// 2. AverageRating为nil表示还没有评论
// 3. CreatedBy是创建者用户ID，只有创建者可以删除
type Book struct {
	ID            uint
	Title         string
	Author        string
	Genre         string
	CoverImage    string // 相对URL路径，默认空
	AverageRating *float64
	ReviewsCount  int64
	CreatedBy     uint
	Creator       *Creator // 列表查询时填充
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Creator 创建者的公开信息
type Creator struct {
	ID          uint
	Name        string
	Email       string
	PhoneNumber string
}

// NewBook 创建新图书（工厂方法）
func NewBook(title, author, genre, coverImage string, createdBy uint) *Book {
	now := time.Now()
	return &Book{
		Title:      strings.TrimSpace(title),
		Author:     strings.TrimSpace(author),
		Genre:      strings.TrimSpace(genre),
		CoverImage: coverImage,
		CreatedBy:  createdBy,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Validate 校验必填字段
// 注意：缺失字段返回ValidationError（以500返回，保持原有行为）
func (b *Book) Validate() error {
	var missing []string
	if b.Title == "" {
		missing = append(missing, "title")
	}
	if b.Author == "" {
		missing = append(missing, "author")
	}
	if b.CreatedBy == 0 {
		missing = append(missing, "createdBy")
	}
	if len(missing) > 0 {
		return apperrors.Validation("Book validation failed: " + strings.Join(missing, ", ") + " required")
	}
	return nil
}

// IsOwnedBy 检查图书是否由指定用户创建
func (b *Book) IsOwnedBy(userID uint) bool {
	return b.CreatedBy == userID
}
