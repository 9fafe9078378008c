package review

import (
	"context"
)

// Repository 评论仓储接口
type Repository interface {
	// Create 创建评论，(book_id, user_id)重复时返回ErrAlreadyReviewed
	Create(ctx context.Context, review *Review) error

	// FindByID 根据ID查找，不存在返回ErrReviewNotFound
	FindByID(ctx context.Context, id uint) (*Review, error)

	// Update 更新评分和内容
	Update(ctx context.Context, review *Review) error

	// Delete 物理删除
	Delete(ctx context.Context, id uint) error

	// ListByBook 分页查询某本书的评论（按创建时间倒序，填充Reviewer）
	ListByBook(ctx context.Context, bookID uint, page, limit int) ([]*Review, int64, error)

	// DeleteByBook 删除某本书的全部评论，返回删除条数
	DeleteByBook(ctx context.Context, bookID uint) (int64, error)

	// Stats 一次查询得到某本书评论的平均分（未取整）和数量
	Stats(ctx context.Context, bookID uint) (avg float64, count int64, err error)
}
