package book

import (
	"context"
)

// Repository 图书仓储接口（依赖倒置原则）
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书，不存在返回ErrBookNotFound
	FindByID(ctx context.Context, id uint) (*Book, error)

	// List 分页查询图书列表（填充Creator）
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书（SELECT ... FOR UPDATE）
	// 必须在事务中调用，用于串行化同一本书的评分重算
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateRating 整体替换评分统计（averageRating为nil表示没有评论）
	UpdateRating(ctx context.Context, id uint, averageRating *float64, reviewsCount int64) error

	// Delete 删除图书（物理删除），不存在返回ErrBookNotFound
	Delete(ctx context.Context, id uint) error
}

// ListParams 列表查询参数
type ListParams struct {
	Search  string // 在书名、作者、类型中模糊搜索（OR，不区分大小写）
	Author  string // 作者过滤（与Search为AND关系）
	Genre   string // 类型过滤（与Search为AND关系）
	Page    int    // 页码（从1开始）
	Limit   int    // 每页数量
	Order   string // asc | desc（默认desc）
	OrderBy string // 排序字段，见SortFields
}

// SortFields 允许排序的字段（API字段名 → 列名）
var SortFields = map[string]string{
	"id":            "id",
	"title":         "title",
	"author":        "author",
	"genre":         "genre",
	"coverImage":    "cover_image",
	"averageRating": "average_rating",
	"reviewsCount":  "reviews_count",
	"createdBy":     "created_by",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

// DefaultSortField 默认排序字段
const DefaultSortField = "createdAt"
