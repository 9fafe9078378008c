package book

import (
	"context"

	appreview "github.com/xiebiao/bookreview/internal/application/review"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/internal/domain/review"
)

// GetBookUseCase 图书详情用例
// 评分统计与存储字段使用同一个Summarize计算，详情中两处取值一致
type GetBookUseCase struct {
	bookService   book.Service
	reviewService review.Service
	aggregator    *rating.Aggregator
}

// NewGetBookUseCase 创建用例
func NewGetBookUseCase(bookService book.Service, reviewService review.Service, aggregator *rating.Aggregator) *GetBookUseCase {
	return &GetBookUseCase{
		bookService:   bookService,
		reviewService: reviewService,
		aggregator:    aggregator,
	}
}

// GetBookRequest 详情请求（Page、Limit为评论分页，默认1和5）
type GetBookRequest struct {
	ID    uint
	Page  int
	Limit int
}

// BookDetail 图书详情
type BookDetail struct {
	Book          BookInfo               `json:"book"`
	AverageRating *float64               `json:"averageRating"`
	TotalReviews  int64                  `json:"totalReviews"`
	Reviews       []appreview.ReviewInfo `json:"reviews"`
}

// Execute 查询详情
func (uc *GetBookUseCase) Execute(ctx context.Context, req GetBookRequest) (*BookDetail, error) {
	// 1. 查询图书
	b, err := uc.bookService.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	// 2. 评论分页（最新在前）
	reviews, total, err := uc.reviewService.ListByBook(ctx, b.ID, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	// 3. 评分统计
	summary, err := uc.aggregator.Summarize(ctx, b.ID)
	if err != nil {
		return nil, err
	}

	info := NewBookInfo(b)
	info.AverageRating = summary.AverageRating
	info.ReviewsCount = summary.Count

	items := make([]appreview.ReviewInfo, len(reviews))
	for i, r := range reviews {
		items[i] = appreview.NewReviewInfo(r)
	}

	return &BookDetail{
		Book:          info,
		AverageRating: summary.AverageRating,
		TotalReviews:  total,
		Reviews:       items,
	}, nil
}
