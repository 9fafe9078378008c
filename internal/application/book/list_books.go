package book

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// ListBooksUseCase 图书列表查询用例
// 1. 公开接口，游客可访问
// 2. 评分字段直接读取存储值（由评分聚合器维护）
type ListBooksUseCase struct {
	bookService book.Service
}

// NewListBooksUseCase 创建用例
func NewListBooksUseCase(bookService book.Service) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService}
}

// ListBooksRequest 列表查询请求
type ListBooksRequest struct {
	Search  string
	Author  string
	Genre   string
	Page    int
	Limit   int
	Order   string
	OrderBy string
}

// ListBooksResponse 列表查询响应
type ListBooksResponse struct {
	Books []BookInfo
	Total int64
}

// Execute 执行查询
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) (*ListBooksResponse, error) {
	books, total, err := uc.bookService.List(ctx, book.ListParams{
		Search:  req.Search,
		Author:  req.Author,
		Genre:   req.Genre,
		Page:    req.Page,
		Limit:   req.Limit,
		Order:   req.Order,
		OrderBy: req.OrderBy,
	})
	if err != nil {
		return nil, err
	}

	items := make([]BookInfo, len(books))
	for i, b := range books {
		items[i] = NewBookInfo(b)
	}
	return &ListBooksResponse{Books: items, Total: total}, nil
}
