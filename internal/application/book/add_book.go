package book

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/book"
)

// AddBookUseCase 创建图书用例
type AddBookUseCase struct {
	bookService book.Service
}

// NewAddBookUseCase 创建用例
func NewAddBookUseCase(bookService book.Service) *AddBookUseCase {
	return &AddBookUseCase{bookService: bookService}
}

// AddBookRequest 创建图书请求
type AddBookRequest struct {
	Title      string
	Author     string
	Genre      string
	CoverImage string // 封面相对路径（接口层已保存文件）
	CreatedBy  uint   // 当前登录用户
}

// Execute 创建图书
func (uc *AddBookUseCase) Execute(ctx context.Context, req AddBookRequest) (*BookInfo, error) {
	b, err := uc.bookService.Create(ctx, book.CreateInput{
		Title:      req.Title,
		Author:     req.Author,
		Genre:      req.Genre,
		CoverImage: req.CoverImage,
		CreatedBy:  req.CreatedBy,
	})
	if err != nil {
		return nil, err
	}

	info := NewBookInfo(b)
	return &info, nil
}
