package book

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/mysql"
)

// DeleteBookUseCase 删除图书用例
// 图书和它的全部评论在同一事务中删除
type DeleteBookUseCase struct {
	txManager   *mysql.TxManager
	bookService book.Service
	reviewRepo  review.Repository
	logger      *zap.Logger
}

// NewDeleteBookUseCase 创建用例
func NewDeleteBookUseCase(
	txManager *mysql.TxManager,
	bookService book.Service,
	reviewRepo review.Repository,
	logger *zap.Logger,
) *DeleteBookUseCase {
	return &DeleteBookUseCase{
		txManager:   txManager,
		bookService: bookService,
		reviewRepo:  reviewRepo,
		logger:      logger,
	}
}

// Execute 删除图书（仅创建者）
// 不存在和非创建者都返回ErrDeleteDenied
func (uc *DeleteBookUseCase) Execute(ctx context.Context, id, userID uint) error {
	var removed int64
	err := uc.txManager.Transaction(ctx, func(ctx context.Context) error {
		// 1. 校验归属并删除图书
		if err := uc.bookService.Delete(ctx, id, userID); err != nil {
			return err
		}

		// 2. 级联删除评论
		n, err := uc.reviewRepo.DeleteByBook(ctx, id)
		if err != nil {
			return err
		}
		removed = n
		return nil
	})
	if err != nil {
		return err
	}

	uc.logger.Info("图书已删除",
		zap.Uint("book_id", id),
		zap.Uint("user_id", userID),
		zap.Int64("reviews_removed", removed),
	)
	return nil
}
