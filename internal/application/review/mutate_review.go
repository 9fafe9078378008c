package review

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookreview/pkg/metrics"
)

// 评论变更动作（metrics标签）
const (
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
)

// mutation 评论变更的公共流程
// 1. 事务内第一条语句锁定图书行，之后的读取都能看到已提交的并发变更
// 2. 在同一事务中执行变更并重算评分，重算失败时变更一起回滚
// 3. 提交之后发布评分变更事件（尽力而为）
type mutation struct {
	txManager  *mysql.TxManager
	aggregator *rating.Aggregator
}

// run 对bookID执行变更
func (m mutation) run(ctx context.Context, action string, bookID uint, fn func(ctx context.Context) error) (err error) {
	defer func() { metrics.IncReviewMutation(action, err) }()

	var summary rating.Summary
	err = m.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := m.aggregator.Lock(ctx, bookID); err != nil {
			return err
		}
		if err := fn(ctx); err != nil {
			return err
		}
		var err error
		summary, err = m.aggregator.Recalculate(ctx, bookID)
		return err
	})
	if err != nil {
		return err
	}

	m.aggregator.Announce(ctx, bookID, summary)
	return nil
}

// =========================================
// 创建评论
// =========================================

// CreateReviewUseCase 创建评论用例
type CreateReviewUseCase struct {
	mutation
	reviewService review.Service
}

// NewCreateReviewUseCase 创建用例
func NewCreateReviewUseCase(
	txManager *mysql.TxManager,
	reviewService review.Service,
	aggregator *rating.Aggregator,
) *CreateReviewUseCase {
	return &CreateReviewUseCase{
		mutation:      mutation{txManager: txManager, aggregator: aggregator},
		reviewService: reviewService,
	}
}

// CreateReviewRequest 创建评论请求
type CreateReviewRequest struct {
	BookID  uint
	UserID  uint // 从鉴权中间件获取
	Rating  int
	Comment string
}

// Execute 创建评论
// 1. 图书不存在返回404（锁定图书时确认）
// 2. 评分不在1-5之间返回ValidationError
// 3. 重复评论返回409
func (uc *CreateReviewUseCase) Execute(ctx context.Context, req CreateReviewRequest) (*ReviewInfo, error) {
	var created *review.Review
	err := uc.run(ctx, actionCreate, req.BookID, func(ctx context.Context) error {
		r, err := uc.reviewService.Create(ctx, req.BookID, req.UserID, req.Rating, req.Comment)
		if err != nil {
			return err
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	info := NewReviewInfo(created)
	return &info, nil
}

// =========================================
// 更新评论
// =========================================

// UpdateReviewUseCase 更新评论用例
type UpdateReviewUseCase struct {
	mutation
	reviewService review.Service
}

// NewUpdateReviewUseCase 创建用例
func NewUpdateReviewUseCase(
	txManager *mysql.TxManager,
	reviewService review.Service,
	aggregator *rating.Aggregator,
) *UpdateReviewUseCase {
	return &UpdateReviewUseCase{
		mutation:      mutation{txManager: txManager, aggregator: aggregator},
		reviewService: reviewService,
	}
}

// UpdateReviewRequest 更新评论请求（nil字段保持不变）
type UpdateReviewRequest struct {
	ReviewID uint
	UserID   uint
	Rating   *int
	Comment  *string
}

// Execute 部分更新评论（仅作者）
// 评论所属图书不会变化，事务外先查出bookID用于加锁
func (uc *UpdateReviewUseCase) Execute(ctx context.Context, req UpdateReviewRequest) (*ReviewInfo, error) {
	current, err := uc.reviewService.Get(ctx, req.ReviewID)
	if err != nil {
		return nil, err
	}

	var updated *review.Review
	err = uc.run(ctx, actionUpdate, current.BookID, func(ctx context.Context) error {
		r, err := uc.reviewService.Update(ctx, req.ReviewID, req.UserID, req.Rating, req.Comment)
		if err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	info := NewReviewInfo(updated)
	return &info, nil
}

// =========================================
// 删除评论
// =========================================

// DeleteReviewUseCase 删除评论用例
type DeleteReviewUseCase struct {
	mutation
	reviewService review.Service
}

// NewDeleteReviewUseCase 创建用例
func NewDeleteReviewUseCase(
	txManager *mysql.TxManager,
	reviewService review.Service,
	aggregator *rating.Aggregator,
) *DeleteReviewUseCase {
	return &DeleteReviewUseCase{
		mutation:      mutation{txManager: txManager, aggregator: aggregator},
		reviewService: reviewService,
	}
}

// Execute 删除评论（仅作者）
func (uc *DeleteReviewUseCase) Execute(ctx context.Context, reviewID, userID uint) error {
	current, err := uc.reviewService.Get(ctx, reviewID)
	if err != nil {
		return err
	}

	return uc.run(ctx, actionDelete, current.BookID, func(ctx context.Context) error {
		_, err := uc.reviewService.Delete(ctx, reviewID, userID)
		return err
	})
}
