package rating

import (
	"context"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/pkg/metrics"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// Summary 某本书的评分统计
// AverageRating为nil表示没有评论（此时Count为0）
type Summary struct {
	AverageRating *float64
	Count         int64
}

// StatsSource 评论统计来源（review.Repository实现）
type StatsSource interface {
	Stats(ctx context.Context, bookID uint) (avg float64, count int64, err error)
}

// BookStore 图书评分写入端（book.Repository实现）
type BookStore interface {
	LockByID(ctx context.Context, id uint) (*book.Book, error)
	UpdateRating(ctx context.Context, id uint, averageRating *float64, reviewsCount int64) error
}

// Aggregator 评分聚合器
// 设计说明：
// 1. 每次评论变更后全量重算（不做增量），结果整体替换图书上的两个冗余字段
// 2. Recalculate必须在评论变更的同一事务中调用：先锁定图书行，
//    同一本书的并发变更因此串行化，不会出现丢失更新
// 3. 图书详情的实时评分与存储字段使用同一个Summarize计算
type Aggregator struct {
	reviews   StatsSource
	books     BookStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewAggregator 创建评分聚合器
// publisher可以为nil（未启用消息队列）
func NewAggregator(reviews StatsSource, books BookStore, publisher EventPublisher, logger *zap.Logger) *Aggregator {
	return &Aggregator{
		reviews:   reviews,
		books:     books,
		publisher: publisher,
		logger:    logger,
	}
}

// Summarize 计算评分统计（一次AVG/COUNT查询）
func (a *Aggregator) Summarize(ctx context.Context, bookID uint) (Summary, error) {
	avg, count, err := a.reviews.Stats(ctx, bookID)
	if err != nil {
		return Summary{}, err
	}

	if count == 0 {
		return Summary{}, nil
	}

	rounded := Round2(avg)
	return Summary{AverageRating: &rounded, Count: count}, nil
}

// Lock 锁定图书行（SELECT ... FOR UPDATE），图书不存在返回book.ErrBookNotFound
// 须作为事务的第一条语句执行：MySQL可重复读的快照在第一次普通读取时建立
func (a *Aggregator) Lock(ctx context.Context, bookID uint) error {
	_, err := a.books.LockByID(ctx, bookID)
	return err
}

// Recalculate 重算并写回图书的评分统计
// 流程：
// 1. SELECT ... FOR UPDATE锁定图书行
// 2. Summarize读取当前评论集合
// 3. UpdateRating整体替换averageRating和reviewsCount
func (a *Aggregator) Recalculate(ctx context.Context, bookID uint) (summary Summary, err error) {
	ctx, span := tracing.StartSpan(ctx, "rating", "rating.Recalculate")
	span.SetAttributes(attribute.Int64("book.id", int64(bookID)))
	start := time.Now()
	defer func() {
		metrics.ObserveRecalculation(time.Since(start), err)
		tracing.EndSpan(span, err)
	}()

	// 1. 锁定图书行
	if _, err = a.books.LockByID(ctx, bookID); err != nil {
		return Summary{}, err
	}

	// 2. 计算统计
	summary, err = a.Summarize(ctx, bookID)
	if err != nil {
		return Summary{}, err
	}

	// 3. 写回
	if err = a.books.UpdateRating(ctx, bookID, summary.AverageRating, summary.Count); err != nil {
		return Summary{}, err
	}

	a.logger.Debug("评分已重算",
		zap.Uint("book_id", bookID),
		zap.Int64("reviews_count", summary.Count),
	)
	return summary, nil
}

// Announce 发布评分变更事件（事务提交之后调用）
// 尽力而为：发布失败只记录日志
func (a *Aggregator) Announce(ctx context.Context, bookID uint, summary Summary) {
	if a.publisher == nil {
		return
	}

	event := NewRatingUpdated(bookID, summary, time.Now())
	err := a.publisher.Publish(ctx, RoutingKeyRatingUpdated, event)
	metrics.IncPublished(RoutingKeyRatingUpdated, err)
	if err != nil {
		a.logger.Warn("评分变更事件发布失败",
			zap.Uint("book_id", bookID),
			zap.Error(err),
		)
	}
}

// Round2 保留两位小数（四舍五入，远离零）
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
