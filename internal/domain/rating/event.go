package rating

import (
	"context"
	"time"
)

// RoutingKeyRatingUpdated 评分变更事件的路由键
const RoutingKeyRatingUpdated = "book.rating.updated"

// EventPublisher 事件发布接口（mq.Publisher实现）
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// RatingUpdated 评分变更事件
type RatingUpdated struct {
	BookID        uint      `json:"bookId"`
	AverageRating *float64  `json:"averageRating"`
	ReviewsCount  int64     `json:"reviewsCount"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// NewRatingUpdated 由统计结果构造事件
func NewRatingUpdated(bookID uint, s Summary, at time.Time) RatingUpdated {
	return RatingUpdated{
		BookID:        bookID,
		AverageRating: s.AverageRating,
		ReviewsCount:  s.Count,
		OccurredAt:    at,
	}
}
