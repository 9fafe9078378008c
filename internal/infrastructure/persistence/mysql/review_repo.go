package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/domain/review"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/pagination"
)

// reviewRepository 评论仓储实现
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository 创建评论仓储
func NewReviewRepository(db *gorm.DB) review.Repository {
	return &reviewRepository{db: db}
}

// Create 创建评论
// (book_id, user_id)唯一索引冲突转换为ErrAlreadyReviewed
func (r *reviewRepository) Create(ctx context.Context, rv *review.Review) error {
	model := &ReviewModel{
		BookID:  rv.BookID,
		UserID:  rv.UserID,
		Rating:  rv.Rating,
		Comment: rv.Comment,
	}

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return review.ErrAlreadyReviewed
		}
		return apperrors.Wrap(err, err.Error())
	}

	rv.ID = model.ID
	rv.CreatedAt = model.CreatedAt
	rv.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找评论
func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*review.Review, error) {
	var model ReviewModel
	err := dbFrom(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, review.ErrReviewNotFound
		}
		return nil, apperrors.Wrap(err, "查询评论失败")
	}

	return toReviewEntity(&model), nil
}

// Update 更新评分和内容（UpdatedAt由实体的Apply设置）
func (r *reviewRepository) Update(ctx context.Context, rv *review.Review) error {
	err := dbFrom(ctx, r.db).Model(&ReviewModel{ID: rv.ID}).
		Updates(map[string]interface{}{
			"rating":     rv.Rating,
			"comment":    rv.Comment,
			"updated_at": rv.UpdatedAt,
		}).Error
	if err != nil {
		return apperrors.Wrap(err, err.Error())
	}
	return nil
}

// Delete 删除评论
func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&ReviewModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除评论失败")
	}
	if result.RowsAffected == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// ListByBook 分页查询某本书的评论（最新在前，填充评论者姓名和邮箱）
func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint, page, limit int) ([]*review.Review, int64, error) {
	var models []ReviewModel
	var total int64

	query := dbFrom(ctx, r.db).Model(&ReviewModel{}).
		Where("book_id = ?", bookID).
		Session(&gorm.Session{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询评论总数失败")
	}

	p := pagination.New(page, limit, 5)
	err := query.
		Preload("Reviewer", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询评论列表失败")
	}

	reviews := make([]*review.Review, len(models))
	for i := range models {
		reviews[i] = toReviewEntity(&models[i])
	}
	return reviews, total, nil
}

// DeleteByBook 删除某本书的全部评论
func (r *reviewRepository) DeleteByBook(ctx context.Context, bookID uint) (int64, error) {
	result := dbFrom(ctx, r.db).Where("book_id = ?", bookID).Delete(&ReviewModel{})
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "删除图书评论失败")
	}
	return result.RowsAffected, nil
}

// ratingStats 聚合查询结果
type ratingStats struct {
	AvgRating   float64
	ReviewCount int64
}

// Stats 一次聚合查询得到平均分和数量
// SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE book_id = ?
func (r *reviewRepository) Stats(ctx context.Context, bookID uint) (float64, int64, error) {
	var row ratingStats
	err := dbFrom(ctx, r.db).Model(&ReviewModel{}).
		Select("COALESCE(AVG(rating), 0) AS avg_rating, COUNT(*) AS review_count").
		Where("book_id = ?", bookID).
		Scan(&row).Error
	if err != nil {
		return 0, 0, apperrors.Wrap(err, "统计评分失败")
	}
	return row.AvgRating, row.ReviewCount, nil
}

// toReviewEntity GORM模型 → 领域实体
func toReviewEntity(model *ReviewModel) *review.Review {
	rv := &review.Review{
		ID:        model.ID,
		BookID:    model.BookID,
		UserID:    model.UserID,
		Rating:    model.Rating,
		Comment:   model.Comment,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
	if model.Reviewer != nil {
		rv.Reviewer = &review.Reviewer{
			ID:    model.Reviewer.ID,
			Name:  model.Reviewer.Name,
			Email: model.Reviewer.Email,
		}
	}
	return rv
}
