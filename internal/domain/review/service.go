package review

import (
	"context"
)

// Service 评论领域服务
// 说明：图书是否存在、评分重算由应用层编排，领域服务只处理评论本身的规则
type Service interface {
	// Create 创建评论
	Create(ctx context.Context, bookID, userID uint, rating int, comment string) (*Review, error)

	// Get 根据ID获取评论
	Get(ctx context.Context, id uint) (*Review, error)

	// Update 部分更新评论（仅作者）
	Update(ctx context.Context, id, userID uint, rating *int, comment *string) (*Review, error)

	// Delete 删除评论（仅作者），返回被删除的评论
	Delete(ctx context.Context, id, userID uint) (*Review, error)

	// ListByBook 分页查询某本书的评论
	ListByBook(ctx context.Context, bookID uint, page, limit int) ([]*Review, int64, error)
}

type service struct {
	repo Repository
}

// NewService 创建评论领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Create 创建评论
func (s *service) Create(ctx context.Context, bookID, userID uint, rating int, comment string) (*Review, error) {
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}

	r := NewReview(bookID, userID, rating, comment)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Update 部分更新评论
// 业务规则：
// 1. 评论不存在返回ErrReviewNotFound
// 2. 非作者返回ErrNotAuthor（先确认存在再判断归属）
// 3. 提供的评分必须在1-5之间
func (s *service) Update(ctx context.Context, id, userID uint, rating *int, comment *string) (*Review, error) {
	r, err := s.authored(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := r.Apply(rating, comment); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete 删除评论
func (s *service) Delete(ctx context.Context, id, userID uint) (*Review, error) {
	r, err := s.authored(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return r, nil
}

// Get 根据ID获取评论
func (s *service) Get(ctx context.Context, id uint) (*Review, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByBook 分页查询某本书的评论
func (s *service) ListByBook(ctx context.Context, bookID uint, page, limit int) ([]*Review, int64, error) {
	return s.repo.ListByBook(ctx, bookID, page, limit)
}

// authored 查询评论并校验作者
func (s *service) authored(ctx context.Context, id, userID uint) (*Review, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !r.IsAuthoredBy(userID) {
		return nil, ErrNotAuthor
	}
	return r, nil
}
