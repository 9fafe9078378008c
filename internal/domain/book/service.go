package book

import (
	"context"
	"errors"
)

// Service 图书领域服务接口
type Service interface {
	// Create 创建图书，创建者为当前登录用户
	Create(ctx context.Context, in CreateInput) (*Book, error)

	// Get 根据ID获取图书
	Get(ctx context.Context, id uint) (*Book, error)

	// List 分页查询（公开接口）
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// Delete 删除图书
	// 业务规则：只有创建者可以删除；不存在和非创建者都返回ErrDeleteDenied
	// 评论的级联删除由应用层在同一事务中完成
	Delete(ctx context.Context, id, userID uint) error
}

// CreateInput 创建图书输入
type CreateInput struct {
	Title      string
	Author     string
	Genre      string
	CoverImage string
	CreatedBy  uint
}

type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Create 创建图书
func (s *service) Create(ctx context.Context, in CreateInput) (*Book, error) {
	b := NewBook(in.Title, in.Author, in.Genre, in.CoverImage, in.CreatedBy)
	if err := b.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

// Get 根据ID获取图书
func (s *service) Get(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// List 分页查询图书
func (s *service) List(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// Delete 删除图书
func (s *service) Delete(ctx context.Context, id, userID uint) error {
	// 1. 查询图书
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return ErrDeleteDenied
		}
		return err
	}

	// 2. 权限检查（与不存在返回相同错误）
	if !b.IsOwnedBy(userID) {
		return ErrDeleteDenied
	}

	// 3. 删除
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrBookNotFound) {
			return ErrDeleteDenied
		}
		return err
	}
	return nil
}
