package user

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// Service 用户领域服务
// 设计说明：
// 1. 负责密码哈希与校验、注册必填字段校验
// 2. 依赖Repository接口，不依赖具体实现
type Service interface {
	// Register 用户注册
	Register(ctx context.Context, in RegisterInput) (*User, error)

	// Login 校验邮箱密码，成功返回用户
	Login(ctx context.Context, email, password string) (*User, error)

	// List 分页查询用户
	List(ctx context.Context, params ListParams) ([]*User, int64, error)

	// Delete 删除用户
	// 注意：没有归属或角色校验，保持原有开放行为
	Delete(ctx context.Context, id uint) error
}

// RegisterInput 注册输入
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
	Avatar      string
}

type service struct {
	repo       Repository
	bcryptCost int
}

// NewService 创建用户服务
func NewService(repo Repository, bcryptCost int) Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &service{repo: repo, bcryptCost: bcryptCost}
}

// Register 用户注册
// 业务规则：
// 1. 姓名、邮箱、密码、手机号必填（缺失时返回ValidationError）
// 2. 邮箱去空格转小写
// 3. 密码原样bcrypt加密后存储（不去空格）
// 4. 邮箱唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	name := strings.TrimSpace(in.Name)
	email := NormalizeEmail(in.Email)
	phone := strings.TrimSpace(in.PhoneNumber)

	// 1. 必填校验
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if phone == "" {
		missing = append(missing, "phoneNumber")
	}
	if len(missing) > 0 {
		return nil, apperrors.Validation("User validation failed: " + strings.Join(missing, ", ") + " required")
	}

	// 2. 密码加密
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	// 3. 创建并持久化
	user := NewUser(name, email, string(hashed), phone, in.Avatar)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login 用户登录
// 业务规则：
// 1. 邮箱去空格转小写后查找，不存在返回ErrUserNotFound
// 2. 密码不匹配返回ErrInvalidPassword
func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if err := s.validatePassword(user.Password, strings.TrimSpace(password)); err != nil {
		return nil, err
	}

	return user, nil
}

// List 分页查询用户
func (s *service) List(ctx context.Context, params ListParams) ([]*User, int64, error) {
	return s.repo.List(ctx, params)
}

// Delete 删除用户
func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

// validatePassword 验证明文密码与哈希值是否匹配
func (s *service) validatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}
