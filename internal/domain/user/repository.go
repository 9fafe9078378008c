package user

import (
	"context"
	"time"
)

// Repository 用户仓储接口
// 接口定义在domain层，具体实现在infrastructure/persistence/mysql
type Repository interface {
	// Create 创建用户
	// 邮箱已存在时返回ErrEmailDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户，不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByEmail 根据邮箱查找用户（含密码哈希），不存在返回ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	// List 分页查询（不查询密码字段）
	List(ctx context.Context, params ListParams) ([]*User, int64, error)

	// UpdateLoginInfo 回写最近一次签发的Token和登录时间
	UpdateLoginInfo(ctx context.Context, id uint, accessToken string, at time.Time) error

	// Delete 删除用户（物理删除），不存在返回ErrUserNotFound
	Delete(ctx context.Context, id uint) error
}

// ListParams 列表查询参数
type ListParams struct {
	Search  string // 按姓名、邮箱、手机号模糊匹配（不区分大小写）
	Page    int
	Limit   int
	Order   string // asc | desc
	OrderBy string // createdAt | updatedAt | name | email
}
