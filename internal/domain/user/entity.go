package user

import (
	"strings"
	"time"
)

const (
	// RoleUser 注册用户的唯一角色
	RoleUser = "User"
	// RoleAdmin 管理员（没有创建入口，鉴权中间件会放行）
	RoleAdmin = "Admin"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 密码是bcrypt哈希值，不对外序列化
// 2. AccessToken和LastLogin由登录流程回写（尽力而为）
// 3. 领域实体不依赖GORM tag，映射由Repository处理
type User struct {
	ID          uint
	Name        string
	Email       string
	Password    string // bcrypt哈希值
	PhoneNumber string
	Avatar      string // 相对URL路径，默认空
	Role        string
	AccessToken string
	LastLogin   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(name, email, hashedPassword, phoneNumber, avatar string) *User {
	now := time.Now()
	return &User{
		Name:        name,
		Email:       NormalizeEmail(email),
		Password:    hashedPassword,
		PhoneNumber: phoneNumber,
		Avatar:      avatar,
		Role:        RoleUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// NormalizeEmail 邮箱统一去空格并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
