package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/domain/user"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/pagination"
)

// userSortFields 用户列表允许排序的字段（列表返回的全部字段）
var userSortFields = map[string]string{
	"id":          "id",
	"name":        "name",
	"email":       "email",
	"phoneNumber": "phone_number",
	"avatar":      "avatar",
	"role":        "role",
	"lastLogin":   "last_login",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// userRepository 用户仓储实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	// 1. 领域实体 → GORM模型
	model := &UserModel{
		Name:        u.Name,
		Email:       u.Email,
		Password:    u.Password,
		PhoneNumber: u.PhoneNumber,
		Avatar:      u.Avatar,
		Role:        u.Role,
	}

	// 2. 插入数据库
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return user.ErrEmailDuplicate
		}
		return apperrors.Wrap(err, err.Error())
	}

	// 3. 回填自增ID和时间戳
	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var model UserModel
	err := dbFrom(ctx, r.db).First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}

	return toUserEntity(&model), nil
}

// FindByEmail 根据邮箱查找用户
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	err := dbFrom(ctx, r.db).Where("email = ?", email).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}

	return toUserEntity(&model), nil
}

// List 分页查询用户（不查询密码字段）
func (r *userRepository) List(ctx context.Context, params user.ListParams) ([]*user.User, int64, error) {
	var models []UserModel
	var total int64

	query := dbFrom(ctx, r.db).Model(&UserModel{})

	// 关键词搜索（姓名、邮箱、手机号）
	if params.Search != "" {
		pattern := containsPattern(params.Search)
		query = query.Where(
			"("+likeClause("name")+" OR "+likeClause("email")+" OR "+likeClause("phone_number")+")",
			pattern, pattern, pattern,
		)
	}
	query = query.Session(&gorm.Session{})

	// 查询总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询用户总数失败")
	}

	// 排序和分页
	page := pagination.New(params.Page, params.Limit, 10)
	sort := pagination.NewSort(params.OrderBy, params.Order, userSortFields, "createdAt")

	err := query.Omit("password").
		Order(sort.Clause()).
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&models).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询用户列表失败")
	}

	users := make([]*user.User, len(models))
	for i := range models {
		users[i] = toUserEntity(&models[i])
	}

	return users, total, nil
}

// UpdateLoginInfo 回写登录信息
func (r *userRepository) UpdateLoginInfo(ctx context.Context, id uint, accessToken string, at time.Time) error {
	result := dbFrom(ctx, r.db).Model(&UserModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"access_token": accessToken,
			"last_login":   at,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新登录信息失败")
	}
	return nil
}

// Delete 删除用户
// 说明：不级联删除其图书和评论
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&UserModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除用户失败")
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// toUserEntity GORM模型 → 领域实体
func toUserEntity(model *UserModel) *user.User {
	return &user.User{
		ID:          model.ID,
		Name:        model.Name,
		Email:       model.Email,
		Password:    model.Password,
		PhoneNumber: model.PhoneNumber,
		Avatar:      model.Avatar,
		Role:        model.Role,
		AccessToken: model.AccessToken,
		LastLogin:   model.LastLogin,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
