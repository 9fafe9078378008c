package user

import (
	"context"

	"github.com/xiebiao/bookreview/internal/domain/user"
)

// ListUsersUseCase 用户列表用例
type ListUsersUseCase struct {
	userService user.Service
}

// NewListUsersUseCase 创建用户列表用例
func NewListUsersUseCase(userService user.Service) *ListUsersUseCase {
	return &ListUsersUseCase{userService: userService}
}

// ListUsersRequest 列表请求
type ListUsersRequest struct {
	Search  string
	Page    int
	Limit   int
	Order   string
	OrderBy string
}

// UserSummary 列表项（与原有列表字段一致）
type UserSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// ListUsersResponse 列表响应
type ListUsersResponse struct {
	Users []UserSummary
	Total int64
}

// Execute 执行查询
func (uc *ListUsersUseCase) Execute(ctx context.Context, req ListUsersRequest) (*ListUsersResponse, error) {
	users, total, err := uc.userService.List(ctx, user.ListParams{
		Search:  req.Search,
		Page:    req.Page,
		Limit:   req.Limit,
		Order:   req.Order,
		OrderBy: req.OrderBy,
	})
	if err != nil {
		return nil, err
	}

	items := make([]UserSummary, len(users))
	for i, u := range users {
		items[i] = UserSummary{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			PhoneNumber: u.PhoneNumber,
			Role:        u.Role,
		}
	}
	return &ListUsersResponse{Users: items, Total: total}, nil
}

// DeleteUserUseCase 删除用户用例
// 注意：没有归属或角色校验（保持原有开放行为，见DESIGN.md）
type DeleteUserUseCase struct {
	userService user.Service
}

// NewDeleteUserUseCase 创建删除用户用例
func NewDeleteUserUseCase(userService user.Service) *DeleteUserUseCase {
	return &DeleteUserUseCase{userService: userService}
}

// Execute 删除用户
func (uc *DeleteUserUseCase) Execute(ctx context.Context, id uint) error {
	return uc.userService.Delete(ctx, id)
}
