package dto

// SignupRequest HTTP层注册请求
// 支持multipart（附带avatar文件）和JSON两种格式
// 说明：必填校验由领域服务完成（缺失时返回ValidationError），这里不加required
type SignupRequest struct {
	Name        string `form:"name" json:"name" example:"Alice"`
	Email       string `form:"email" json:"email" example:"alice@example.com"`
	Password    string `form:"password" json:"password" example:"secret123"`
	PhoneNumber string `form:"phoneNumber" json:"phoneNumber" example:"13800000000"`
}

// LoginRequest HTTP层登录请求
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required" example:"alice@example.com"`
	Password string `form:"password" json:"password" binding:"required" example:"secret123"`
}

// ListUsersQuery 用户列表查询参数
type ListUsersQuery struct {
	Search  string `form:"search" example:"alice"`
	Page    int    `form:"page" example:"1"`
	Limit   int    `form:"limit" example:"10"`
	Order   string `form:"order" example:"desc"`
	OrderBy string `form:"orderBy" example:"createdAt"`
}
