package dto

// CreateReviewRequest HTTP创建评论请求
// 评分范围由领域服务校验（1-5的整数）
type CreateReviewRequest struct {
	Rating  int    `json:"rating" form:"rating" example:"5"`
	Comment string `json:"comment" form:"comment" example:"Clear and practical."`
}

// UpdateReviewRequest HTTP更新评论请求
// 字段均可省略，省略的字段保持不变
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating" form:"rating" example:"4"`
	Comment *string `json:"comment" form:"comment" example:"Updated after a second read."`
}
