package handler

import (
	"github.com/gin-gonic/gin"

	appreview "github.com/xiebiao/bookreview/internal/application/review"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/interface/http/dto"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/response"
)

// ReviewHandler 评论HTTP处理器
type ReviewHandler struct {
	createReviewUseCase *appreview.CreateReviewUseCase
	updateReviewUseCase *appreview.UpdateReviewUseCase
	deleteReviewUseCase *appreview.DeleteReviewUseCase
}

// NewReviewHandler 创建评论处理器
func NewReviewHandler(
	createReviewUseCase *appreview.CreateReviewUseCase,
	updateReviewUseCase *appreview.UpdateReviewUseCase,
	deleteReviewUseCase *appreview.DeleteReviewUseCase,
) *ReviewHandler {
	return &ReviewHandler{
		createReviewUseCase: createReviewUseCase,
		updateReviewUseCase: updateReviewUseCase,
		deleteReviewUseCase: deleteReviewUseCase,
	}
}

// Create 创建评论
// @Summary      创建评论
// @Description  路径参数为图书ID，每个用户对每本书只能评论一次
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true "图书ID"
// @Param        request body dto.CreateReviewRequest true "评分和内容"
// @Success      201 {object} response.Response{data=appreview.ReviewInfo}
// @Failure      400 {object} response.Response "ID格式错误"
// @Failure      401 {object} response.Response "凭证无效、过期或已吊销"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "重复评论"
// @Failure      500 {object} response.Response "评分不在1-5之间"
// @Router       /api/reviews/{id} [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	bookID, err := parseID(c, "id", book.ErrInvalidBookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.createReviewUseCase.Execute(c.Request.Context(), appreview.CreateReviewRequest{
		BookID:  bookID,
		UserID:  middleware.GetUserID(c),
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Review created successfully", result)
}

// Update 更新评论
// @Summary      更新评论
// @Description  仅作者可修改，省略的字段保持不变
// @Tags         评论
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                     true "评论ID"
// @Param        request body dto.UpdateReviewRequest true "评分和内容"
// @Success      200 {object} response.Response{data=appreview.ReviewInfo}
// @Failure      400 {object} response.Response "ID格式错误"
// @Failure      401 {object} response.Response "凭证无效、过期或已吊销"
// @Failure      403 {object} response.Response "不是作者"
// @Failure      404 {object} response.Response "评论不存在"
// @Failure      500 {object} response.Response "评分不在1-5之间"
// @Router       /api/reviews/{id} [put]
func (h *ReviewHandler) Update(c *gin.Context) {
	reviewID, err := parseID(c, "id", review.ErrInvalidReviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.updateReviewUseCase.Execute(c.Request.Context(), appreview.UpdateReviewRequest{
		ReviewID: reviewID,
		UserID:   middleware.GetUserID(c),
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Review updated successfully", result)
}

// Delete 删除评论
// @Summary      删除评论
// @Tags         评论
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评论ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "ID格式错误"
// @Failure      401 {object} response.Response "凭证无效、过期或已吊销"
// @Failure      403 {object} response.Response "不是作者"
// @Failure      404 {object} response.Response "评论不存在"
// @Router       /api/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, err := parseID(c, "id", review.ErrInvalidReviewID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteReviewUseCase.Execute(c.Request.Context(), reviewID, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Review deleted successfully", nil)
}
