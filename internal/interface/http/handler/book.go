package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appbook "github.com/xiebiao/bookreview/internal/application/book"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/infrastructure/storage"
	"github.com/xiebiao/bookreview/internal/interface/http/dto"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	addBookUseCase    *appbook.AddBookUseCase
	listBooksUseCase  *appbook.ListBooksUseCase
	getBookUseCase    *appbook.GetBookUseCase
	deleteBookUseCase *appbook.DeleteBookUseCase
	uploader          storage.Uploader
	logger            *zap.Logger
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	addBookUseCase *appbook.AddBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	uploader storage.Uploader,
	logger *zap.Logger,
) *BookHandler {
	return &BookHandler{
		addBookUseCase:    addBookUseCase,
		listBooksUseCase:  listBooksUseCase,
		getBookUseCase:    getBookUseCase,
		deleteBookUseCase: deleteBookUseCase,
		uploader:          uploader,
		logger:            logger,
	}
}

// Create 创建图书
// @Summary      创建图书
// @Description  创建者为当前登录用户，可附带封面文件coverImage
// @Tags         图书
// @Accept       multipart/form-data,json
// @Produce      json
// @Security     BearerAuth
// @Param        request    body     dto.CreateBookRequest true "图书信息"
// @Param        coverImage formData file false "封面"
// @Success      201 {object} response.Response{data=appbook.BookInfo}
// @Failure      401 {object} response.Response "凭证无效、过期或已吊销"
// @Failure      403 {object} response.Response "未登录"
// @Failure      500 {object} response.Response "书名或作者缺失"
// @Router       /api/books [post]
func (h *BookHandler) Create(c *gin.Context) {
	// 1. 参数绑定
	var req dto.CreateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	// 2. 保存封面
	cover, err := saveUpload(c, h.uploader, "coverImage", storage.KindCover)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 调用应用层用例（创建者取自鉴权中间件）
	ctx := c.Request.Context()
	result, err := h.addBookUseCase.Execute(ctx, appbook.AddBookRequest{
		Title:      req.Title,
		Author:     req.Author,
		Genre:      req.Genre,
		CoverImage: cover,
		CreatedBy:  middleware.GetUserID(c),
	})
	if err != nil {
		discardUpload(ctx, h.uploader, h.logger, cover)
		response.Error(c, err)
		return
	}

	response.Created(c, "Book created successfully", result)
}

// List 图书列表
// @Summary      图书列表
// @Description  search在书名、作者、类型中匹配；author、genre为字段过滤
// @Tags         图书
// @Produce      json
// @Param        search  query string false "关键词"
// @Param        author  query string false "作者"
// @Param        genre   query string false "类型"
// @Param        page    query int    false "页码" default(1)
// @Param        limit   query int    false "每页数量" default(10)
// @Param        order   query string false "排序方向：asc升序（不区分大小写），其它值降序" default(desc)
// @Param        orderBy query string false "排序字段：id、title、author、genre、coverImage、averageRating、reviewsCount、createdBy、createdAt、updatedAt" default(createdAt)
// @Success      200 {object} response.Response{data=[]appbook.BookInfo}
// @Router       /api/books [get]
func (h *BookHandler) List(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.listBooksUseCase.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Search:  q.Search,
		Author:  q.Author,
		Genre:   q.Genre,
		Page:    q.Page,
		Limit:   q.Limit,
		Order:   q.Order,
		OrderBy: q.OrderBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithTotal(c, result.Books, result.Total)
}

// Get 图书详情
// @Summary      图书详情
// @Description  返回图书、平均评分、评论总数和分页评论（最新在前）
// @Tags         图书
// @Produce      json
// @Param        id    path  int true  "图书ID"
// @Param        page  query int false "评论页码" default(1)
// @Param        limit query int false "评论每页数量" default(5)
// @Success      200 {object} response.Response{data=appbook.BookDetail}
// @Failure      400 {object} response.Response "ID格式错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/books/{id} [get]
func (h *BookHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id", book.ErrInvalidBookID)
	if err != nil {
		response.Error(c, err)
		return
	}

	var q dto.BookDetailQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	detail, err := h.getBookUseCase.Execute(c.Request.Context(), appbook.GetBookRequest{
		ID:    id,
		Page:  q.Page,
		Limit: q.Limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Book details fetched successfully", detail)
}

// Delete 删除图书
// @Summary      删除图书
// @Description  仅创建者可删除，同时删除该书的全部评论
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "凭证无效、过期或已吊销"
// @Failure      403 {object} response.Response "未登录"
// @Failure      404 {object} response.Response "图书不存在或无权删除"
// @Router       /api/books/{id} [delete]
func (h *BookHandler) Delete(c *gin.Context) {
	// ID非法与不存在、无权限返回同一错误
	id, err := parseID(c, "id", book.ErrDeleteDenied)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), id, middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Book deleted successfully", nil)
}
