package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appuser "github.com/xiebiao/bookreview/internal/application/user"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/storage"
	"github.com/xiebiao/bookreview/internal/interface/http/dto"
	"github.com/xiebiao/bookreview/internal/interface/http/middleware"
	"github.com/xiebiao/bookreview/pkg/response"
)

// UserHandler 用户HTTP处理器
// 设计说明：
// 1. Handler只负责HTTP相关的事情：解析请求、调用应用层、返回响应
// 2. 不包含业务逻辑（业务逻辑在domain和application层）
// 3. 头像文件由Handler保存，应用层只接收相对路径
type UserHandler struct {
	registerUseCase   *appuser.RegisterUseCase
	loginUseCase      *appuser.LoginUseCase
	logoutUseCase     *appuser.LogoutUseCase
	listUsersUseCase  *appuser.ListUsersUseCase
	deleteUserUseCase *appuser.DeleteUserUseCase
	uploader          storage.Uploader
	logger            *zap.Logger
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	registerUseCase *appuser.RegisterUseCase,
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	listUsersUseCase *appuser.ListUsersUseCase,
	deleteUserUseCase *appuser.DeleteUserUseCase,
	uploader storage.Uploader,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		registerUseCase:   registerUseCase,
		loginUseCase:      loginUseCase,
		logoutUseCase:     logoutUseCase,
		listUsersUseCase:  listUsersUseCase,
		deleteUserUseCase: deleteUserUseCase,
		uploader:          uploader,
		logger:            logger,
	}
}

// Signup 用户注册
// @Summary      用户注册
// @Description  创建新用户账号，可附带头像文件avatar
// @Tags         用户
// @Accept       multipart/form-data,json
// @Produce      json
// @Param        request body dto.SignupRequest true "注册信息"
// @Param        avatar formData file false "头像"
// @Success      201 {object} response.Response{data=appuser.UserInfo} "注册成功"
// @Failure      409 {object} response.Response "邮箱已存在"
// @Failure      500 {object} response.Response "字段缺失"
// @Router       /api/users/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	// 1. 绑定参数（按Content-Type选择JSON或表单）
	var req dto.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	// 2. 保存头像
	avatar, err := saveUpload(c, h.uploader, "avatar", storage.KindAvatar)
	if err != nil {
		response.Error(c, err)
		return
	}

	// 3. 调用应用层用例
	ctx := c.Request.Context()
	result, err := h.registerUseCase.Execute(ctx, appuser.RegisterRequest{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		PhoneNumber: req.PhoneNumber,
		Avatar:      avatar,
	})
	if err != nil {
		discardUpload(ctx, h.uploader, h.logger, avatar)
		response.Error(c, err)
		return
	}

	response.Created(c, "Signed Up successfully", result)
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证邮箱密码，返回访问凭证
// @Tags         用户
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginUser} "登录成功，accessToken与data同级"
// @Failure      400 {object} response.Response "密码错误"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithToken(c, "Login successful", result.AccessToken, result.User)
}

// Logout 退出登录
// @Summary      退出登录
// @Description  当前凭证加入黑名单直到过期
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response "凭证无效"
// @Router       /api/users/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.logoutUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), middleware.GetToken(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "Logout successful", nil)
}

// List 用户列表
// @Summary      用户列表
// @Tags         用户
// @Produce      json
// @Param        search  query string false "姓名、邮箱、手机号模糊匹配"
// @Param        page    query int    false "页码" default(1)
// @Param        limit   query int    false "每页数量" default(10)
// @Param        order   query string false "排序方向：asc升序（不区分大小写），其它值降序" default(desc)
// @Param        orderBy query string false "排序字段：id、name、email、phoneNumber、avatar、role、lastLogin、createdAt、updatedAt" default(createdAt)
// @Success      200 {object} response.Response{data=[]appuser.UserSummary}
// @Router       /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q dto.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, bindError(err))
		return
	}

	result, err := h.listUsersUseCase.Execute(c.Request.Context(), appuser.ListUsersRequest{
		Search:  q.Search,
		Page:    q.Page,
		Limit:   q.Limit,
		Order:   q.Order,
		OrderBy: q.OrderBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithTotal(c, result.Users, result.Total)
}

// Delete 删除用户
// 注意：没有鉴权，任何调用方都可以删除任意用户（保持原有行为）
// @Summary      删除用户
// @Tags         用户
// @Produce      json
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response
// @Failure      400 {object} response.Response "ID格式错误"
// @Failure      404 {object} response.Response "用户不存在"
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id", user.ErrInvalidUserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.deleteUserUseCase.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, "User deleted successfully", nil)
}
