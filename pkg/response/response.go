package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response 统一响应结构（信封）
// 设计说明：
// 1. Status取值success|error，HTTP状态码表达错误类别
// 2. Total仅在分页列表中返回
// 3. AccessToken仅在登录时返回（与data同级）
type Response struct {
	Status      string      `json:"status"`
	Message     string      `json:"message,omitempty"`
	Data        interface{} `json:"data,omitempty"`
	Total       *int64      `json:"total,omitempty"`
	AccessToken string      `json:"accessToken,omitempty"`
}

// Success 200成功响应
func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// Created 201创建成功响应
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	})
}

// SuccessWithTotal 分页列表响应
func SuccessWithTotal(c *gin.Context, data interface{}, total int64) {
	c.JSON(http.StatusOK, Response{
		Status: StatusSuccess,
		Data:   data,
		Total:  &total,
	})
}

// SuccessWithToken 登录成功响应
func SuccessWithToken(c *gin.Context, message, token string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Status:      StatusSuccess,
		Message:     message,
		Data:        data,
		AccessToken: token,
	})
}

// Error 错误响应（自动处理AppError）
// 非AppError统一按500返回原始错误信息
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	if appErr.Status >= http.StatusInternalServerError {
		if logger, ok := c.Get(LoggerKey); ok {
			if l, ok := logger.(*zap.Logger); ok {
				l.Error("请求处理失败",
					zap.String("code", appErr.Code),
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
				)
			}
		}
	}

	ErrorWithStatus(c, appErr.Status, appErr.Message)
}

// ErrorWithStatus 自定义状态码和消息
func ErrorWithStatus(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Status:  StatusError,
		Message: message,
	})
}

// LoggerKey 请求级logger在gin.Context中的键（由日志中间件写入）
const LoggerKey = "logger"
