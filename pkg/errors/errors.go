package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于区分错误类型（InvalidId、NotFound等），便于日志检索和测试断言
// 2. Status是返回给客户端的HTTP状态码
// 3. Message是返回给客户端的提示信息
// 4. Err是内部错误，仅记录到日志（不序列化）
type AppError struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同Code即视为同一类错误
// 说明：预定义错误经WithMessage派生后，errors.Is仍能匹配到原始错误
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage 基于当前错误派生一个只替换提示信息的新错误
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Status:  e.Status,
		Message: message,
		Err:     e.Err,
	}
}

// New 创建新的AppError
func New(code string, status int, message string) *AppError {
	return &AppError{
		Code:    code,
		Status:  status,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 与兜底错误处理保持一致：返回给客户端的是底层错误的原始信息
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// =========================================
// 错误码定义
// =========================================

const (
	CodeInternal          = "Internal"
	CodeInvalidID         = "InvalidId"
	CodeValidation        = "ValidationError"
	CodeNotFound          = "NotFound"
	CodeForbidden         = "Forbidden"
	CodeUnauthorized      = "Unauthorized"
	CodeTokenExpired      = "TokenExpired"
	CodeInvalidToken      = "InvalidToken"
	CodeTokenRevoked      = "TokenRevoked"
	CodeInvalidCredential = "InvalidCredential"
	CodeDuplicate         = "Duplicate"
)

// =========================================
// 预定义错误
// =========================================

var (
	ErrInternal = New(CodeInternal, http.StatusInternalServerError, "Something went wrong!")

	// ErrValidation 字段缺失或非法
	// 注意：沿用原有行为，以500返回（已知设计缺陷，见DESIGN.md）
	ErrValidation = New(CodeValidation, http.StatusInternalServerError, "Validation failed")

	ErrInvalidID = New(CodeInvalidID, http.StatusBadRequest, "Invalid id")
	ErrNotFound  = New(CodeNotFound, http.StatusNotFound, "Not found")
	ErrForbidden = New(CodeForbidden, http.StatusForbidden, "Not authorized")
	ErrDuplicate = New(CodeDuplicate, http.StatusConflict, "Duplicate entry")

	// 认证相关
	ErrUnauthorized      = New(CodeUnauthorized, http.StatusForbidden, "Not authorized")
	ErrTokenExpired      = New(CodeTokenExpired, http.StatusUnauthorized, "Token expired")
	ErrInvalidToken      = New(CodeInvalidToken, http.StatusUnauthorized, "Invalid token")
	ErrTokenRevoked      = New(CodeTokenRevoked, http.StatusUnauthorized, "Token revoked")
	ErrInvalidCredential = New(CodeInvalidCredential, http.StatusBadRequest, "Invalid password")
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误，提示信息取原始错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, err.Error())
}

// Validation 创建带具体提示的校验错误
func Validation(message string) *AppError {
	return ErrValidation.WithMessage(message)
}
