package user

import (
	"context"
	"errors"
	"time"

	"github.com/xiebiao/bookreview/internal/domain/user"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/metrics"
)

// 登录结果标签
const (
	loginResultNotFound          = "not_found"
	loginResultInvalidCredential = "invalid_credential"
	loginResultError             = "error"
)

// LoginUseCase 用户登录用例
// 1. 验证邮箱密码
// 2. TokenIssuer签发凭证（含尽力而为的回写）
type LoginUseCase struct {
	userService user.Service
	issuer      *TokenIssuer
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, issuer *TokenIssuer) *LoginUseCase {
	return &LoginUseCase{
		userService: userService,
		issuer:      issuer,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string
	Password string
	ClientIP string
}

// LoginResponse 登录响应
type LoginResponse struct {
	AccessToken string
	User        LoginUser
}

// LoginUser 登录返回的用户信息
type LoginUser struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	// 1. 验证邮箱密码
	u, err := uc.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		metrics.IncLogin(loginResult(err))
		return nil, err
	}

	// 2. 签发凭证
	token, _, err := uc.issuer.Issue(ctx, u, req.ClientIP)
	if err != nil {
		metrics.IncLogin(loginResultError)
		return nil, err
	}
	metrics.IncLogin(metrics.ResultSuccess)

	return &LoginResponse{
		AccessToken: token,
		User: LoginUser{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			PhoneNumber: u.PhoneNumber,
			Role:        u.Role,
		},
	}, nil
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return loginResultNotFound
	case errors.Is(err, user.ErrInvalidPassword):
		return loginResultInvalidCredential
	default:
		return loginResultError
	}
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	sessions   SessionStore
	jwtManager *jwt.Manager
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessions SessionStore, jwtManager *jwt.Manager) *LogoutUseCase {
	return &LogoutUseCase{sessions: sessions, jwtManager: jwtManager}
}

// Execute 执行登出
// 1. 会话属于当前Token时删除（用旧Token登出不影响之后的登录）
// 2. Token加入黑名单直到expiresIn所在的秒结束（至少1秒）
func (uc *LogoutUseCase) Execute(ctx context.Context, userID uint, accessToken string) error {
	claims, err := uc.jwtManager.Decode(accessToken)
	if err != nil {
		return err
	}

	session, err := uc.sessions.GetSession(ctx, userID)
	switch {
	case err == nil:
		if session.Token == accessToken {
			if err := uc.sessions.DeleteSession(ctx, userID); err != nil {
				return err
			}
		}
	case !errors.Is(err, apperrors.ErrNotFound):
		return err
	}

	// 中间件在expiresIn当秒仍接受Token，此时Remaining已经<=0
	ttl := claims.Remaining(uc.jwtManager.Now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return uc.sessions.AddToBlacklist(ctx, accessToken, ttl)
}
