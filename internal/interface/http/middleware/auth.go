package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/user"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
	"github.com/xiebiao/bookreview/pkg/jwt"
	"github.com/xiebiao/bookreview/pkg/response"
)

const (
	// RoleGuest 允许未登录访问的特殊角色
	RoleGuest = "Guest"

	identityKey = "identity"
	tokenKey    = "access_token"
)

// UserFinder 按ID查询用户（user.Repository实现）
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*user.User, error)
}

// TokenBlacklist Token黑名单（redis.SessionStore实现）
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// Identity 通过鉴权后的调用者身份
type Identity struct {
	ID     uint
	Email  string
	Name   string
	Avatar string
	Role   string // 取自数据库，而不是Token
	Global bool   // 管理员
}

// AuthMiddleware 鉴权中间件
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	users      UserFinder
	blacklist  TokenBlacklist
	logger     *zap.Logger
}

// NewAuthMiddleware 创建鉴权中间件
// blacklist可以为nil（不检查登出的Token）
func NewAuthMiddleware(jwtManager *jwt.Manager, users UserFinder, blacklist TokenBlacklist, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		users:      users,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// EnsureAuth 按角色放行
// 流程：
// 1. 没有Authorization头：允许Guest时直接放行（不附加身份），否则403
// 2. 去掉Bearer前缀并解码：失败401 Invalid token，expiresIn已过401 Token expired
// 3. Token在黑名单中：401 Token revoked
// 4. 按Token中的id查询用户：不存在404，查询失败500
// 5. 角色为Admin、角色在允许列表中、或允许列表含Guest时放行，否则403
//
// 注意第5步：允许Guest的路由在携带Token时仍会完整校验，与不带Token时不对称（保持原有行为）
func (m *AuthMiddleware) EnsureAuth(roles ...string) gin.HandlerFunc {
	guestAllowed := slices.Contains(roles, RoleGuest)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")

		// 1. 没有凭证
		if header == "" {
			if guestAllowed {
				c.Next()
				return
			}
			m.abort(c, apperrors.ErrUnauthorized)
			return
		}

		// 2. 解码并检查过期
		token := stripBearer(header)
		claims, err := m.jwtManager.Decode(token)
		if err != nil {
			m.abort(c, apperrors.ErrInvalidToken)
			return
		}
		if claims.Expired(m.jwtManager.Now()) {
			m.abort(c, apperrors.ErrTokenExpired)
			return
		}

		ctx := c.Request.Context()

		// 3. 黑名单
		if m.blacklist != nil {
			revoked, err := m.blacklist.IsInBlacklist(ctx, token)
			if err != nil {
				m.serverError(c, err)
				return
			}
			if revoked {
				m.abort(c, apperrors.ErrTokenRevoked)
				return
			}
		}

		// 4. 查询用户
		u, err := m.users.FindByID(ctx, claims.ID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				m.abort(c, user.ErrUserNotFound)
				return
			}
			m.serverError(c, err)
			return
		}

		// 5. 角色判断
		if u.Role != user.RoleAdmin && !slices.Contains(roles, u.Role) && !guestAllowed {
			m.abort(c, apperrors.ErrForbidden)
			return
		}

		c.Set(identityKey, &Identity{
			ID:     claims.ID,
			Email:  claims.Email,
			Name:   claims.Name,
			Avatar: claims.Avatar,
			Role:   u.Role,
			Global: u.Role == user.RoleAdmin,
		})
		c.Set(tokenKey, token)
		c.Next()
	}
}

func (m *AuthMiddleware) abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}

// serverError 存储异常统一返回500 Server error
func (m *AuthMiddleware) serverError(c *gin.Context, err error) {
	m.logger.Error("鉴权查询失败", zap.String("path", c.Request.URL.Path), zap.Error(err))
	response.ErrorWithStatus(c, http.StatusInternalServerError, "Server error")
	c.Abort()
}

// stripBearer 去掉Bearer前缀（大小写敏感，允许多个空白）
func stripBearer(header string) string {
	if rest, ok := strings.CutPrefix(header, "Bearer"); ok && rest != strings.TrimLeft(rest, " \t") {
		return strings.TrimLeft(rest, " \t")
	}
	return header
}

// =========================================
// Context辅助函数（供Handler使用）
// =========================================

// GetIdentity 获取当前调用者身份，未登录时返回nil
func GetIdentity(c *gin.Context) *Identity {
	if v, exists := c.Get(identityKey); exists {
		if id, ok := v.(*Identity); ok {
			return id
		}
	}
	return nil
}

// GetUserID 获取当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	if id := GetIdentity(c); id != nil {
		return id.ID
	}
	return 0
}

// GetToken 获取本次请求携带的Token（已通过鉴权）
func GetToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
