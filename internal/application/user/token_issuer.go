package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookreview/pkg/jwt"
)

// SessionStore 会话存储（redis.SessionStore实现）
type SessionStore interface {
	SaveSession(ctx context.Context, userID uint, session redis.Session, ttl time.Duration) error
	GetSession(ctx context.Context, userID uint) (*redis.Session, error)
	DeleteSession(ctx context.Context, userID uint) error
	AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error
}

// LoginRecorder 登录信息回写（user.Repository实现）
type LoginRecorder interface {
	UpdateLoginInfo(ctx context.Context, id uint, accessToken string, at time.Time) error
}

// TokenIssuer 凭证签发
// 签发后回写accessToken、lastLogin并保存Redis会话
// 回写和会话都是尽力而为：失败只记录warn日志，不影响登录
type TokenIssuer struct {
	jwtManager *jwt.Manager
	recorder   LoginRecorder
	sessions   SessionStore
	logger     *zap.Logger
}

// NewTokenIssuer 创建凭证签发器
func NewTokenIssuer(jwtManager *jwt.Manager, recorder LoginRecorder, sessions SessionStore, logger *zap.Logger) *TokenIssuer {
	return &TokenIssuer{
		jwtManager: jwtManager,
		recorder:   recorder,
		sessions:   sessions,
		logger:     logger,
	}
}

// Issue 为用户签发凭证
func (i *TokenIssuer) Issue(ctx context.Context, u *user.User, clientIP string) (string, *jwt.Claims, error) {
	// 1. 签发
	token, claims, err := i.jwtManager.Issue(jwt.Subject{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Avatar: u.Avatar,
		Role:   u.Role,
	})
	if err != nil {
		return "", nil, err
	}

	now := claims.IssuedAt.Time

	// 2. 回写登录信息
	if err := i.recorder.UpdateLoginInfo(ctx, u.ID, token, now); err != nil {
		i.logger.Warn("回写登录信息失败",
			zap.Uint("user_id", u.ID),
			zap.Error(err),
		)
	} else {
		u.AccessToken = token
		u.LastLogin = &now
	}

	// 3. 保存会话
	if i.sessions != nil {
		session := redis.Session{
			Token:     token,
			Email:     u.Email,
			ClientIP:  clientIP,
			LoginAt:   now,
			ExpiresAt: time.Unix(claims.ExpiresIn, 0),
		}
		if err := i.sessions.SaveSession(ctx, u.ID, session, i.jwtManager.TTL()); err != nil {
			i.logger.Warn("保存登录会话失败",
				zap.Uint("user_id", u.ID),
				zap.Error(err),
			)
		}
	}

	return token, claims, nil
}
