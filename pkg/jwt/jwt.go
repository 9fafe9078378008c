package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// DefaultTTL 凭证默认有效期
const DefaultTTL = 24 * time.Hour

// Manager JWT管理器
// 设计说明：
// 1. 单Token机制：登录只签发一个Access Token
// 2. 过期时间写在自定义字段expiresIn（秒级时间戳）中，由鉴权中间件判断
// 3. 不写标准exp字段，解码只校验签名和结构
type Manager struct {
	secret string        // 签名密钥
	ttl    time.Duration // 有效期
	now    func() time.Time
}

// NewManager 创建JWT管理器
func NewManager(secret string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Subject 签发凭证需要的用户信息
type Subject struct {
	ID     uint
	Email  string
	Name   string
	Avatar string
	Role   string
}

// Claims 凭证载荷
type Claims struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Role      string `json:"role"`
	ExpiresIn int64  `json:"expiresIn"`
	jwt.RegisteredClaims
}

// Expired 判断凭证在给定时间是否已过期
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresIn < now.Unix()
}

// Remaining 剩余有效期（已过期时为负数）
func (c *Claims) Remaining(now time.Time) time.Duration {
	return time.Unix(c.ExpiresIn, 0).Sub(now)
}

// TTL 返回有效期
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Now 当前时间
func (m *Manager) Now() time.Time {
	return m.now()
}

// WithClock 替换时钟（测试中签发过期凭证）
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Issue 签发凭证
func (m *Manager) Issue(sub Subject) (string, *Claims, error) {
	now := m.now()

	claims := &Claims{
		ID:        sub.ID,
		Email:     sub.Email,
		Name:      sub.Name,
		Avatar:    sub.Avatar,
		Role:      sub.Role,
		ExpiresIn: now.Add(m.ttl).Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", nil, apperrors.Wrap(err, "签发Token失败")
	}

	return signed, claims, nil
}

// Decode 解析并验证Token
// 签名错误、算法不符、结构损坏统一返回ErrInvalidToken
func (m *Manager) Decode(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	})
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, apperrors.ErrInvalidToken
}
