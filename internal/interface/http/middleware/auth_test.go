package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers struct {
	users map[uint]*user.User
	err   error
}

func (f *fakeUsers) FindByID(_ context.Context, id uint) (*user.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrUserNotFound
}

type fakeBlacklist struct {
	tokens map[string]bool
	err    error
}

func (f *fakeBlacklist) IsInBlacklist(_ context.Context, token string) (bool, error) {
	return f.tokens[token], f.err
}

type authFixture struct {
	jwt       *jwt.Manager
	users     *fakeUsers
	blacklist *fakeBlacklist
	mw        *AuthMiddleware
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		jwt: jwt.NewManager("test-secret", time.Hour),
		users: &fakeUsers{users: map[uint]*user.User{
			1: {ID: 1, Name: "alice", Email: "a@x.com", Role: user.RoleUser},
			2: {ID: 2, Name: "root", Email: "root@x.com", Role: user.RoleAdmin},
			3: {ID: 3, Name: "ed", Email: "e@x.com", Role: "Editor"},
		}},
		blacklist: &fakeBlacklist{tokens: map[string]bool{}},
	}
	f.mw = NewAuthMiddleware(f.jwt, f.users, f.blacklist, zap.NewNop())
	return f
}

func (f *authFixture) token(t *testing.T, id uint, role string) string {
	t.Helper()
	tok, _, err := f.jwt.Issue(jwt.Subject{ID: id, Email: "x@x.com", Name: "n", Role: role})
	require.NoError(t, err)
	return tok
}

// serve 在受保护路由上执行一次请求，返回响应和处理函数看到的身份
func (f *authFixture) serve(t *testing.T, header string, roles ...string) (*httptest.ResponseRecorder, *Identity, bool) {
	t.Helper()
	var (
		seen    *Identity
		reached bool
	)
	r := gin.New()
	r.GET("/p", f.mw.EnsureAuth(roles...), func(c *gin.Context) {
		reached = true
		seen = GetIdentity(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w, seen, reached
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	msg, _ := body["message"].(string)
	return msg
}

func TestEnsureAuth_NoCredential(t *testing.T) {
	f := newAuthFixture()

	w, id, reached := f.serve(t, "", RoleGuest)
	assert.True(t, reached)
	assert.Nil(t, id)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _, reached = f.serve(t, "", user.RoleUser)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not authorized", message(t, w))
}

func TestEnsureAuth_Token(t *testing.T) {
	f := newAuthFixture()

	w, id, reached := f.serve(t, "Bearer "+f.token(t, 1, user.RoleUser), user.RoleUser)
	require.True(t, reached)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, id)
	assert.Equal(t, uint(1), id.ID)
	assert.Equal(t, user.RoleUser, id.Role)
	assert.False(t, id.Global)

	// 不带Bearer前缀也接受
	_, _, reached = f.serve(t, f.token(t, 1, user.RoleUser), user.RoleUser)
	assert.True(t, reached)
}

func TestEnsureAuth_Rejections(t *testing.T) {
	f := newAuthFixture()

	expiredManager := jwt.NewManager("test-secret", time.Hour).WithClock(func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	})
	expired, _, err := expiredManager.Issue(jwt.Subject{ID: 1, Role: user.RoleUser})
	require.NoError(t, err)

	otherSecret, _, err := jwt.NewManager("other", time.Hour).Issue(jwt.Subject{ID: 1})
	require.NoError(t, err)

	revoked := f.token(t, 1, user.RoleUser)
	f.blacklist.tokens[revoked] = true

	tests := []struct {
		name    string
		header  string
		roles   []string
		status  int
		message string
	}{
		{"损坏的Token", "Bearer garbage", []string{user.RoleUser}, http.StatusUnauthorized, "Invalid token"},
		{"签名不符", "Bearer " + otherSecret, []string{user.RoleUser}, http.StatusUnauthorized, "Invalid token"},
		{"已过期", "Bearer " + expired, []string{user.RoleUser}, http.StatusUnauthorized, "Token expired"},
		{"Guest路由携带过期Token", "Bearer " + expired, []string{RoleGuest}, http.StatusUnauthorized, "Token expired"},
		{"已登出", "Bearer " + revoked, []string{user.RoleUser}, http.StatusUnauthorized, "Token revoked"},
		{"用户不存在", "Bearer " + f.token(t, 99, user.RoleUser), []string{user.RoleUser}, http.StatusNotFound, "User not found"},
		{"角色不符", "Bearer " + f.token(t, 3, "Editor"), []string{user.RoleUser}, http.StatusForbidden, "Not authorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, reached := f.serve(t, tt.header, tt.roles...)
			assert.False(t, reached)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, message(t, w))
		})
	}
}

func TestEnsureAuth_RoleFromStore(t *testing.T) {
	f := newAuthFixture()

	// Token里声明Admin，但数据库中是User：以数据库为准
	w, _, reached := f.serve(t, "Bearer "+f.token(t, 1, user.RoleAdmin), "Editor")
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 管理员放行任意路由
	_, id, reached := f.serve(t, "Bearer "+f.token(t, 2, user.RoleUser), "Editor")
	require.True(t, reached)
	assert.True(t, id.Global)
	assert.Equal(t, user.RoleAdmin, id.Role)

	// Guest路由对任意有效Token放行并附加身份
	_, id, reached = f.serve(t, "Bearer "+f.token(t, 3, "Editor"), RoleGuest)
	require.True(t, reached)
	assert.Equal(t, uint(3), id.ID)
}

func TestEnsureAuth_StoreFailure(t *testing.T) {
	f := newAuthFixture()
	tok := f.token(t, 1, user.RoleUser)

	f.users.err = errors.New("connection refused")
	w, _, reached := f.serve(t, "Bearer "+tok, user.RoleUser)
	assert.False(t, reached)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", message(t, w))

	f.users.err = nil
	f.blacklist.err = errors.New("redis down")
	w, _, reached = f.serve(t, "Bearer "+tok, user.RoleUser)
	assert.False(t, reached)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestEnsureAuth_NilBlacklist(t *testing.T) {
	f := newAuthFixture()
	f.mw = NewAuthMiddleware(f.jwt, f.users, nil, zap.NewNop())

	_, _, reached := f.serve(t, "Bearer "+f.token(t, 1, user.RoleUser), user.RoleUser)
	assert.True(t, reached)
}

func TestStripBearer(t *testing.T) {
	assert.Equal(t, "abc", stripBearer("Bearer abc"))
	assert.Equal(t, "abc", stripBearer("Bearer   abc"))
	assert.Equal(t, "abc", stripBearer("abc"))
	assert.Equal(t, "Bearerabc", stripBearer("Bearerabc"))
	assert.Equal(t, "bearer abc", stripBearer("bearer abc"))
}
