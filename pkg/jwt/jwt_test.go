package jwt

import (
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

func TestManager_IssueAndDecode(t *testing.T) {
	m := NewManager("test-secret", 0)
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	token, claims, err := m.Issue(Subject{
		ID:    7,
		Email: "a@x.com",
		Name:  "Alice",
		Role:  "User",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, fixed.Add(24*time.Hour).Unix(), claims.ExpiresIn)

	decoded, err := m.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), decoded.ID)
	assert.Equal(t, "a@x.com", decoded.Email)
	assert.Equal(t, "Alice", decoded.Name)
	assert.Equal(t, "User", decoded.Role)
	assert.Equal(t, claims.ExpiresIn, decoded.ExpiresIn)
	assert.Nil(t, decoded.ExpiresAt)
}

func TestManager_Decode(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	t.Run("伪造签名", func(t *testing.T) {
		other := NewManager("other-secret", time.Hour)
		token, _, err := other.Issue(Subject{ID: 1})
		require.NoError(t, err)

		_, err = m.Decode(token)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := m.Decode("not-a-token")
		assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
	})

	t.Run("非HMAC算法", func(t *testing.T) {
		token := gojwt.NewWithClaims(gojwt.SigningMethodNone, &Claims{ID: 1})
		s, err := token.SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Decode(s)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidToken))
	})

	t.Run("过期凭证仍可解码", func(t *testing.T) {
		m.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
		defer func() { m.now = time.Now }()

		token, _, err := m.Issue(Subject{ID: 1})
		require.NoError(t, err)

		claims, err := m.Decode(token)
		require.NoError(t, err)
		assert.True(t, claims.Expired(time.Now()))
	})
}

func TestClaims_Remaining(t *testing.T) {
	issued := time.Unix(1700000000, 0)
	m := NewManager("secret", time.Hour).WithClock(func() time.Time { return issued })

	_, claims, err := m.Issue(Subject{ID: 1})
	require.NoError(t, err)

	assert.Equal(t, issued, m.Now())
	assert.Equal(t, time.Hour, claims.Remaining(issued))
	assert.Equal(t, -time.Minute, claims.Remaining(issued.Add(61*time.Minute)))
	assert.True(t, claims.Expired(issued.Add(61*time.Minute)))
}
