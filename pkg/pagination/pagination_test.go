package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name         string
		page, limit  int
		wantPage     int
		wantLimit    int
		wantOffset   int
		defaultLimit int
	}{
		{"默认值", 0, 0, 1, 10, 0, 10},
		{"第二页", 2, 5, 2, 5, 5, 10},
		{"超过最大值", 1, 1000, 1, MaxLimit, 0, 10},
		{"负数", -3, -1, 1, 5, 0, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.page, tt.limit, tt.defaultLimit)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}

func TestNewSort(t *testing.T) {
	allowed := map[string]string{"createdAt": "created_at", "title": "title"}

	assert.Equal(t, "title ASC", NewSort("title", "ASC", allowed, "createdAt").Clause())
	assert.Equal(t, "created_at DESC", NewSort("", "", allowed, "createdAt").Clause())
	assert.Equal(t, "created_at DESC", NewSort("password; DROP TABLE users", "desc", allowed, "createdAt").Clause())
}
