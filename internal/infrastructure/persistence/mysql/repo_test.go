package mysql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// newTestDB 每个测试一个临时SQLite文件
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			Path:        filepath.Join(t.TempDir(), "test.db"),
			AutoMigrate: true,
		},
	}
	db, err := NewDB(cfg, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, repo user.Repository, name, email string) *user.User {
	t.Helper()
	u := user.NewUser(name, email, "hashed", "13800000000", "")
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createBook(t *testing.T, repo book.Repository, title, author, genre string, createdBy uint) *book.Book {
	t.Helper()
	b := book.NewBook(title, author, genre, "", createdBy)
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := createUser(t, repo, "Alice", "alice@example.com")
	createUser(t, repo, "Bob", "bob@example.com")
	assert.NotZero(t, alice.ID)

	t.Run("邮箱重复返回409", func(t *testing.T) {
		dup := user.NewUser("Alice2", "alice@example.com", "hashed", "1", "")
		err := repo.Create(ctx, dup)
		assert.True(t, errors.Is(err, user.ErrEmailDuplicate))
		assert.Equal(t, 409, apperrors.GetAppError(err).Status)
	})

	t.Run("按邮箱查找", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)
		assert.Equal(t, "hashed", found.Password)
		assert.Equal(t, user.RoleUser, found.Role)

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.True(t, errors.Is(err, user.ErrUserNotFound))
	})

	t.Run("列表不返回密码并支持搜索", func(t *testing.T) {
		users, total, err := repo.List(ctx, user.ListParams{Search: "ALI"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, users, 1)
		assert.Equal(t, "Alice", users[0].Name)
		assert.Empty(t, users[0].Password)

		users, total, err = repo.List(ctx, user.ListParams{OrderBy: "name", Order: "asc"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, "Alice", users[0].Name)
		assert.Equal(t, "Bob", users[1].Name)
	})

	t.Run("回写登录信息", func(t *testing.T) {
		at := time.Now().Truncate(time.Second)
		require.NoError(t, repo.UpdateLoginInfo(ctx, alice.ID, "token-1", at))
		// 相同值再次写入不报错
		require.NoError(t, repo.UpdateLoginInfo(ctx, alice.ID, "token-1", at))

		found, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "token-1", found.AccessToken)
		require.NotNil(t, found.LastLogin)
		assert.True(t, found.LastLogin.Equal(at))
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, alice.ID))
		_, err := repo.FindByID(ctx, alice.ID)
		assert.True(t, errors.Is(err, user.ErrUserNotFound))

		err = repo.Delete(ctx, alice.ID)
		assert.True(t, errors.Is(err, user.ErrUserNotFound))
	})
}

func TestBookRepository_List(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewBookRepository(db)
	ctx := context.Background()

	owner := createUser(t, users, "Owner", "owner@example.com")
	createBook(t, repo, "Dune", "Frank Herbert", "Sci-Fi", owner.ID)
	createBook(t, repo, "Emma", "Jane Austen", "Romance", owner.ID)
	createBook(t, repo, "Persuasion", "Jane Austen", "Romance", owner.ID)
	createBook(t, repo, "100%_Pure", "Someone", "Misc", owner.ID)

	t.Run("默认按创建时间倒序并填充创建者", func(t *testing.T) {
		books, total, err := repo.List(ctx, book.ListParams{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, books, 4)
		assert.Equal(t, "100%_Pure", books[0].Title)
		require.NotNil(t, books[0].Creator)
		assert.Equal(t, "Owner", books[0].Creator.Name)
		assert.Equal(t, "owner@example.com", books[0].Creator.Email)
	})

	t.Run("search在书名作者类型中不区分大小写匹配", func(t *testing.T) {
		books, total, err := repo.List(ctx, book.ListParams{Search: "austen"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, books, 2)

		_, total, err = repo.List(ctx, book.ListParams{Search: "sci-fi"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("search与genre为AND关系", func(t *testing.T) {
		books, total, err := repo.List(ctx, book.ListParams{Search: "e", Genre: "romance"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		for _, b := range books {
			assert.Equal(t, "Romance", b.Genre)
		}
	})

	t.Run("通配符按字面量处理", func(t *testing.T) {
		books, total, err := repo.List(ctx, book.ListParams{Search: "%_"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, books, 1)
		assert.Equal(t, "100%_Pure", books[0].Title)
	})

	t.Run("分页与排序", func(t *testing.T) {
		books, total, err := repo.List(ctx, book.ListParams{OrderBy: "title", Order: "asc", Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, books, 2)
		assert.Equal(t, "Emma", books[0].Title)
		assert.Equal(t, "Persuasion", books[1].Title)
	})

	t.Run("未知排序字段回退到创建时间", func(t *testing.T) {
		books, _, err := repo.List(ctx, book.ListParams{OrderBy: "password"})
		require.NoError(t, err)
		assert.Equal(t, "100%_Pure", books[0].Title)
	})
}

func TestUserRepository_SortFields(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	create := func(name, phone, avatar string) *user.User {
		u := user.NewUser(name, name+"@example.com", "hashed", phone, avatar)
		require.NoError(t, repo.Create(ctx, u))
		return u
	}
	carol := create("carol", "300", "/images/user/b.png")
	amy := create("amy", "100", "/images/user/c.png")
	ben := create("ben", "200", "/images/user/a.png")

	require.NoError(t, db.Model(&UserModel{}).Where("id = ?", amy.ID).Update("role", user.RoleAdmin).Error)

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLoginInfo(ctx, carol.ID, "t1", base.Add(2*time.Hour)))
	require.NoError(t, repo.UpdateLoginInfo(ctx, amy.ID, "t2", base.Add(time.Hour)))
	require.NoError(t, repo.UpdateLoginInfo(ctx, ben.ID, "t3", base))

	tests := []struct {
		orderBy string
		order   string
		want    []string
	}{
		{"id", "asc", []string{"carol", "amy", "ben"}},
		{"id", "desc", []string{"ben", "amy", "carol"}},
		{"name", "asc", []string{"amy", "ben", "carol"}},
		{"email", "desc", []string{"carol", "ben", "amy"}},
		{"phoneNumber", "asc", []string{"amy", "ben", "carol"}},
		{"phoneNumber", "desc", []string{"carol", "ben", "amy"}},
		{"avatar", "asc", []string{"ben", "carol", "amy"}},
		{"role", "asc", []string{"amy", "ben", "carol"}},
		{"lastLogin", "asc", []string{"ben", "amy", "carol"}},
		{"phoneNumber", "ASC", []string{"amy", "ben", "carol"}},
	}

	for _, tt := range tests {
		t.Run(tt.orderBy+" "+tt.order, func(t *testing.T) {
			users, total, err := repo.List(ctx, user.ListParams{OrderBy: tt.orderBy, Order: tt.order})
			require.NoError(t, err)
			assert.Equal(t, int64(3), total)

			names := make([]string, len(users))
			for i, u := range users {
				names[i] = u.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestBookRepository_SortFields(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewBookRepository(db)
	ctx := context.Background()

	first := createUser(t, users, "First", "first@example.com")
	second := createUser(t, users, "Second", "second@example.com")
	third := createUser(t, users, "Third", "third@example.com")

	create := func(title, cover string, owner uint) {
		b := book.NewBook(title, "Author", "Genre", cover, owner)
		require.NoError(t, repo.Create(ctx, b))
	}
	create("Dune", "/images/book/c.jpg", second.ID)
	create("Emma", "/images/book/a.jpg", third.ID)
	create("Zorba", "/images/book/b.jpg", first.ID)

	tests := []struct {
		orderBy string
		order   string
		want    []string
	}{
		{"id", "asc", []string{"Dune", "Emma", "Zorba"}},
		{"id", "desc", []string{"Zorba", "Emma", "Dune"}},
		{"coverImage", "asc", []string{"Emma", "Zorba", "Dune"}},
		{"createdBy", "asc", []string{"Zorba", "Dune", "Emma"}},
		{"createdBy", "desc", []string{"Emma", "Dune", "Zorba"}},
		{"title", "desc", []string{"Zorba", "Emma", "Dune"}},
	}

	for _, tt := range tests {
		t.Run(tt.orderBy+" "+tt.order, func(t *testing.T) {
			books, _, err := repo.List(ctx, book.ListParams{OrderBy: tt.orderBy, Order: tt.order})
			require.NoError(t, err)

			titles := make([]string, len(books))
			for i, b := range books {
				titles[i] = b.Title
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestBookRepository_RatingAndDelete(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	repo := NewBookRepository(db)
	tx := NewTxManager(db)
	ctx := context.Background()

	owner := createUser(t, users, "Owner", "owner@example.com")
	b := createBook(t, repo, "Dune", "Frank Herbert", "Sci-Fi", owner.ID)

	found, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, found.AverageRating)
	assert.Zero(t, found.ReviewsCount)

	avg := 4.5
	err = tx.Transaction(ctx, func(ctx context.Context) error {
		if _, err := repo.LockByID(ctx, b.ID); err != nil {
			return err
		}
		return repo.UpdateRating(ctx, b.ID, &avg, 2)
	})
	require.NoError(t, err)

	found, err = repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, found.AverageRating)
	assert.Equal(t, 4.5, *found.AverageRating)
	assert.Equal(t, int64(2), found.ReviewsCount)

	// 清空为nil
	require.NoError(t, repo.UpdateRating(ctx, b.ID, nil, 0))
	found, err = repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, found.AverageRating)

	_, err = repo.LockByID(ctx, 9999)
	assert.True(t, errors.Is(err, book.ErrBookNotFound))

	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, b.ID), book.ErrBookNotFound))
}

func TestReviewRepository(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	books := NewBookRepository(db)
	repo := NewReviewRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "Alice", "alice@example.com")
	bob := createUser(t, users, "Bob", "bob@example.com")
	b := createBook(t, books, "Dune", "Frank Herbert", "Sci-Fi", alice.ID)
	other := createBook(t, books, "Emma", "Jane Austen", "Romance", alice.ID)

	r1 := review.NewReview(b.ID, alice.ID, 5, "great")
	require.NoError(t, repo.Create(ctx, r1))
	r2 := review.NewReview(b.ID, bob.ID, 2, "meh")
	require.NoError(t, repo.Create(ctx, r2))
	require.NoError(t, repo.Create(ctx, review.NewReview(other.ID, bob.ID, 4, "")))

	t.Run("同一用户重复评论返回409", func(t *testing.T) {
		err := repo.Create(ctx, review.NewReview(b.ID, alice.ID, 3, "again"))
		assert.True(t, errors.Is(err, review.ErrAlreadyReviewed))
		assert.Equal(t, 409, apperrors.GetAppError(err).Status)
	})

	t.Run("统计平均分和数量", func(t *testing.T) {
		avg, count, err := repo.Stats(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 3.5, avg)
		assert.Equal(t, int64(2), count)

		avg, count, err = repo.Stats(ctx, 9999)
		require.NoError(t, err)
		assert.Zero(t, avg)
		assert.Zero(t, count)
	})

	t.Run("列表最新在前并填充评论者", func(t *testing.T) {
		reviews, total, err := repo.ListByBook(ctx, b.ID, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, reviews, 2)
		assert.Equal(t, r2.ID, reviews[0].ID)
		require.NotNil(t, reviews[0].Reviewer)
		assert.Equal(t, "Bob", reviews[0].Reviewer.Name)
		assert.Equal(t, "bob@example.com", reviews[0].Reviewer.Email)

		reviews, _, err = repo.ListByBook(ctx, b.ID, 2, 1)
		require.NoError(t, err)
		require.Len(t, reviews, 1)
		assert.Equal(t, r1.ID, reviews[0].ID)
	})

	t.Run("更新", func(t *testing.T) {
		r2.Rating = 4
		r2.Comment = "better"
		require.NoError(t, repo.Update(ctx, r2))

		found, err := repo.FindByID(ctx, r2.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, found.Rating)
		assert.Equal(t, "better", found.Comment)
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, r1.ID))
		_, err := repo.FindByID(ctx, r1.ID)
		assert.True(t, errors.Is(err, review.ErrReviewNotFound))
		assert.True(t, errors.Is(repo.Delete(ctx, r1.ID), review.ErrReviewNotFound))

		// 删除后可以重新评论
		require.NoError(t, repo.Create(ctx, review.NewReview(b.ID, alice.ID, 1, "")))
	})

	t.Run("按图书批量删除", func(t *testing.T) {
		n, err := repo.DeleteByBook(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		_, count, err := repo.Stats(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}

func TestTxManager_Rollback(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	books := NewBookRepository(db)
	tx := NewTxManager(db)
	ctx := context.Background()

	owner := createUser(t, users, "Owner", "owner@example.com")
	boom := errors.New("boom")

	err := tx.Transaction(ctx, func(ctx context.Context) error {
		b := book.NewBook("Emma", "Jane Austen", "", "", owner.ID)
		if err := books.Create(ctx, b); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, total, err := books.List(ctx, book.ListParams{Search: "emma"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
}
