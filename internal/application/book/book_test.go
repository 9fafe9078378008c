package book

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appreview "github.com/xiebiao/bookreview/internal/application/review"
	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/rating"
	"github.com/xiebiao/bookreview/internal/domain/review"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	"github.com/xiebiao/bookreview/internal/infrastructure/persistence/mysql"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

type fixture struct {
	users   user.Repository
	books   book.Repository
	reviews review.Repository

	add          *AddBookUseCase
	list         *ListBooksUseCase
	get          *GetBookUseCase
	del          *DeleteBookUseCase
	createReview *appreview.CreateReviewUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			Path:        filepath.Join(t.TempDir(), "book.db"),
			AutoMigrate: true,
		},
	}
	db, err := mysql.NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &fixture{
		users:   mysql.NewUserRepository(db),
		books:   mysql.NewBookRepository(db),
		reviews: mysql.NewReviewRepository(db),
	}
	tx := mysql.NewTxManager(db)
	bookService := book.NewService(f.books)
	reviewService := review.NewService(f.reviews)
	aggregator := rating.NewAggregator(f.reviews, f.books, nil, zap.NewNop())

	f.add = NewAddBookUseCase(bookService)
	f.list = NewListBooksUseCase(bookService)
	f.get = NewGetBookUseCase(bookService, reviewService, aggregator)
	f.del = NewDeleteBookUseCase(tx, bookService, f.reviews, zap.NewNop())
	f.createReview = appreview.NewCreateReviewUseCase(tx, reviewService, aggregator)
	return f
}

func (f *fixture) user(t *testing.T, name string) *user.User {
	t.Helper()
	u := user.NewUser(name, name+"@x.com", "hashed", "1", "")
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) review(t *testing.T, bookID, userID uint, rating int) {
	t.Helper()
	_, err := f.createReview.Execute(context.Background(), appreview.CreateReviewRequest{
		BookID: bookID, UserID: userID, Rating: rating,
	})
	require.NoError(t, err)
}

func TestAddAndListBooks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a")

	t.Run("缺少必填字段返回ValidationError", func(t *testing.T) {
		_, err := f.add.Execute(ctx, AddBookRequest{Title: "Dune", CreatedBy: a.ID})
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.CodeValidation, appErr.Code)
		assert.Equal(t, 500, appErr.Status)
	})

	info, err := f.add.Execute(ctx, AddBookRequest{
		Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi",
		CoverImage: "/public/images/book/x.png", CreatedBy: a.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, info.ID)
	assert.Nil(t, info.AverageRating)
	assert.Equal(t, a.ID, info.CreatedBy)

	_, err = f.add.Execute(ctx, AddBookRequest{Title: "Emma", Author: "Jane Austen", CreatedBy: a.ID})
	require.NoError(t, err)

	t.Run("search=dune&limit=1", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{Search: "dune", Limit: 1, Page: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
		require.Len(t, resp.Books, 1)
		assert.Equal(t, "Dune", resp.Books[0].Title)
		require.NotNil(t, resp.Books[0].Creator)
		assert.Equal(t, "a", resp.Books[0].Creator.Name)
	})

	t.Run("limit截断但total为全部匹配数", func(t *testing.T) {
		resp, err := f.list.Execute(ctx, ListBooksRequest{Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
		assert.Len(t, resp.Books, 1)
	})
}

func TestGetBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")

	info, err := f.add.Execute(ctx, AddBookRequest{Title: "Dune", Author: "Frank Herbert", CreatedBy: a.ID})
	require.NoError(t, err)

	t.Run("没有评论", func(t *testing.T) {
		detail, err := f.get.Execute(ctx, GetBookRequest{ID: info.ID})
		require.NoError(t, err)
		assert.Nil(t, detail.AverageRating)
		assert.Zero(t, detail.TotalReviews)
		assert.Empty(t, detail.Reviews)
	})

	f.review(t, info.ID, b.ID, 5)
	f.review(t, info.ID, c.ID, 2)

	t.Run("评分与存储字段一致，评论最新在前", func(t *testing.T) {
		detail, err := f.get.Execute(ctx, GetBookRequest{ID: info.ID})
		require.NoError(t, err)
		require.NotNil(t, detail.AverageRating)
		assert.Equal(t, 3.5, *detail.AverageRating)
		assert.Equal(t, int64(2), detail.TotalReviews)
		assert.Equal(t, 3.5, *detail.Book.AverageRating)
		assert.Equal(t, int64(2), detail.Book.ReviewsCount)

		stored, err := f.books.FindByID(ctx, info.ID)
		require.NoError(t, err)
		assert.Equal(t, *stored.AverageRating, *detail.AverageRating)

		require.Len(t, detail.Reviews, 2)
		assert.Equal(t, c.ID, detail.Reviews[0].UserID)
		require.NotNil(t, detail.Reviews[0].User)
		assert.Equal(t, "c@x.com", detail.Reviews[0].User.Email)
	})

	t.Run("评论分页", func(t *testing.T) {
		detail, err := f.get.Execute(ctx, GetBookRequest{ID: info.ID, Page: 2, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), detail.TotalReviews)
		require.Len(t, detail.Reviews, 1)
		assert.Equal(t, b.ID, detail.Reviews[0].UserID)
	})

	t.Run("不存在", func(t *testing.T) {
		_, err := f.get.Execute(ctx, GetBookRequest{ID: 999})
		assert.True(t, errors.Is(err, book.ErrBookNotFound))
	})
}

func TestDeleteBook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.user(t, "a")
	b := f.user(t, "b")

	dune, err := f.add.Execute(ctx, AddBookRequest{Title: "Dune", Author: "Frank Herbert", CreatedBy: a.ID})
	require.NoError(t, err)
	emma, err := f.add.Execute(ctx, AddBookRequest{Title: "Emma", Author: "Jane Austen", CreatedBy: a.ID})
	require.NoError(t, err)
	f.review(t, dune.ID, a.ID, 4)
	f.review(t, dune.ID, b.ID, 5)
	f.review(t, emma.ID, b.ID, 3)

	t.Run("非创建者和不存在返回同样的404", func(t *testing.T) {
		errOther := f.del.Execute(ctx, dune.ID, b.ID)
		errMissing := f.del.Execute(ctx, 999, a.ID)
		require.Error(t, errOther)
		require.Error(t, errMissing)
		assert.Equal(t, apperrors.GetAppError(errMissing).Message, apperrors.GetAppError(errOther).Message)
		assert.Equal(t, 404, apperrors.GetAppError(errOther).Status)

		_, count, err := f.reviews.Stats(ctx, dune.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("创建者删除并级联删除评论", func(t *testing.T) {
		require.NoError(t, f.del.Execute(ctx, dune.ID, a.ID))

		_, err := f.books.FindByID(ctx, dune.ID)
		assert.True(t, errors.Is(err, book.ErrBookNotFound))

		_, count, err := f.reviews.Stats(ctx, dune.ID)
		require.NoError(t, err)
		assert.Zero(t, count)

		// 其他图书的评论不受影响
		_, count, err = f.reviews.Stats(ctx, emma.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
