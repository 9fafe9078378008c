package storage

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
)

// fileHeader 构造一个multipart文件头
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["file"][0]
}

func newTestStorage(maxSize int64) (*LocalStorage, afero.Fs) {
	cfg := &config.Config{Upload: config.UploadConfig{
		Root:      "public",
		URLPrefix: "/public/",
		UserDir:   "images/user",
		BookDir:   "images/book",
		MaxSize:   maxSize,
	}}
	fs := afero.NewMemMapFs()
	return NewLocalStorage(cfg, fs, zap.NewNop()), fs
}

func TestLocalStorage_Save(t *testing.T) {
	s, fs := newTestStorage(0)
	ctx := context.Background()

	t.Run("封面保存到图书目录", func(t *testing.T) {
		urlPath, err := s.Save(ctx, KindCover, fileHeader(t, "Cover.PNG", []byte("png-bytes")))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(urlPath, "/public/images/book/"))
		assert.True(t, strings.HasSuffix(urlPath, ".png"))

		disk := filepath.Join("public", "images", "book", filepath.Base(urlPath))
		data, err := afero.ReadFile(fs, disk)
		require.NoError(t, err)
		assert.Equal(t, "png-bytes", string(data))
	})

	t.Run("头像保存到用户目录且文件名不重复", func(t *testing.T) {
		a, err := s.Save(ctx, KindAvatar, fileHeader(t, "me.jpg", []byte("a")))
		require.NoError(t, err)
		b, err := s.Save(ctx, KindAvatar, fileHeader(t, "me.jpg", []byte("b")))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(a, "/public/images/user/"))
		assert.NotEqual(t, a, b)
	})

	t.Run("客户端路径不影响存储位置", func(t *testing.T) {
		urlPath, err := s.Save(ctx, KindAvatar, fileHeader(t, "../../etc/passwd", []byte("x")))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(urlPath, "/public/images/user/"))
		assert.NotContains(t, urlPath, "..")
	})

	t.Run("未知类别", func(t *testing.T) {
		_, err := s.Save(ctx, Kind("other"), fileHeader(t, "x.png", []byte("x")))
		assert.Error(t, err)
	})
}

func TestLocalStorage_MaxSize(t *testing.T) {
	s, _ := newTestStorage(4)

	_, err := s.Save(context.Background(), KindCover, fileHeader(t, "big.png", []byte("12345")))
	assert.True(t, errors.Is(err, ErrFileTooLarge))
}

func TestLocalStorage_Remove(t *testing.T) {
	s, fs := newTestStorage(0)
	ctx := context.Background()

	urlPath, err := s.Save(ctx, KindCover, fileHeader(t, "c.png", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, urlPath))
	exists, err := afero.Exists(fs, filepath.Join("public", "images", "book", filepath.Base(urlPath)))
	require.NoError(t, err)
	assert.False(t, exists)

	// 重复删除、空路径、前缀外路径都忽略
	assert.NoError(t, s.Remove(ctx, urlPath))
	assert.NoError(t, s.Remove(ctx, ""))
	assert.NoError(t, s.Remove(ctx, "/etc/passwd"))
}

// brokenFs 创建的文件写入总是失败
type brokenFs struct {
	afero.Fs
}

func (f brokenFs) Create(name string) (afero.File, error) {
	file, err := f.Fs.Create(name)
	if err != nil {
		return nil, err
	}
	return brokenFile{file}, nil
}

type brokenFile struct {
	afero.File
}

func (brokenFile) Write(p []byte) (int, error) {
	return 0, errors.New("no space left on device")
}

func TestLocalStorage_SaveFailureRemovesPartialFile(t *testing.T) {
	cfg := &config.Config{Upload: config.UploadConfig{
		Root:      "public",
		URLPrefix: "/public",
		UserDir:   "images/user",
		BookDir:   "images/book",
	}}
	mem := afero.NewMemMapFs()
	s := NewLocalStorage(cfg, brokenFs{mem}, zap.NewNop())

	_, err := s.Save(context.Background(), KindCover, fileHeader(t, "c.png", []byte("png-bytes")))
	require.Error(t, err)

	entries, err := afero.ReadDir(mem, filepath.Join("public", "images", "book"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
