package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// Kind 上传文件类别
type Kind string

const (
	KindAvatar Kind = "avatar" // 用户头像
	KindCover  Kind = "cover"  // 图书封面
)

// ErrFileTooLarge 上传文件超过大小限制
var ErrFileTooLarge = apperrors.New("FileTooLarge", http.StatusRequestEntityTooLarge, "File too large")

// Uploader 上传文件存储接口（handler依赖此接口）
type Uploader interface {
	// Save 保存上传文件，返回以URL前缀开头的相对路径
	Save(ctx context.Context, kind Kind, file *multipart.FileHeader) (string, error)

	// Remove 删除Save返回的文件（业务失败时清理）
	Remove(ctx context.Context, urlPath string) error
}

// LocalStorage 本地磁盘存储
// 磁盘路径：{Root}/{UserDir|BookDir}/{uuid}{ext}
// 记录路径：{URLPrefix}/{UserDir|BookDir}/{uuid}{ext}
type LocalStorage struct {
	fs        afero.Fs
	root      string
	urlPrefix string
	dirs      map[Kind]string
	maxSize   int64
	logger    *zap.Logger
}

// NewLocalStorage 创建本地存储
func NewLocalStorage(cfg *config.Config, fs afero.Fs, logger *zap.Logger) *LocalStorage {
	return &LocalStorage{
		fs:        fs,
		root:      cfg.Upload.Root,
		urlPrefix: "/" + strings.Trim(cfg.Upload.URLPrefix, "/"),
		dirs: map[Kind]string{
			KindAvatar: strings.Trim(cfg.Upload.UserDir, "/"),
			KindCover:  strings.Trim(cfg.Upload.BookDir, "/"),
		},
		maxSize: cfg.Upload.MaxSize,
		logger:  logger,
	}
}

// NewOsStorage 使用真实文件系统
func NewOsStorage(cfg *config.Config, logger *zap.Logger) *LocalStorage {
	return NewLocalStorage(cfg, afero.NewOsFs(), logger)
}

// Save 保存上传文件
// 文件名为uuid加原始扩展名，不信任客户端文件名
func (s *LocalStorage) Save(ctx context.Context, kind Kind, file *multipart.FileHeader) (string, error) {
	dir, ok := s.dirs[kind]
	if !ok {
		return "", apperrors.Wrapf(fmt.Errorf("unknown kind %q", kind), "未知的上传类别")
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", ErrFileTooLarge
	}

	// 1. 确保目录存在
	diskDir := filepath.Join(s.root, filepath.FromSlash(dir))
	if err := s.fs.MkdirAll(diskDir, 0o755); err != nil {
		return "", apperrors.Wrap(err, "创建上传目录失败")
	}

	// 2. 生成文件名
	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))

	// 3. 写入
	src, err := file.Open()
	if err != nil {
		return "", apperrors.Wrap(err, "读取上传文件失败")
	}
	defer src.Close()

	diskPath := filepath.Join(diskDir, name)
	dst, err := s.fs.Create(diskPath)
	if err != nil {
		return "", apperrors.Wrap(err, "保存上传文件失败")
	}
	_, err = io.Copy(dst, src)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		// 删除写了一半的文件
		if rmErr := s.fs.Remove(diskPath); rmErr != nil {
			s.logger.Warn("删除未写完的上传文件失败", zap.String("path", diskPath), zap.Error(rmErr))
		}
		return "", apperrors.Wrap(err, "保存上传文件失败")
	}

	urlPath := path.Join(s.urlPrefix, dir, name)
	s.logger.Debug("文件已上传",
		zap.String("kind", string(kind)),
		zap.String("path", urlPath),
		zap.Int64("size", file.Size),
	)
	return urlPath, nil
}

// Remove 删除文件
// 只接受URL前缀下的路径，其它路径忽略
func (s *LocalStorage) Remove(ctx context.Context, urlPath string) error {
	rel, ok := strings.CutPrefix(path.Clean(urlPath), s.urlPrefix+"/")
	if !ok || rel == "" {
		return nil
	}
	err := s.fs.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(err, "删除上传文件失败")
	}
	return nil
}
