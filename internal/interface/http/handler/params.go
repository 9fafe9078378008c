package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/internal/infrastructure/storage"
	apperrors "github.com/xiebiao/bookreview/pkg/errors"
)

// parseID 解析路径中的ID参数
// 非数字或0返回invalid（各资源有各自的提示信息）
func parseID(c *gin.Context, name string, invalid error) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, invalid
	}
	return uint(id), nil
}

// bindError 参数绑定失败按ValidationError返回
func bindError(err error) error {
	return apperrors.Validation(err.Error())
}

// optionalFile 读取可选的上传文件
// 非multipart请求或未携带该字段时返回nil
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.Validation(err.Error())
	}
	return fh, nil
}

// saveUpload 保存可选的上传文件，返回对外访问路径（未上传时为空串）
func saveUpload(c *gin.Context, uploader storage.Uploader, field string, kind storage.Kind) (string, error) {
	fh, err := optionalFile(c, field)
	if err != nil || fh == nil {
		return "", err
	}
	return uploader.Save(c.Request.Context(), kind, fh)
}

// discardUpload 业务失败后删除已保存的文件（失败只记录日志）
func discardUpload(ctx context.Context, uploader storage.Uploader, logger *zap.Logger, urlPath string) {
	if urlPath == "" {
		return
	}
	if err := uploader.Remove(ctx, urlPath); err != nil {
		logger.Warn("删除上传文件失败", zap.String("path", urlPath), zap.Error(err))
	}
}
