package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xiebiao/bookreview/pkg/response"
	"github.com/xiebiao/bookreview/pkg/tracing"
)

// RequestIDHeader 请求ID响应头
const RequestIDHeader = "X-Request-ID"

// slowRequest 慢请求阈值
const slowRequest = 3 * time.Second

// Logger 请求日志中间件
// 1. 生成请求ID（沿用客户端传入的X-Request-ID）
// 2. 把带request_id的logger放入Context，response.Error记录5xx时使用
// 3. 请求结束后记录方法、路径、状态码、耗时、客户端IP、trace id
func Logger(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		log := base.With(zap.String("request_id", requestID))
		c.Set(response.LoggerKey, log)

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if traceID := tracing.ExtractTraceID(c.Request.Context()); traceID != "" {
			fields = append(fields, zap.String("trace_id", traceID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= 500:
			log.Error("HTTP请求", fields...)
		case latency > slowRequest:
			log.Warn("慢请求", fields...)
		default:
			log.Info("HTTP请求", fields...)
		}
	}
}
