// Package metrics 提供基于Prometheus的指标收集
//
// 指标分两类：
//   - HTTP请求指标：由中间件记录（请求数、耗时、处理中的请求数）
//   - 业务指标：评论变更、评分重算、登录结果、事件发布
//
// 命名规范：Counter以_total结尾，Histogram以单位结尾（_seconds）。
// 标签只使用有限取值（method、route、status、result），不使用user_id、book_id等高基数值。
//
// 使用示例：
//
//	metrics.InitMetrics()
//	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
//	start := time.Now()
//	err := doRecalculate(ctx)
//	metrics.ObserveRecalculation(time.Since(start), err)
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	once sync.Once

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、route（/api/books/:id）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	// 桶设置：1ms、10ms、100ms、500ms、1s、5s、10s
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数（Gauge）
	HTTPRequestsInProgress prometheus.Gauge

	// 业务指标

	// ReviewMutationsTotal 评论变更总数
	// 标签：action（create/update/delete）、result（success/failure）
	ReviewMutationsTotal *prometheus.CounterVec

	// RatingRecalculationsTotal 评分重算总数
	// 标签：result（success/failure）
	RatingRecalculationsTotal *prometheus.CounterVec

	// RatingRecalculationDuration 评分重算耗时（含行锁等待）
	RatingRecalculationDuration prometheus.Histogram

	// LoginsTotal 登录总数
	// 标签：result（success/not_found/invalid_credential/error）
	LoginsTotal *prometheus.CounterVec

	// 消息队列指标

	// MessagesPublishedTotal 消息发布总数
	// 标签：routing_key、result
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 使用promauto注册到默认Registry，重复调用安全
func InitMetrics() {
	once.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "route", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "route"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		ReviewMutationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reviews_mutations_total",
				Help: "评论变更总数",
			},
			[]string{"action", "result"},
		)

		RatingRecalculationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rating_recalculations_total",
				Help: "评分重算总数",
			},
			[]string{"result"},
		)

		RatingRecalculationDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rating_recalculation_duration_seconds",
				Help:    "评分重算耗时（秒）",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
		)

		LoginsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "logins_total",
				Help: "登录总数",
			},
			[]string{"result"},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// resultOf 根据错误返回result标签
func resultOf(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

// ObserveRecalculation 记录一次评分重算
func ObserveRecalculation(d time.Duration, err error) {
	InitMetrics()
	RatingRecalculationsTotal.WithLabelValues(resultOf(err)).Inc()
	RatingRecalculationDuration.Observe(d.Seconds())
}

// IncReviewMutation 记录一次评论变更
func IncReviewMutation(action string, err error) {
	InitMetrics()
	ReviewMutationsTotal.WithLabelValues(action, resultOf(err)).Inc()
}

// IncLogin 记录登录结果
func IncLogin(result string) {
	InitMetrics()
	LoginsTotal.WithLabelValues(result).Inc()
}

// IncPublished 记录一次消息发布
func IncPublished(routingKey string, err error) {
	InitMetrics()
	MessagesPublishedTotal.WithLabelValues(routingKey, resultOf(err)).Inc()
}

// IncCounterVec 递增CounterVec（带标签）
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// ObserveHistogramVec 记录HistogramVec观测值（带标签）
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
