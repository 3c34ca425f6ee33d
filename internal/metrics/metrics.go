// Package metrics 风险分析服务的 Prometheus 指标。
package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "token_risk"

var (
	// ProviderRequestsTotal 按数据源和结果(ok/unavailable)计数
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Total provider requests by provider and result.",
		},
		[]string{"provider", "result"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_duration_seconds",
			Help:      "Provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total completed analyses by recommended action.",
		},
		[]string{"action"},
	)

	RiskScore = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "risk_score",
		Help:      "Distribution of final risk scores.",
		Buckets:   []float64{60, 65, 70, 75, 80, 85, 90, 95, 100},
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	PublishedReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "published_reports_total",
			Help:      "Total report publish attempts by publisher and result.",
		},
		[]string{"publisher", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		ProviderRequestsTotal,
		ProviderRequestDuration,
		AnalysesTotal,
		RiskScore,
		HTTPRequestsTotal,
		PublishedReportsTotal,
	)
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "unavailable"
}

// ObserveProvider 记录一次数据源请求
func ObserveProvider(provider string, ok bool, seconds float64) {
	ProviderRequestsTotal.WithLabelValues(provider, result(ok)).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(seconds)
}

func ObserveAnalysis(action string, score float64) {
	AnalysesTotal.WithLabelValues(action).Inc()
	RiskScore.Observe(score)
}

func ObservePublish(publisher string, err error) {
	r := "ok"
	if err != nil {
		r = "error"
	}
	PublishedReportsTotal.WithLabelValues(publisher, r).Inc()
}

// Middleware 记录请求数，path 使用路由模板
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
	}
}

// Handler /metrics
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
