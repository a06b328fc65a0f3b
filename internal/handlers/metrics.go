package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackhellowin/portfolio-api/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// MetricsHandler exposes runtime, database and content gauges in the
// Prometheus text format.
type MetricsHandler struct {
	handler http.Handler
}

// NewMetricsHandler registers the portfolio gauges on reg.
func NewMetricsHandler(db *gorm.DB, reg *prometheus.Registry) *MetricsHandler {
	startTime := time.Now()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "portfolio_uptime_seconds",
			Help: "Time since server start in seconds",
		}, func() float64 { return time.Since(startTime).Seconds() }),
		countGauge(db, "portfolio_users_total", "Number of stored users", &models.User{}, nil),
		countGauge(db, "portfolio_works_total", "Number of portfolio works", &models.Work{}, nil),
		countGauge(db, "portfolio_refresh_tokens_active", "Refresh tokens neither revoked nor expired", &models.RefreshToken{},
			func(q *gorm.DB) *gorm.DB {
				return q.Where("revoked_at IS NULL AND expires_at > ?", time.Now().UTC())
			}),
	)
	if sqlDB, err := db.DB(); err == nil {
		reg.MustRegister(collectors.NewDBStatsCollector(sqlDB, "portfolio"))
	}

	return &MetricsHandler{handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
}

// Metrics
// GET /metrics
func (h *MetricsHandler) Metrics(c *gin.Context) {
	h.handler.ServeHTTP(c.Writer, c.Request)
}

func countGauge(db *gorm.DB, name, help string, model interface{}, scope func(*gorm.DB) *gorm.DB) prometheus.GaugeFunc {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, func() float64 {
		var count int64
		query := db.Model(model)
		if scope != nil {
			query = scope(query)
		}
		if err := query.Count(&count).Error; err != nil {
			return -1
		}
		return float64(count)
	})
}
