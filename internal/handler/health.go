package handler

import (
	"context"
	"net/http"
	"time"

	"sevensystem/internal/infra"
	"sevensystem/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// The registry must answer; Redis is optional and reported as "disabled"
// when not configured. Never exposes credentials or internals.
func Health(registry *gorm.DB, rdb *redis.Client, alertasCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := registry.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "disabled"
		var dlq int64
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			} else if n, err := worker.DLQLength(ctx, rdb, worker.QueueAlertas); err == nil {
				dlq = n
			}
		}

		status := http.StatusOK
		if dbStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
		}
		if rdb != nil {
			body["alertas_dlq"] = dlq
		}
		if alertasCB != nil {
			body["alertas"] = alertasCB.State().String()
		}
		c.JSON(status, body)
	}
}
