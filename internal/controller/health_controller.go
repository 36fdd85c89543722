package controller

import (
	"context"
	"net/http"
	"time"

	"puzzle_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

// HealthController 报告数据库和(启用时)Redis 的状态
type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// NewHealthController rdb 为 nil 表示未启用 Redis，不出现在结果里
func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

func (c *HealthController) pingDatabase(ctx context.Context) bool {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(ctx) == nil
}

func status(up bool) string {
	if up {
		return "up"
	}
	return "down"
}

// HealthCheck 任一组件不可用时返回 503，并列出各组件状态
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthTimeout)
	defer cancel()

	healthy := c.pingDatabase(reqCtx)
	components := gin.H{"database": status(healthy)}
	if c.Redis != nil {
		up := c.Redis.Ping(reqCtx).Err() == nil
		components["redis"] = status(up)
		healthy = healthy && up
	}

	if !healthy {
		ctx.JSON(http.StatusServiceUnavailable, util.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "Service unavailable",
			Data:    gin.H{"status": "degraded", "components": components},
		})
		return
	}
	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": components,
	})
}
