package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Health reports process liveness plus dependency reachability. Degraded
// dependencies flip the overall status but still answer 200 so load balancers
// keep routing while operators investigate.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	status := "ok"
	checks := gin.H{}

	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			checks["database"] = "down"
			status = "degraded"
		} else {
			checks["database"] = "up"
		}
	}

	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = "down"
			status = "degraded"
		} else {
			checks["redis"] = "up"
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": status, "checks": checks})
}
