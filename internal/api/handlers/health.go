package handlers

import (
	"net/http"
	"time"

	"jammanage-backend/pkg/database"
	"jammanage-backend/pkg/redis"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

type HealthHandler struct {
	db    *mongo.Database
	redis *redis.Client
}

func NewHealthHandler(db *mongo.Database, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redisClient,
	}
}

// Health reports the status of the API and its dependencies. Redis being
// down degrades the response but does not fail it; Mongo being down does.
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	overall := "healthy"

	mongoStatus := "up"
	if err := database.Health(h.db); err != nil {
		mongoStatus = "down"
		overall = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	redisStatus := "up"
	if h.redis != nil {
		if rs := h.redis.HealthCheck(); !rs.IsConnected {
			redisStatus = "down"
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	} else {
		redisStatus = "disabled"
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"timestamp": time.Now().UTC(),
		"checks": gin.H{
			"mongodb": mongoStatus,
			"redis":   redisStatus,
		},
	})
}
