package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskboard-dev/taskboard/db"
)

// HealthCheck reports liveness plus database connectivity. The endpoint
// itself stays 200 even when the database is down; the body carries the
// probe result.
func HealthCheck(ctx *gin.Context) {
	database := "connected"
	if err := db.Ping(ctx); err != nil {
		database = "unavailable"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":   true,
		"status":    "ok",
		"database":  database,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// RuntimeConfig exposes the non-secret runtime configuration.
func RuntimeConfig(ctx *gin.Context) {
	respondOK(ctx, http.StatusOK, gin.H{"config": cfg.Public()})
}
