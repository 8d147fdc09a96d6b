package handlers

import (
	"net/http"
	"time"

	"turnos/config"
	"turnos/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency snapshot taken by utils.StartHealthMonitor.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	label := "OK"
	if !status.CheckedAt.IsZero() && !status.Healthy() {
		code = http.StatusServiceUnavailable
		label = "DEGRADED"
	}
	c.JSON(code, gin.H{
		"status":       label,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"environment":  config.GetEnv(),
		"dependencies": status,
	})
}
