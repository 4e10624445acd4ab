package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck is the unauthenticated liveness probe. It reports process
// health only; it does not touch Postgres or the provider.
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
