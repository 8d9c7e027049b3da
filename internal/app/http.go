package app

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

// newOpsServer builds the liveness/readiness endpoint set. Readiness is
// database-backed so a broken connection takes the instance out of rotation.
func (a *App) newOpsServer() *http.Server {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "up"})
	})

	router.GET("/ready", func(c *gin.Context) {
		if !a.Store.CheckConnection(c.Request.Context()) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	return &http.Server{
		Addr:              a.Cfg.OpsAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
