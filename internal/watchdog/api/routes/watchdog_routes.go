package routes

import (
	"github.com/gin-gonic/gin"

	"service-watchdog/internal/watchdog/api/handler"
)

func AddWatchdogRoutes(r *gin.Engine, h handler.WatchdogHandler) {
	r.GET("/healthz", h.GetHealthz())
	r.GET("/status", h.GetStatus())
	r.POST("/recovery/test", h.TestRecovery())
}

// NewRouter builds the loopback admin router served by the daemon.
func NewRouter(h handler.WatchdogHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	AddWatchdogRoutes(r, h)
	return r
}
