package http

import (
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/netchat-server/internal/core"
	"github.com/vovakirdan/netchat-server/internal/metrics"
)

const readHeaderTimeout = 5 * time.Second

// OnlineResponse lists currently connected usernames.
type OnlineResponse struct {
	Users []string `json:"users"`
	Count int      `json:"count"`
}

// ChannelsResponse lists occupied channels.
type ChannelsResponse struct {
	Channels []string `json:"channels"`
}

// NewServer builds the admin HTTP server: health, presence views, and
// the Prometheus scrape endpoint.
func NewServer(addr string, registry *core.Registry, gatherer prometheus.Gatherer, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})
	router.GET("/api/online", func(c *gin.Context) {
		users := registry.Snapshot()
		c.JSON(stdhttp.StatusOK, OnlineResponse{Users: users, Count: len(users)})
	})
	router.GET("/api/channels", func(c *gin.Context) {
		c.JSON(stdhttp.StatusOK, ChannelsResponse{Channels: registry.Channels()})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(gatherer)))

	return &stdhttp.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests.
func LoggerMiddleware(logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("http request")
	}
}
