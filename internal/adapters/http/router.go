package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vkoval/watchparty/internal/adapters/signal"
	"github.com/vkoval/watchparty/internal/adapters/video"
	"github.com/vkoval/watchparty/internal/app"
	"github.com/vkoval/watchparty/internal/config"
)

// ClientTokenMiddleware keeps a stable per-browser token in the cookie
// session so reconnects are correlatable in logs. It is not an identity:
// every WS connection still gets its own session id.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get("ct").(string)
		if token == "" {
			token = uuid.NewString()
			s.Set("ct", token)
			_ = s.Save()
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("WatchPartySession", store))
	r.Use(ClientTokenMiddleware())

	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(cfg.StaticPath + "/index.html")
	})

	r.GET("/video", video.Handler(cfg.VideoPath))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Str("video", cfg.VideoPath).Msg("router setup")

	ctl := signal.NewController(orch, cfg)

	api := r.Group("/api")
	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, orch.Rooms.List())
	})
	api.GET("/ws", func(c *gin.Context) {
		ctl.HandleWS(ctx, c)
	})

	return r
}
