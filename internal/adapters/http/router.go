package http

import (
	"context"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lobby/internal/adapters/identity"
	"github.com/dkeye/Lobby/internal/adapters/signal"
	"github.com/dkeye/Lobby/internal/app/orch"
	"github.com/dkeye/Lobby/internal/config"
)

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("LobbySessions", store))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "rooms": o.Rooms.Len()})
	})

	ctrl := signal.NewSignalWSController(o, signal.Options{
		ReadLimit:    cfg.ReadLimit,
		PingPeriod:   cfg.PingPeriod,
		SendBuffer:   cfg.SendBuffer,
		AutoCreate:   cfg.AutoCreate,
		ChatLimit:    cfg.Chat.Limit,
		ChatInterval: cfg.Chat.Interval,
	})
	rooms := &roomHandlers{orch: o}

	api := r.Group("/api")
	api.Use(identity.Middleware())

	api.GET("/me", identity.WhoAmI)
	api.PUT("/me", identity.Rename)

	api.GET("/rooms", rooms.list)
	api.POST("/rooms", rooms.create)
	if cfg.AutoCreate {
		api.PUT("/rooms/:id", rooms.ensure)
	}
	api.DELETE("/rooms/:id", rooms.evict)
	api.GET("/room/:id", rooms.snapshot)
	api.POST("/room/:id/start", rooms.start)

	api.GET("/ws/room/:id", func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("room", c.Param("id")).Msg("ws room endpoint hit")
		ctrl.HandleSignal(ctx, c)
	})

	log.Info().Str("module", "adapters.http").Bool("auto_create", cfg.AutoCreate).Msg("router setup")
	return r
}
