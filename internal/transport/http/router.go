package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/user-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/user-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type RouterConfig struct {
	JWTKey []byte
	// AuthRequired puts list, get and delete behind the JWT gate.
	AuthRequired bool
}

func NewRouter(logger *slog.Logger, userHandler *handler.UserHandler, users middleware.UserFinder, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	open := r.Group("/user")
	open.POST("/", userHandler.Create)
	open.POST("/auth", userHandler.Authenticate)
	open.POST("/sendEmail", userHandler.SendEmail)
	open.POST("/:id/activate", userHandler.Activate)
	open.PUT("/:id", userHandler.Update)

	guarded := open.Group("")
	if cfg.AuthRequired {
		guarded.Use(middleware.Auth(cfg.JWTKey), middleware.EnsureActive(users, logger))
	}
	guarded.GET("/", userHandler.List)
	guarded.GET("/:id", userHandler.GetByID)
	guarded.DELETE("/:id", userHandler.Inactivate)

	return r
}
