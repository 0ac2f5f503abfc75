package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reetreev/dashboard/internal/authstate"
	"github.com/reetreev/dashboard/internal/bridge"
	"github.com/reetreev/dashboard/internal/config"
	"github.com/reetreev/dashboard/internal/service"
)

type Services struct {
	Auth     *service.AuthService
	Users    *service.UserService
	Profiles *service.ProfileService
	Sessions *service.SessionService
	Presets  *service.PresetService
	Observer *authstate.Observer
	Hub      *bridge.Hub
}

func NewRouter(cfg config.Config, svc Services, logger *slog.Logger) http.Handler {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), corsAllowAll())

	authHandler := NewAuthHandler(svc.Auth, svc.Observer, logger)
	callbackHandler := NewCallbackHandler(svc.Auth, logger)
	profileHandler := NewProfileHandler(svc.Profiles)
	sessionHandler := NewSessionHandler(svc.Sessions)
	presetHandler := NewPresetHandler(svc.Presets)
	userHandler := NewUserHandler(svc.Users, svc.Profiles, svc.Sessions, svc.Presets)
	desktopHandler := NewDesktopHandler(svc.Auth, svc.Hub, cfg.Desktop, logger)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiURL := cfg.APIOrigin
	if apiURL == "" {
		apiURL = "http://localhost:9001"
	}
	r.GET("/runtime-config.json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"API_URL": apiURL})
	})

	api := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(api.Group("/auth"))

		// The verification endpoint answers every method itself so the
		// contract's 405 body survives.
		api.Any("/auth/callback", callbackHandler.Handle)

		api.GET("/download", desktopHandler.Download)

		authed := api.Group("")
		authed.Use(requireSession(svc.Auth))
		{
			profileHandler.RegisterRoutes(authed.Group("/profiles"))
			sessionHandler.RegisterRoutes(authed.Group("/sessions"))
			presetHandler.RegisterRoutes(authed.Group("/presets"))
			userHandler.RegisterRoutes(authed.Group("/user"))
			authed.GET("/batch", userHandler.Batch)
			authed.POST("/desktop/handoff", desktopHandler.Handoff)
			authed.GET("/desktop/ws", desktopHandler.Socket)
		}
	}

	return r
}

func corsAllowAll() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
