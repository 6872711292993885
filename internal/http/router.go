package http

import (
	"log/slog"
	"net/http"

	"github.com/Vaibhav-crux/users-assignment/internal/config"
	"github.com/Vaibhav-crux/users-assignment/internal/http/handlers"
	"github.com/Vaibhav-crux/users-assignment/internal/http/middlewares"
	"github.com/Vaibhav-crux/users-assignment/internal/observability"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20 // requests are tiny user payloads

// NewRouter wires middleware and routes. prom and metrics may be nil (tests).
func NewRouter(
	cfg config.Config,
	log *slog.Logger,
	users handlers.UsersService,
	ping func() error,
	prom *observability.Prom,
	metrics http.Handler,
) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware("users-api"))
	r.Use(middlewares.RequestLogger(log))

	if prom != nil {
		r.Use(prom.GinHandleMiddleware())
	}

	// root + operational endpoints

	r.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "Server is running successfully!"})
	})

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics))
	}

	// user routes

	usersHandler := handlers.NewUsersHandler(users)

	rl := middlewares.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)

	api := r.Group("/api")
	api.Use(rl.RateLimiterMiddleware(middlewares.KeyByIP))
	api.Use(middlewares.RequireJSON())

	api.GET("/users", usersHandler.ListUsers)
	api.GET("/users/:id", usersHandler.GetUserById)
	api.POST("/users", usersHandler.CreateUser)
	api.PUT("/users/:id", usersHandler.UpdateUser)
	api.DELETE("/users/:id", usersHandler.DeleteUser)

	return r
}
