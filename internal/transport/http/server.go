package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "gotodo/internal/app"
	"gotodo/internal/bootstrap"
	"gotodo/internal/transport/http/handler"
	"gotodo/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestID(), gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	authService := appsvc.NewAuthService(
		app.Users,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	userService := appsvc.NewUserService(app.Users, app.TodoCache, app.Publisher)
	todoService := appsvc.NewTodoService(app.Todos, app.TodoCache, app.Publisher)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	todoHandler := handler.NewTodoHandler(todoService)

	authRequired := middleware.AuthBearer(authService)

	authGroup := router.Group("/auth")
	authGroup.POST("/token", authHandler.Token)
	authGroup.POST("/refresh-token", authRequired, authHandler.RefreshToken)

	userGroup := router.Group("/users")
	userGroup.POST("/", userHandler.Create)
	userGroup.GET("/", authRequired, userHandler.List)
	userGroup.PUT("/:id", authRequired, userHandler.Update)
	userGroup.PATCH("/:id", authRequired, userHandler.Update)
	userGroup.DELETE("/:id", authRequired, userHandler.Delete)

	todoGroup := router.Group("/todos", authRequired)
	todoGroup.POST("/", todoHandler.Create)
	todoGroup.GET("/", todoHandler.List)
	todoGroup.PATCH("/:id", todoHandler.Update)
	todoGroup.DELETE("/:id", todoHandler.Delete)

	return router
}
