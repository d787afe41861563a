package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/identity-service/auth"
	"github.com/skillsenselab/identity-service/post"
	"github.com/skillsenselab/identity-service/server/endpoint"
	"github.com/skillsenselab/identity-service/server/middleware"
)

// RegisterRoutes mounts all service routes on the engine. The /auth/me and
// /api/posts routes sit behind the bearer-token gate.
func RegisterRoutes(engine *gin.Engine, authsvc *auth.Service, posts *post.Service, serviceName string) {
	engine.GET("/health", endpoint.Health(serviceName))
	engine.GET("/version", endpoint.Version())

	authHandler := NewAuthHandler(authsvc)
	authGroup := engine.Group("/auth")
	authGroup.POST("/signup", authHandler.Signup)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.GET("/me", middleware.RequireAuth(authsvc), authHandler.Me)

	postHandler := NewPostHandler(posts)
	postGroup := engine.Group("/api/posts", middleware.RequireAuth(authsvc))
	postGroup.POST("", postHandler.Create)
	postGroup.GET("", postHandler.List)
	postGroup.GET("/:id", postHandler.Get)
	postGroup.PUT("/:id", postHandler.Update)
	postGroup.DELETE("/:id", postHandler.Delete)
}
