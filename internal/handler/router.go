package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/codegen/internal/middleware"
)

type RouterDeps struct {
	CodeGen *CodeGenHandler

	// JWTSecret enables bearer auth on the generation routes when set.
	JWTSecret      []byte
	RatePerSecond  float64
	RateLimitBurst int
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/health", deps.CodeGen.Health)

	group := api.Group("")
	if len(deps.JWTSecret) > 0 {
		group.Use(middleware.JWTAuth(deps.JWTSecret))
	}
	group.Use(middleware.RateLimit(deps.RatePerSecond, deps.RateLimitBurst))
	group.GET("/generate/:number", deps.CodeGen.Generate)
	group.GET("/similar/:number", deps.CodeGen.Similar)
}
