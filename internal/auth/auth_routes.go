package auth

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		// Credential endpoints are brute-force targets; throttle per IP.
		authGroup.POST("/login", middleware.RateLimitByIP(rate.Limit(5), 10), handler.Login)
		authGroup.POST("/refresh", middleware.RateLimitByIP(rate.Limit(5), 10), handler.Refresh)
		authGroup.GET("/me", middleware.AuthMiddleware(), handler.Me)
	}
}
