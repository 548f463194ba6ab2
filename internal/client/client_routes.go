package client

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	clients := r.Group("/clients")
	clients.Use(middleware.AuthMiddleware())
	{
		clients.GET("", middleware.RBACAuthorize(rbacService, "clients", "read"), handler.GetAll)
		clients.GET("/:id", middleware.RBACAuthorize(rbacService, "clients", "read"), handler.GetById)
		clients.POST("", middleware.RBACAuthorize(rbacService, "clients", "write"), handler.Create)
		clients.PUT("/:id", middleware.RBACAuthorize(rbacService, "clients", "write"), handler.Update)
		clients.DELETE("/:id", middleware.RBACAuthorize(rbacService, "clients", "write"), handler.Delete)
	}
}
