package project

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	projects := r.Group("/projects")
	projects.Use(middleware.AuthMiddleware())
	{
		projects.GET("", middleware.RBACAuthorize(rbacService, "projects", "read"), handler.GetAll)
		projects.GET("/mine", middleware.RBACAuthorize(rbacService, "projects", "read"), handler.GetMine)
		projects.GET("/:id", middleware.RBACAuthorize(rbacService, "projects", "read"), handler.GetById)
		projects.POST("", middleware.RBACAuthorize(rbacService, "projects", "write"), handler.Create)
		projects.PUT("/:id", middleware.RBACAuthorize(rbacService, "projects", "write"), handler.Update)
		projects.DELETE("/:id", middleware.RBACAuthorize(rbacService, "projects", "write"), handler.Delete)
	}
}
