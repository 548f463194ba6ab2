package user

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("", middleware.RBACAuthorize(rbacService, "users", "read"), handler.GetAll)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "users", "read"), handler.GetById)
		users.GET("/:id/reports", middleware.RBACAuthorize(rbacService, "users", "read"), handler.GetDirectReports)
		users.POST("", middleware.RBACAuthorize(rbacService, "users", "write"), handler.Create)
		users.PUT("/:id", middleware.RBACAuthorize(rbacService, "users", "write"), handler.Update)
		users.POST("/:id/deactivate", middleware.RBACAuthorize(rbacService, "users", "write"), handler.Deactivate)
		users.DELETE("/:id", middleware.RBACAuthorize(rbacService, "users", "write"), handler.Delete)
	}
}
