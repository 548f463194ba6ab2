package timesheet

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
) {
	timesheets := r.Group("/timesheets")
	timesheets.Use(middleware.AuthMiddleware())
	{
		timesheets.GET("/mine", middleware.RBACAuthorize(rbacService, "timesheets", "read"), handler.GetMine)
		timesheets.GET("/pending", middleware.RBACAuthorize(rbacService, "timesheets", "approve"), handler.GetPending)
		timesheets.GET("/:id", middleware.RBACAuthorize(rbacService, "timesheets", "read"), handler.GetById)
		timesheets.PUT("", middleware.RBACAuthorize(rbacService, "timesheets", "write"), handler.Upsert)
		timesheets.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "timesheets", "write"), handler.Submit)
		timesheets.POST("/:id/decision", middleware.RBACAuthorize(rbacService, "timesheets", "approve"), handler.Decide)
		timesheets.DELETE("/:id", middleware.RBACAuthorize(rbacService, "timesheets", "write"), handler.Delete)
	}
}
