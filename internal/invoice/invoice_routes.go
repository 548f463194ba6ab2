package invoice

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	rdb *redis.Client,
) {
	invoices := r.Group("/invoices")
	invoices.Use(middleware.AuthMiddleware())
	{
		invoices.GET("", middleware.RBACAuthorize(rbacService, "invoices", "read"), handler.GetAll)
		invoices.GET("/client/:clientId", middleware.RBACAuthorize(rbacService, "invoices", "read"), handler.GetByClient)
		invoices.GET("/:id", middleware.RBACAuthorize(rbacService, "invoices", "read"), handler.GetById)
		invoices.PATCH("/:id/status", middleware.RBACAuthorize(rbacService, "invoices", "write"), handler.SetStatus)
		invoices.DELETE("/:id", middleware.RBACAuthorize(rbacService, "invoices", "write"), handler.Delete)

		write := invoices.Group("")
		write.Use(middleware.RBACAuthorize(rbacService, "invoices", "write"))
		if rdb != nil {
			write.Use(middleware.Idempotency(rdb))
		}
		{
			write.POST("/generate", handler.Generate)
			write.POST("/:id/payments", handler.RecordPayment)
		}
	}
}
