package app

import (
	"database/sql"

	"go-ems/internal/auth"
	"go-ems/internal/client"
	"go-ems/internal/invoice"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/middleware"
	"go-ems/internal/project"
	"go-ems/internal/rbac"
	"go-ems/internal/rbac/infra"
	"go-ems/internal/timesheet"
	"go-ems/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	clientRepo := client.NewRepository(gormDB)
	projectRepo := project.NewRepository(gormDB)
	timesheetRepo := timesheet.NewRepository(gormDB)
	invoiceRepo := invoice.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService, err := rbac.NewService(enforcer)
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(userRepo)
	userService := user.NewService(userRepo)
	clientService := client.NewService(clientRepo)
	projectService := project.NewService(db, projectRepo, rdb)
	timesheetService := timesheet.NewService(db, timesheetRepo, outboxRepo)
	invoiceService := invoice.NewService(db, invoiceRepo, outboxRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	clientHandler := client.NewHandler(clientService)
	projectHandler := project.NewHandler(projectService)
	timesheetHandler := timesheet.NewHandler(timesheetService)
	invoiceHandler := invoice.NewHandler(invoiceService, rdb)

	router.Use(middleware.RequestID())

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService)
		client.RegisterRoutes(api, clientHandler, rbacService)
		project.RegisterRoutes(api, projectHandler, rbacService)
		timesheet.RegisterRoutes(api, timesheetHandler, rbacService)
		invoice.RegisterRoutes(api, invoiceHandler, rbacService, rdb)
	}

	return nil
}
