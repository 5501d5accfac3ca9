package app

import (
	"database/sql"

	"go-hrms/internal/attendance"
	"go-hrms/internal/auth"
	"go-hrms/internal/company"
	"go-hrms/internal/leave"
	"go-hrms/internal/leavebalance"
	"go-hrms/internal/mailer"
	"go-hrms/internal/messaging/kafka"
	"go-hrms/internal/notification"
	"go-hrms/internal/rbac"
	"go-hrms/internal/team"
	"go-hrms/internal/tracksheet"
	"go-hrms/internal/user"

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
	companyRepo := company.NewRepository(gormDB)
	teamRepo := team.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	balanceRepo := leavebalance.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	trackSheetRepo := tracksheet.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	mailerService := mailer.NewService(companyRepo)
	companyService := company.NewService(db, companyRepo)
	teamService := team.NewService(db, teamRepo, rdb)
	userService := user.NewService(db, userRepo, balanceRepo)
	authService := auth.NewService(db, userRepo, balanceRepo, companyRepo, outboxRepo)
	balanceService := leavebalance.NewService(db, balanceRepo)
	notificationService := notification.NewService(notificationRepo)
	attendanceService := attendance.NewService(db, attendanceRepo, companyRepo)
	leaveService := leave.NewService(db, leaveRepo, balanceRepo, attendanceRepo, notificationRepo, mailerService)
	trackSheetService := tracksheet.NewService(trackSheetRepo, notificationRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	companyHandler := company.NewHandler(companyService)
	teamHandler := team.NewHandler(teamService)
	userHandler := user.NewHandler(userService)
	balanceHandler := leavebalance.NewHandler(balanceService)
	notificationHandler := notification.NewHandler(notificationService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaveHandler := leave.NewHandler(leaveService)
	trackSheetHandler := tracksheet.NewHandler(trackSheetService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		company.RegisterRoutes(api, companyHandler, rbacService)
		team.RegisterRoutes(api, teamHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService)
		leavebalance.RegisterRoutes(api, balanceHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		tracksheet.RegisterRoutes(api, trackSheetHandler, rbacService)
	}

	return nil
}
