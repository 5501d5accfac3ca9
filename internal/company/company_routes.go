package company

import (
	"go-hrms/internal/middleware"
	"go-hrms/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	companies := r.Group("/company")
	companies.Use(middleware.AuthMiddleware())
	{
		companies.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceCompany, rbac.ActionRead), handler.Get)
		companies.PUT("/smtp", middleware.RBACAuthorize(rbacService, rbac.ResourceCompany, rbac.ActionUpdate), handler.UpdateSMTP)
		companies.GET("/holidays", handler.Holidays)
		companies.POST("/holidays", middleware.RBACAuthorize(rbacService, rbac.ResourceCompany, rbac.ActionUpdate), handler.CreateHoliday)
	}
}
