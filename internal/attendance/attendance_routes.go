package attendance

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
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.GET("/:userId", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionRead), handler.Month)
		attendances.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceAttendance, rbac.ActionUpdate), handler.Mark)
	}
}
