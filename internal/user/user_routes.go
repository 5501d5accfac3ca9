package user

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
	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/pending", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionUpdate), handler.Pending)
		users.GET("/active", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionRead), handler.Active)
		users.GET("/subordinates", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionRead), handler.Subordinates)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionRead), handler.Get)
		users.POST("/:id/approve", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionUpdate), handler.Approve)
		users.PUT("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionUpdate), handler.Update)
		users.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionDelete), handler.Delete)
		users.PUT("/:id/payroll", middleware.RBACAuthorize(rbacService, rbac.ResourceUser, rbac.ActionUpdate), handler.UpdatePayroll)
	}
}
