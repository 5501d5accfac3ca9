package notification

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
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, rbac.ActionRead), handler.List)
		notifications.PUT("/:id/read", middleware.RBACAuthorize(rbacService, rbac.ResourceNotification, rbac.ActionUpdate), handler.MarkRead)
	}
}
