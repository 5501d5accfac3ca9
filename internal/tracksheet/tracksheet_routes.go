package tracksheet

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
	sheets := r.Group("/track-sheets")
	sheets.Use(middleware.AuthMiddleware())
	{
		sheets.GET("/outbox", middleware.RBACAuthorize(rbacService, rbac.ResourceTrackSheet, rbac.ActionRead), handler.Outbox)
		sheets.GET("/:userId", middleware.RBACAuthorize(rbacService, rbac.ResourceTrackSheet, rbac.ActionRead), handler.Board)
		sheets.POST("/work", middleware.RBACAuthorize(rbacService, rbac.ResourceTrackSheet, rbac.ActionCreate), handler.AddWork)
		sheets.POST("/tasks", middleware.RBACAuthorize(rbacService, rbac.ResourceTrackSheet, rbac.ActionCreate), handler.AssignTask)
		sheets.PUT("/work/:id/status", middleware.RBACAuthorize(rbacService, rbac.ResourceTrackSheet, rbac.ActionUpdate), handler.UpdateWorkStatus)
		sheets.PUT("/tasks/:id/status", middleware.RBACAuthorize(rbacService, rbac.ResourceTrackSheet, rbac.ActionUpdate), handler.UpdateTaskStatus)
		sheets.PUT("/tasks/:id/archive", middleware.RBACAuthorize(rbacService, rbac.ResourceTrackSheet, rbac.ActionUpdate), handler.ArchiveTask)
	}
}
