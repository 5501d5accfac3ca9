package team

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
	teams := r.Group("/teams")
	teams.Use(middleware.AuthMiddleware())
	{
		teams.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionRead), handler.GetAll)
		teams.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionRead), handler.GetById)
		teams.POST("", middleware.RBACAuthorize(rbacService, rbac.ResourceTeam, rbac.ActionCreate), handler.Create)
	}
}
