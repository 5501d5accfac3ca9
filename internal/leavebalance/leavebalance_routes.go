package leavebalance

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
	balances := r.Group("/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/:userId", handler.Get)
		balances.PUT("/:userId", middleware.RBACAuthorize(rbacService, rbac.ResourceQuota, rbac.ActionUpdate), handler.Allocate)
	}
}
