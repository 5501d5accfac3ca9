package rbac

import "github.com/casbin/casbin/v2"

const (
	RoleDirector = "Director"
	RoleManager  = "Manager"
	RoleTL       = "TL"
	RoleEmployee = "Employee"
	RoleHR       = "HR"
)

const (
	ResourceUser         = "user"
	ResourceTeam         = "team"
	ResourceCompany      = "company"
	ResourceLeave        = "leave"
	ResourceAttendance   = "attendance"
	ResourceQuota        = "quota"
	ResourceNotification = "notification"
	ResourceTrackSheet   = "tracksheet"
)

const (
	ActionCreate  = "create"
	ActionRead    = "read"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
)

// ValidRole reports whether role is one of the five org roles.
func ValidRole(role string) bool {
	switch role {
	case RoleDirector, RoleManager, RoleTL, RoleEmployee, RoleHR:
		return true
	}
	return false
}

// ManagerialRole reports whether role carries team-lead authority.
func ManagerialRole(role string) bool {
	return role == RoleManager || role == RoleTL
}

type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

func NewService(enforcer *casbin.Enforcer) Service {
	return &service{enforcer: enforcer}
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}
