package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

// managerial groups the roles that can action leaves, mark attendance
// and manage quota for their reports. Finer ownership checks (direct
// manager, same team) live in the services.
var managerial = []string{RoleDirector, RoleManager, RoleTL}

// NewEnforcer builds a casbin enforcer seeded with the static
// role/resource/action matrix of the five org roles.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	var policies [][]string

	// Everyone signed in can read the org around them and use the
	// leave / attendance / board surfaces for themselves.
	for _, role := range []string{RoleDirector, RoleManager, RoleTL, RoleEmployee, RoleHR} {
		policies = append(policies,
			[]string{role, ResourceUser, ActionRead},
			[]string{role, ResourceTeam, ActionRead},
			[]string{role, ResourceLeave, ActionCreate},
			[]string{role, ResourceLeave, ActionRead},
			[]string{role, ResourceAttendance, ActionRead},
			[]string{role, ResourceNotification, ActionRead},
			[]string{role, ResourceNotification, ActionUpdate},
			[]string{role, ResourceTrackSheet, ActionRead},
			[]string{role, ResourceTrackSheet, ActionCreate},
			[]string{role, ResourceTrackSheet, ActionUpdate},
		)
	}

	for _, role := range managerial {
		policies = append(policies,
			[]string{role, ResourceLeave, ActionApprove},
			[]string{role, ResourceAttendance, ActionUpdate},
			[]string{role, ResourceQuota, ActionRead},
			[]string{role, ResourceQuota, ActionUpdate},
		)
	}

	// HR owns onboarding, org structure and company settings.
	policies = append(policies,
		[]string{RoleHR, ResourceUser, ActionCreate},
		[]string{RoleHR, ResourceUser, ActionUpdate},
		[]string{RoleHR, ResourceUser, ActionApprove},
		[]string{RoleHR, ResourceUser, ActionDelete},
		[]string{RoleHR, ResourceTeam, ActionCreate},
		[]string{RoleHR, ResourceLeave, ActionApprove},
		[]string{RoleHR, ResourceAttendance, ActionUpdate},
		[]string{RoleHR, ResourceQuota, ActionRead},
		[]string{RoleHR, ResourceQuota, ActionUpdate},
		[]string{RoleHR, ResourceCompany, ActionRead},
		[]string{RoleHR, ResourceCompany, ActionUpdate},
	)

	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}

	return e, nil
}
