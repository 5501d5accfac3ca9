package leave

import "time"

type ApplyRequest struct {
	LeaveType   string   `json:"leave_type" binding:"required,oneof=Casual Sick Notify"`
	StartDate   string   `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string   `json:"end_date" binding:"required,datetime=2006-01-02"`
	Reason      string   `json:"reason" binding:"required"`
	ApproverIDs []string `json:"approver_ids" binding:"required,min=1,dive,uuid"`
}

type ActionRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

type ApproverCandidate struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
	IsDefault   bool   `json:"is_default"`
	Designation string `json:"designation,omitempty"`
}

type LeaveResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username,omitempty"`
	LeaveType   string    `json:"leave_type"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Days        int       `json:"days"`
	Reason      string    `json:"reason"`
	Status      string    `json:"status"`
	ActionBy    *string   `json:"action_by,omitempty"`
	ApproverIDs []string  `json:"approver_ids,omitempty"`
	AppliedOn   time.Time `json:"applied_on"`
}
