package leavebalance

type AllocateRequest struct {
	CasualLeave int `json:"casual_leave" binding:"min=0"`
	SickLeave   int `json:"sick_leave" binding:"min=0"`
}

type BalanceResponse struct {
	UserID      string `json:"user_id"`
	CasualLeave int    `json:"casual_leave"`
	SickLeave   int    `json:"sick_leave"`
}
