package tracksheet

type AddWorkRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Date   string `json:"date" binding:"required,datetime=2006-01-02"`
	Task   string `json:"task" binding:"required,max=255"`
}

type AssignTaskRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Date   string `json:"date" binding:"required,datetime=2006-01-02"`
	Task   string `json:"task" binding:"required,max=255"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=Pending 'In Progress' Completed"`
}

type WorkItemResponse struct {
	ID     string `json:"id"`
	Task   string `json:"task"`
	Status string `json:"status"`
}

type TaskItemResponse struct {
	ID         string `json:"id"`
	Task       string `json:"task"`
	AssignedBy string `json:"assigned_by"`
	Status     string `json:"status"`
}

// BoardCell is one day of the board. Work items are withheld from
// viewers outside the owner/manager/HR circle; task items are public.
type BoardCell struct {
	Day       int                `json:"day"`
	Date      string             `json:"date"`
	DayName   string             `json:"day_name"`
	DayStatus string             `json:"day_status"`
	WorkItems []WorkItemResponse `json:"work_items"`
	TaskItems []TaskItemResponse `json:"task_items"`
}

type BoardResponse struct {
	UserID      string       `json:"user_id"`
	Year        int          `json:"year"`
	Month       int          `json:"month"`
	CanViewWork bool         `json:"can_view_work"`
	Days        []*BoardCell `json:"days"`
}
