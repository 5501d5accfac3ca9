package attendance

import "go-hrms/internal/payroll"

type MarkRequest struct {
	UserID    string  `json:"user_id" binding:"required,uuid"`
	Date      string  `json:"date" binding:"required,datetime=2006-01-02"`
	Status    string  `json:"status" binding:"required"`
	LoginTime *string `json:"login_time" binding:"omitempty,datetime=15:04"`
}

// DayCell is one calendar cell. The leading cells of a month view are
// nil so the grid starts on the right weekday column.
type DayCell struct {
	Day       int     `json:"day"`
	Date      string  `json:"date"`
	DayName   string  `json:"day_name"`
	Status    string  `json:"status"`
	LoginTime *string `json:"login_time,omitempty"`
}

type MonthStats struct {
	Absent     int `json:"absent"`
	Leave      int `json:"leave"`
	WFH        int `json:"wfh"`
	Present    int `json:"present"`
	Holiday    int `json:"holiday"`
	SecondLate int `json:"late_2nd"`
	ThirdLate  int `json:"late_3rd"`
	TotalDays  int `json:"total_days"`
}

type MonthResponse struct {
	UserID string                     `json:"user_id"`
	Year   int                        `json:"year"`
	Month  int                        `json:"month"`
	Days   []*DayCell                 `json:"days"`
	Stats  MonthStats                 `json:"stats"`
	Salary *payroll.BreakdownResponse `json:"salary,omitempty"`
}

type MarkResponse struct {
	UserID          string  `json:"user_id"`
	Date            string  `json:"date"`
	Status          string  `json:"status"`
	LoginTime       *string `json:"login_time,omitempty"`
	ResetSecondLate *string `json:"reset_second_late,omitempty"`
}
