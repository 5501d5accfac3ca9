package user

type ApproveUserRequest struct {
	Role        string  `json:"role" binding:"required,oneof=Director Manager TL Employee HR"`
	Section     string  `json:"section" binding:"required,oneof=Frontside Backside Management"`
	Designation string  `json:"designation" binding:"required"`
	TeamID      *string `json:"team_id"`
	ReportsTo   *string `json:"reports_to"`
}

type UpdateUserRequest struct {
	Section     string  `json:"section" binding:"required,oneof=Frontside Backside Management"`
	Designation string  `json:"designation" binding:"required"`
	Role        *string `json:"role" binding:"omitempty,oneof=Director Manager TL Employee HR"`
	TeamID      *string `json:"team_id"`
	ReportsTo   *string `json:"reports_to"`
}

type UpdatePayrollRequest struct {
	MonthlySalary   string `json:"monthly_salary" binding:"required"`
	ESIPercentage   string `json:"esi_percentage" binding:"required"`
	ProfessionalTax string `json:"professional_tax" binding:"required"`
}

type UserResponse struct {
	ID          string  `json:"id"`
	CompanyID   string  `json:"company_id"`
	TeamID      *string `json:"team_id,omitempty"`
	ReportsTo   *string `json:"reports_to,omitempty"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	Section     string  `json:"section,omitempty"`
	Designation string  `json:"designation,omitempty"`
	IsApproved  bool    `json:"is_approved"`
}

type PayrollDetailsResponse struct {
	MonthlySalary   string `json:"monthly_salary"`
	ESIPercentage   string `json:"esi_percentage"`
	ProfessionalTax string `json:"professional_tax"`
}
