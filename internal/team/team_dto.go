package team

type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

type TeamResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
}
