package company

type UpdateSMTPRequest struct {
	Host     string `json:"host" binding:"required"`
	Port     int    `json:"port" binding:"required,min=1,max=65535"`
	Username string `json:"username" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	UseTLS   bool   `json:"use_tls"`
}

type CreateHolidayRequest struct {
	Date string `json:"date" binding:"required"`
	Name string `json:"name" binding:"required"`
}

type CompanyResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	HREmail    string `json:"hr_email"`
	SMTPHost   string `json:"smtp_host,omitempty"`
	SMTPPort   int    `json:"smtp_port,omitempty"`
	SMTPUseTLS bool   `json:"smtp_use_tls"`
}

type HolidayResponse struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Name string `json:"name"`
}
