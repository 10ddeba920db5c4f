package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangeEmailMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type AssignmentNoticeMailData struct {
	FullName     string `json:"fullName"`
	HospitalName string `json:"hospitalName"`
	FiscalYear   int32  `json:"fiscalYear"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	HopeRank     *int32 `json:"hopeRank"`
}
