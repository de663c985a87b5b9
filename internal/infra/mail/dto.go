package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Operator string
}

type OutreachCopyData struct {
	LeadName    string
	Company     string
	LinkedInURL string
	Message     string
}
