package mail

import (
	"bytes"
	"fmt"
	"path/filepath"
	"text/template"

	"gopkg.in/gomail.v2"
)

func NewEmailSender(host string, port int, user, password, from, operator string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		Operator: operator,
	}
}

// SendOutreachCopy mails the drafted outreach to the operator with the lead
// context, ready to paste into LinkedIn.
func (s *EmailSender) SendOutreachCopy(leadName, company, linkedinURL, message string) error {
	data := OutreachCopyData{
		LeadName:    leadName,
		Company:     company,
		LinkedInURL: linkedinURL,
		Message:     message,
	}

	tmplPath := filepath.Join("templates", "outreach_copy.html")
	t, err := template.ParseFiles(tmplPath)
	if err != nil {
		return fmt.Errorf("erro ao ler template de email: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.Operator)
	m.SetHeader("Subject", fmt.Sprintf("Outreach pronto: %s @ %s 🚀", leadName, company))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}
