// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"
)

type AlertMail struct {
	Severity  string
	Metric    string
	Message   string
	Value     float64
	Threshold float64
}

type IEmailService interface {
	SendCriticalAlerts(toEmail string, alerts []AlertMail) error
	SendExportReady(toEmail, filename string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendCriticalAlerts(toEmail string, alerts []AlertMail) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("[CRITICAL] %d dashboard alert(s) triggered", len(alerts)))

	var rows strings.Builder
	for _, a := range alerts {
		rows.WriteString(fmt.Sprintf(`
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd; color: #c0392b; font-weight: bold;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd; text-align: right;">%.2f</td>
				<td style="padding: 8px; border: 1px solid #ddd; text-align: right;">%.2f</td>
			</tr>
		`, strings.ToUpper(a.Severity), a.Metric, a.Message, a.Value, a.Threshold))
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Subscription Metrics Alert</h2>
			<p>The periodic evaluation at %s flagged the following:</p>
			<table style="border-collapse: collapse; width: 100%%;">
				<tr style="background-color: #2F5496; color: white;">
					<th style="padding: 8px;">Severity</th>
					<th style="padding: 8px;">Metric</th>
					<th style="padding: 8px;">Message</th>
					<th style="padding: 8px;">Value</th>
					<th style="padding: 8px;">Threshold</th>
				</tr>
				%s
			</table>
			<p>Open the dashboard for full context.</p>
		</div>
	`, time.Now().Format("2006-01-02 15:04 MST"), rows.String())

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send alert mail to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Alert mail sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendExportReady(toEmail, filename string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your subscription report is ready")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Report Ready</h2>
			<p>The report <strong>%s</strong> has been generated and is available for download from the dashboard.</p>
		</div>
	`, filename)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send export mail to %s: %v\n", toEmail, err)
		return err
	}

	return nil
}
