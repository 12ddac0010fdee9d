package mailer

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendDecisionNotice(toEmail, itemTitle, decision, note string) error
	SendPayoutNotice(toEmail string, netAmount int64, status string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	frontendURL string // Added to construct links
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	// Get Frontend URL from ENV or default to a safe placeholder
	frontendURL := os.Getenv("FRONTEND_URL")

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		frontendURL: frontendURL,
	}
}

func (s *emailService) SendDecisionNotice(toEmail, itemTitle, decision, note string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Your submission was %s", decision))

	noteBlock := ""
	if note != "" {
		noteBlock = fmt.Sprintf("<p>Moderator note: %s</p>", note)
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Review complete</h2>
			<p>Your submission <strong>%s</strong> was <strong>%s</strong>.</p>
			%s
			<p><a href="%s/submissions">View your submissions</a></p>
		</div>
	`, itemTitle, decision, noteBlock, s.frontendURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send decision notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Decision notice sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendPayoutNotice(toEmail string, netAmount int64, status string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Withdrawal %s", status))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Withdrawal update</h2>
			<p>Your withdrawal is now <strong>%s</strong>.</p>
			<p>Net amount: <strong>%d</strong> coins.</p>
			<p><a href="%s/wallet">Open your wallet</a></p>
		</div>
	`, status, netAmount, s.frontendURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send payout notice to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Payout notice sent to %s\n", toEmail)
	return nil
}
