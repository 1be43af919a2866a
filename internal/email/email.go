package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/pitstop/pitstop-api/internal/config"
)

type Service interface {
	SendVerificationEmail(to, name, token string) error
	SendPasswordResetEmail(to, name, token string) error
	SendBookingConfirmation(to, name, serviceName, date, slot string) error
}

type smtpService struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpService) SendVerificationEmail(to, name, token string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to PitStop, %s</h2>
		<p>Use the code below to verify your email address:</p>
		<p><strong>%s</strong></p>
		<p>The code expires in 24 hours.</p>
	`, name, token)
	return s.send(to, "Verify your email", body)
}

func (s *smtpService) SendPasswordResetEmail(to, name, token string) error {
	body := fmt.Sprintf(`
		<h2>Password reset</h2>
		<p>Hi %s, use the code below to reset your password:</p>
		<p><strong>%s</strong></p>
		<p>The code expires in 1 hour. If you did not request a reset, ignore this email.</p>
	`, name, token)
	return s.send(to, "Reset your password", body)
}

func (s *smtpService) SendBookingConfirmation(to, name, serviceName, date, slot string) error {
	body := fmt.Sprintf(`
		<h2>Booking confirmed</h2>
		<p>Hi %s, your booking is confirmed:</p>
		<ul>
			<li>Service: %s</li>
			<li>Date: %s</li>
			<li>Time: %s</li>
		</ul>
	`, name, serviceName, date, slot)
	return s.send(to, "Your booking is confirmed", body)
}

func (s *smtpService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
