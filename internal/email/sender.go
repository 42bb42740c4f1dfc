package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender delivers transactional mail. The payment flow uses it best-effort:
// a send failure is logged by the caller and never blocks a ledger write.
type Sender interface {
	SendPaymentReceipt(to, name, planType, reference string) error
}

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

type SMTPSender struct {
	config SMTPConfig
}

func NewSMTPSender(config SMTPConfig) *SMTPSender {
	return &SMTPSender{config: config}
}

func (s *SMTPSender) SendPaymentReceipt(to, name, planType, reference string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromEmail, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your EduHealth Premium subscription is active")
	m.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYour %s premium subscription is now active.\nPayment reference: %s\n\nThank you for supporting EduHealth!",
		name, planType, reference,
	))

	d := gomail.NewDialer(s.config.Host, s.config.Port, s.config.Username, s.config.Password)
	return d.DialAndSend(m)
}

// NoopSender is used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendPaymentReceipt(to, name, planType, reference string) error {
	return nil
}
