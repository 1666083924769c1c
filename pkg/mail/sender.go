package mail

import (
	"gopkg.in/mail.v2"
)

// Sender delivers plain-text alert mails to a recipient list.
type Sender interface {
	SendAlert(to []string, subject, body string) error
}

type Dialer interface {
	DialAndSend(m ...*mail.Message) error
}

type sender struct {
	email  string
	dialer Dialer
}

func (s *sender) SendAlert(to []string, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", s.email)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

func NewAlertSender(email, password, host string, port int) Sender {
	return &sender{
		email:  email,
		dialer: mail.NewDialer(host, port, email, password),
	}
}
