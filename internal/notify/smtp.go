package notify

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTPSender delivers email via a configured SMTP relay.
type SMTPSender struct {
	Host     string
	Port     int
	From     string
	Username string // auth identity; falls back to From
	Password string
}

func (s *SMTPSender) Name() string { return "smtp" }

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("email message missing recipient")
	}
	if s.From == "" {
		return fmt.Errorf("smtp sender missing from address")
	}

	port := s.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", s.Host, port)

	subject := msg.Subject
	if subject == "" {
		subject = "Weft Notification"
	}
	raw := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		s.From, msg.To, subject, msg.Body)

	var auth smtp.Auth
	if s.Password != "" {
		user := s.Username
		if user == "" {
			user = s.From
		}
		auth = smtp.PlainAuth("", user, s.Password, s.Host)
	}

	if err := smtp.SendMail(addr, auth, s.From, []string{msg.To}, []byte(raw)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
