// Package mail sends account emails over SMTP. The transport is an
// interface so handlers can be tested with a fake and so delivery failures
// surface to the caller instead of being swallowed.
package mail

import (
	"fmt"
	"net/smtp"
)

// Mailer delivers a single HTML message.
type Mailer interface {
	Send(to, subject, html string) error
}

// SMTPMailer sends mail through a plain SMTP endpoint. Auth is skipped when
// User is empty (local relay setups).
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func NewSMTPMailer(host, port, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, User: user, Pass: pass, From: from}
}

// Send builds a MIME message and hands it to the SMTP server. Any transport
// error is returned as-is; callers decide how to report it.
func (m *SMTPMailer) Send(to, subject, html string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s\r\n",
		m.From, to, subject, html)
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(msg))
}
