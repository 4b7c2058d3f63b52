// internal/service/smtp_transport.go
package service

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/rikulab/recruit-notify/internal/model"
)

// SMTPTransport sends mail with an app-password login over the submission
// port. The default host matches the Gmail accounts tenants configure.
type SMTPTransport struct {
	Host string
	Port int
}

func NewSMTPTransport() *SMTPTransport {
	return &SMTPTransport{Host: "smtp.gmail.com", Port: 587}
}

func (t *SMTPTransport) Send(sender, senderPass, to, subject, body string) model.DeliveryOutcome {
	addr := fmt.Sprintf("%s:%d", t.Host, t.Port)
	auth := smtp.PlainAuth("", sender, senderPass, t.Host)

	msg := buildMessage(sender, to, subject, body)
	if err := smtp.SendMail(addr, auth, sender, []string{to}, msg); err != nil {
		return model.Note(err.Error())
	}
	return model.DeliveryOutcome{
		Success: true,
		Info:    map[string]any{"note": "smtp accepted"},
	}
}

// buildMessage assembles a UTF-8 plain-text message. Subjects are
// MIME-encoded so Japanese text survives the header.
func buildMessage(sender, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + sender + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.BEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	b.WriteString("\r\n")
	b.WriteString(base64.StdEncoding.EncodeToString([]byte(body)))
	b.WriteString("\r\n")
	return []byte(b.String())
}
