// internal/service/mail_provider.go
package service

import (
	"context"

	"github.com/rikulab/recruit-notify/internal/model"
	"github.com/rikulab/recruit-notify/internal/repository"
)

// MailTransport performs the actual mail transaction. The engine only
// resolves configuration and relays the transport's outcome unchanged.
type MailTransport interface {
	Send(sender, senderPass, to, subject, body string) model.DeliveryOutcome
}

// MailSender resolves the tenant's sender credentials and delegates to the
// transport.
type MailSender struct {
	Settings  repository.SettingsRepositoryInterface
	Transport MailTransport
}

func NewMailSender(settings repository.SettingsRepositoryInterface, transport MailTransport) *MailSender {
	return &MailSender{Settings: settings, Transport: transport}
}

// Send validates preconditions and hands off to the transport. The reply
// credential pair is preferred over the primary one.
func (s *MailSender) Send(ctx context.Context, uid, to, subject, body string) model.DeliveryOutcome {
	if to == "" {
		return model.Note("no recipient email")
	}

	cfg, err := s.Settings.GetMailSettings(ctx, uid)
	if err != nil {
		return model.Note("failed to load mail settings: " + err.Error())
	}
	sender, pass, ok := cfg.Sender()
	if !ok {
		return model.Note("mail settings not configured")
	}

	return s.Transport.Send(sender, pass, to, subject, body)
}
