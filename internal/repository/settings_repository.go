package repository

import (
	"context"
	"fmt"
	"sort"

	"github.com/rikulab/recruit-notify/internal/firestore"
	"github.com/rikulab/recruit-notify/internal/model"
)

type SettingsRepositoryInterface interface {
	GetApiSettings(ctx context.Context, uid string) (model.ApiSettings, error)
	GetMailSettings(ctx context.Context, uid string) (model.MailSettings, error)
	GetTargetSettings(ctx context.Context, uid string) (model.TargetSettings, error)
	ListTargetSegments(ctx context.Context, uid string) ([]model.TargetSegment, error)
}

// SettingsRepository reads the tenant's read-only configuration documents.
// Missing documents decode to zero settings; the providers decide whether
// that is a configuration error.
type SettingsRepository struct {
	Client *firestore.Client
}

// GetApiSettings reads accounts/{uid}/api_settings/settings.
func (r *SettingsRepository) GetApiSettings(ctx context.Context, uid string) (model.ApiSettings, error) {
	doc, err := r.Client.GetDocument(ctx, fmt.Sprintf("accounts/%s/api_settings/settings", uid))
	if err != nil || doc == nil {
		return model.ApiSettings{}, err
	}
	f := doc.Fields
	return model.ApiSettings{
		Provider: f.Str("provider"),
		BaseURL:  f.Str("baseUrl"),
		APIID:    f.Str("apiId"),
		APIPass:  f.Str("apiPass"),
		Auth:     f.Str("auth"),
	}, nil
}

// GetMailSettings reads accounts/{uid}/mail_settings/settings.
func (r *SettingsRepository) GetMailSettings(ctx context.Context, uid string) (model.MailSettings, error) {
	doc, err := r.Client.GetDocument(ctx, fmt.Sprintf("accounts/%s/mail_settings/settings", uid))
	if err != nil || doc == nil {
		return model.MailSettings{}, err
	}
	f := doc.Fields
	return model.MailSettings{
		Email:        f.Str("email"),
		AppPass:      f.Str("appPass"),
		ReplyEmail:   f.Str("replyEmail"),
		ReplyAppPass: f.Str("replyAppPass"),
	}, nil
}

// GetTargetSettings reads accounts/{uid}/target_settings/settings.
func (r *SettingsRepository) GetTargetSettings(ctx context.Context, uid string) (model.TargetSettings, error) {
	doc, err := r.Client.GetDocument(ctx, fmt.Sprintf("accounts/%s/target_settings/settings", uid))
	if err != nil || doc == nil {
		return model.TargetSettings{}, err
	}
	f := doc.Fields
	return model.TargetSettings{
		AutoReply:        f.Bool("autoReply"),
		MailUseTarget:    f.Bool("mailUseTarget"),
		MailUseNonTarget: f.Bool("mailUseNonTarget"),
		MailSubjectA:     f.Str("mailSubjectA"),
		MailTemplateA:    f.Str("mailTemplateA"),
		MailSubjectB:     f.Str("mailSubjectB"),
		MailTemplateB:    f.Str("mailTemplateB"),
	}, nil
}

// ListTargetSegments reads accounts/{uid}/target_segments sorted by
// priority ascending.
func (r *SettingsRepository) ListTargetSegments(ctx context.Context, uid string) ([]model.TargetSegment, error) {
	docs, err := r.Client.ListDocuments(ctx, fmt.Sprintf("accounts/%s/target_segments", uid))
	if err != nil {
		return nil, err
	}

	segs := make([]model.TargetSegment, 0, len(docs))
	for _, doc := range docs {
		f := doc.Fields
		seg := model.TargetSegment{
			ID:       doc.ID(),
			Title:    f.Str("title"),
			Enabled:  f.Bool("enabled"),
			Priority: f.Int("priority"),
		}
		if mail := f.Map("actions").Map("mail"); mail != nil {
			seg.Mail = model.SegmentMail{
				Enabled: mail.Bool("enabled"),
				Subject: mail.Str("subject"),
				Body:    mail.Str("body"),
			}
		}
		segs = append(segs, seg)
	}

	sort.SliceStable(segs, func(i, j int) bool { return segs[i].Priority < segs[j].Priority })
	return segs, nil
}

var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)
