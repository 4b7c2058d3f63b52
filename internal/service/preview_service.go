// internal/service/preview_service.go
package service

import (
	"context"
	"fmt"

	"github.com/rikulab/recruit-notify/internal/repository"
)

// MailPreview is a composed mail rendered without sending.
type MailPreview struct {
	Source     string   `json:"source"`
	SubjectRaw string   `json:"subject_raw"`
	BodyRaw    string   `json:"body_raw"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Notes      []string `json:"notes,omitempty"`
}

// PreviewService simulates the auto-reply mail composition so operators can
// check templates before they go out.
type PreviewService struct {
	Settings repository.SettingsRepositoryInterface
}

// PreviewMail picks the subject/body source — a specific segment's mail
// action, or the tenant's A (target) / B (non-target) templates — and
// applies token substitution against the detail map. Notes flag settings
// that would suppress the mail in production.
func (s *PreviewService) PreviewMail(ctx context.Context, uid string, target bool, segmentID string, detail map[string]string) (*MailPreview, error) {
	p := &MailPreview{}

	if segmentID != "" {
		segs, err := s.Settings.ListTargetSegments(ctx, uid)
		if err != nil {
			return nil, err
		}
		found := false
		for _, seg := range segs {
			if seg.ID == segmentID {
				p.SubjectRaw = seg.Mail.Subject
				p.BodyRaw = seg.Mail.Body
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("segment id not found: %s", segmentID)
		}
		p.Source = "segment:" + segmentID
	} else {
		ts, err := s.Settings.GetTargetSettings(ctx, uid)
		if err != nil {
			return nil, err
		}
		if !ts.AutoReply {
			p.Notes = append(p.Notes, "autoReply=false: no auto-reply mail would be sent")
		}
		if target && !ts.MailUseTarget {
			p.Notes = append(p.Notes, "mailUseTarget=false: target applicants would not receive mail")
		}
		if !target && !ts.MailUseNonTarget {
			p.Notes = append(p.Notes, "mailUseNonTarget=false: non-target applicants would not receive mail")
		}
		if target {
			p.SubjectRaw, p.BodyRaw = ts.MailSubjectA, ts.MailTemplateA
		} else {
			p.SubjectRaw, p.BodyRaw = ts.MailSubjectB, ts.MailTemplateB
		}
		p.Source = "target_settings(A/B)"
	}

	p.Subject = RenderTemplate(p.SubjectRaw, detail)
	p.Body = RenderTemplate(p.BodyRaw, detail)
	return p, nil
}
