// internal/model/settings.go
package model

// SMS gateway auth modes.
const (
	AuthNone   = "none"
	AuthParams = "params"
	AuthBasic  = "basic"
	AuthBearer = "bearer"
)

// ApiSettings is the per-tenant SMS gateway configuration, read-only for
// the engine.
type ApiSettings struct {
	Provider string `json:"provider"`
	BaseURL  string `json:"baseUrl"`
	APIID    string `json:"apiId"`
	APIPass  string `json:"apiPass"`
	Auth     string `json:"auth"`
}

// MailSettings is the per-tenant sender configuration. The reply pair is
// preferred over the primary pair when present.
type MailSettings struct {
	Email        string `json:"email"`
	AppPass      string `json:"appPass"`
	ReplyEmail   string `json:"replyEmail"`
	ReplyAppPass string `json:"replyAppPass"`
}

// Sender resolves the effective sender credentials. ok is false when
// neither pair is usable.
func (m MailSettings) Sender() (addr, pass string, ok bool) {
	addr = m.ReplyEmail
	if addr == "" {
		addr = m.Email
	}
	pass = m.ReplyAppPass
	if pass == "" {
		pass = m.AppPass
	}
	return addr, pass, addr != "" && pass != ""
}

// TargetSettings holds the tenant's auto-reply mail templates (A for
// target applicants, B for non-target).
type TargetSettings struct {
	AutoReply        bool   `json:"autoReply"`
	MailUseTarget    bool   `json:"mailUseTarget"`
	MailUseNonTarget bool   `json:"mailUseNonTarget"`
	MailSubjectA     string `json:"mailSubjectA"`
	MailTemplateA    string `json:"mailTemplateA"`
	MailSubjectB     string `json:"mailSubjectB"`
	MailTemplateB    string `json:"mailTemplateB"`
}

// SegmentMail is the mail action configured on a segment.
type SegmentMail struct {
	Enabled bool   `json:"enabled"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TargetSegment is a prioritized matching rule with an attached mail action.
type TargetSegment struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Enabled  bool        `json:"enabled"`
	Priority int64       `json:"priority"`
	Mail     SegmentMail `json:"mail"`
}
