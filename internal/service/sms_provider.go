// internal/service/sms_provider.go
package service

import (
	"context"
	"encoding/base64"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rikulab/recruit-notify/internal/model"
	"github.com/rikulab/recruit-notify/internal/repository"
)

// SMSSender delivers one SMS through the tenant-configured gateway and
// reports a uniform outcome. DryRun is process-wide: when set, no network
// I/O happens at all.
type SMSSender struct {
	Settings   repository.SettingsRepositoryInterface
	HTTPClient *http.Client
	DryRun     bool
}

func NewSMSSender(settings repository.SettingsRepositoryInterface, dryRun bool) *SMSSender {
	return &SMSSender{
		Settings:   settings,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		DryRun:     dryRun,
	}
}

// Send resolves the tenant's gateway configuration and posts the message.
func (s *SMSSender) Send(ctx context.Context, uid, to, message string) model.DeliveryOutcome {
	cfg, err := s.Settings.GetApiSettings(ctx, uid)
	if err != nil {
		return model.Note("failed to load api settings: " + err.Error())
	}
	if cfg.BaseURL == "" && cfg.Provider != "kavenegar" {
		return model.Note("no base URL configured")
	}

	if s.DryRun {
		log.Printf("[DRY_RUN_SMS] would send to %s: %s", to, snippet(message, 50))
		return model.DeliveryOutcome{
			Success: true,
			Info:    map[string]any{"note": "dry_run", "status_code": 200},
		}
	}

	if cfg.Provider == "kavenegar" {
		return sendViaKavenegar(cfg, to, message)
	}
	return s.sendViaGateway(ctx, cfg, to, message)
}

func (s *SMSSender) sendViaGateway(ctx context.Context, cfg model.ApiSettings, to, message string) model.DeliveryOutcome {
	endpoint := gatewayURL(cfg.BaseURL)

	// A literal & would split the form field; the gateway accepts the
	// full-width ampersand instead.
	safeMsg := strings.ReplaceAll(message, "&", "＆")
	form := url.Values{
		"mobilenumber": {to},
		"smstext":      {safeMsg},
	}
	if cfg.Auth == model.AuthParams && cfg.APIID != "" && cfg.APIPass != "" {
		form.Set("username", cfg.APIID)
		form.Set("password", cfg.APIPass)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return model.Note(err.Error())
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("User-Agent", "sms-rpa/1.0")

	switch cfg.Auth {
	case model.AuthBasic:
		if cfg.APIID != "" && cfg.APIPass != "" {
			creds := base64.StdEncoding.EncodeToString([]byte(cfg.APIID + ":" + cfg.APIPass))
			req.Header.Set("Authorization", "Basic "+creds)
		}
	case model.AuthBearer:
		if cfg.APIPass != "" {
			req.Header.Set("Authorization", "Bearer "+cfg.APIPass)
		}
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return model.Note(err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusOK {
		return model.DeliveryOutcome{
			Success: true,
			Info: map[string]any{
				"status_code": resp.StatusCode,
				"response":    snippet(string(body), 200),
			},
		}
	}
	return model.DeliveryOutcome{
		Success: false,
		Info: map[string]any{
			"status_code": resp.StatusCode,
			"error":       snippet(string(body), 200),
		},
	}
}

// gatewayURL keeps a baseUrl that already names an endpoint path, and
// appends /send otherwise.
func gatewayURL(base string) string {
	parsed, err := url.Parse(base)
	if err != nil {
		return base
	}
	if parsed.Path != "" && parsed.Path != "/" {
		return base
	}
	return strings.TrimRight(base, "/") + "/send"
}

func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
