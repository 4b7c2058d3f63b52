// internal/service/kavenegar_provider.go
package service

import (
	"fmt"

	"github.com/kavenegar/kavenegar-go"

	"github.com/rikulab/recruit-notify/internal/model"
)

// sendViaKavenegar delivers through the Kavenegar REST API when a tenant
// configures provider=="kavenegar". apiPass holds the API key and apiId the
// sender line.
func sendViaKavenegar(cfg model.ApiSettings, to, message string) model.DeliveryOutcome {
	if cfg.APIPass == "" {
		return model.Note("no kavenegar api key configured")
	}

	api := kavenegar.New(cfg.APIPass)
	res, err := api.Message.Send(cfg.APIID, []string{to}, message, nil)
	if err != nil {
		switch err := err.(type) {
		case *kavenegar.APIError:
			return model.Note("kavenegar API error: " + err.Error())
		case *kavenegar.HTTPError:
			return model.Note("kavenegar HTTP error: " + err.Error())
		default:
			return model.Note(err.Error())
		}
	}
	if len(res) == 0 {
		return model.Note("no response entries from kavenegar")
	}

	return model.DeliveryOutcome{
		Success: true,
		Info: map[string]any{
			"status_code": 200,
			"response":    fmt.Sprintf("message_id=%d", res[0].MessageID),
		},
	}
}
