package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rikulab/recruit-notify/internal/firestore"
	"github.com/rikulab/recruit-notify/internal/model"
)

type HistoryRepositoryInterface interface {
	Append(ctx context.Context, uid string, rec *model.HistoryRecord) error
	List(ctx context.Context, uid string) ([]*model.HistoryRecord, error)
}

// HistoryRepository appends delivery audit records under
// accounts/{uid}/sms_history. Both channels share the collection; the
// status label carries the channel.
type HistoryRepository struct {
	Client *firestore.Client
}

func historyPath(uid string) string {
	return fmt.Sprintf("accounts/%s/sms_history", uid)
}

func encodeHistory(rec *model.HistoryRecord) map[string]firestore.Value {
	// The response map is stored as a JSON string; provider info is
	// free-form and only read back for display.
	respJSON, err := json.Marshal(rec.Response)
	if err != nil {
		respJSON = []byte("{}")
	}
	return map[string]firestore.Value{
		"name":     firestore.String(rec.Name),
		"gender":   firestore.String(rec.Gender),
		"birth":    firestore.String(rec.Birth),
		"email":    firestore.String(rec.Email),
		"tel":      firestore.String(rec.Tel),
		"addr":     firestore.String(rec.Addr),
		"school":   firestore.String(rec.School),
		"oubo_no":  firestore.String(rec.OuboNo),
		"status":   firestore.String(rec.Status),
		"template": firestore.String(rec.Template),
		"response": firestore.String(string(respJSON)),
		"sentAt":   firestore.Integer(rec.SentAt),
	}
}

func decodeHistory(doc firestore.Document) *model.HistoryRecord {
	f := doc.Fields
	rec := &model.HistoryRecord{
		Name:     f.Str("name"),
		Gender:   f.Str("gender"),
		Birth:    f.Str("birth"),
		Email:    f.Str("email"),
		Tel:      f.Str("tel"),
		Addr:     f.Str("addr"),
		School:   f.Str("school"),
		OuboNo:   f.Str("oubo_no"),
		Status:   f.Str("status"),
		Template: f.Str("template"),
		SentAt:   f.Int("sentAt"),
	}
	if raw := f.Str("response"); raw != "" {
		var info map[string]any
		if err := json.Unmarshal([]byte(raw), &info); err == nil {
			rec.Response = info
		}
	}
	return rec
}

// Append inserts one record; documents are never mutated afterwards.
func (r *HistoryRepository) Append(ctx context.Context, uid string, rec *model.HistoryRecord) error {
	_, err := r.Client.CreateDocument(ctx, historyPath(uid), "", encodeHistory(rec))
	return err
}

// List returns every history record for the tenant.
func (r *HistoryRepository) List(ctx context.Context, uid string) ([]*model.HistoryRecord, error) {
	docs, err := r.Client.ListDocuments(ctx, historyPath(uid))
	if err != nil {
		return nil, err
	}
	recs := make([]*model.HistoryRecord, 0, len(docs))
	for _, doc := range docs {
		recs = append(recs, decodeHistory(doc))
	}
	return recs, nil
}

var _ HistoryRepositoryInterface = (*HistoryRepository)(nil)
