package repository_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rikulab/recruit-notify/internal/firestore"
	"github.com/rikulab/recruit-notify/internal/model"
	"github.com/rikulab/recruit-notify/internal/repository"
)

// fakeStore serves a canned document tree over the REST shapes the client
// speaks: GET collection (list), GET document, PATCH document.
type fakeStore struct {
	// collections maps collection path -> documents.
	collections map[string][]map[string]any
	// docs maps document path -> fields.
	docs map[string]map[string]any

	patches []patchCall
}

type patchCall struct {
	Path   string
	Mask   []string
	Fields map[string]firestore.Value
}

func (s *fakeStore) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/projects/test-project/databases/(default)/documents/")

		switch r.Method {
		case http.MethodGet:
			if docs, ok := s.collections[path]; ok {
				json.NewEncoder(w).Encode(map[string]any{"documents": docs})
				return
			}
			if fields, ok := s.docs[path]; ok {
				json.NewEncoder(w).Encode(map[string]any{
					"name":   "projects/test-project/databases/(default)/documents/" + path,
					"fields": fields,
				})
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPatch:
			var body struct {
				Fields map[string]firestore.Value `json:"fields"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			s.patches = append(s.patches, patchCall{
				Path:   path,
				Mask:   r.URL.Query()["updateMask.fieldPaths"],
				Fields: body.Fields,
			})
			w.Write([]byte(`{}`))
		case http.MethodPost:
			json.NewEncoder(w).Encode(map[string]any{
				"name": "projects/test-project/databases/(default)/documents/" + path + "/assigned-id",
			})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func newFakeStoreClient(t *testing.T, store *fakeStore) *firestore.Client {
	t.Helper()
	srv := httptest.NewServer(store.handler(t))
	t.Cleanup(srv.Close)
	c := firestore.NewClient("test-project", firestore.StaticTokenSource("tok"))
	c.BaseURL = srv.URL
	return c
}

func taskDoc(id string, fields map[string]any) map[string]any {
	return map[string]any{
		"name":   "projects/test-project/databases/(default)/documents/accounts/u1/scheduled_tasks/" + id,
		"fields": fields,
	}
}

func str(s string) map[string]any { return map[string]any{"stringValue": s} }

func TestListDueTasksFiltersStatusAndTime(t *testing.T) {
	now := time.UnixMilli(1_720_000_000_000)
	store := &fakeStore{collections: map[string][]map[string]any{
		"accounts/u1/scheduled_tasks": {
			taskDoc("due", map[string]any{
				"uid":      str("u1"),
				"taskType": str("sms"),
				"status":   str("pending"),
				"nextRun":  map[string]any{"integerValue": "1719999999000"},
				"to":       str("090-1234-5678"),
				"template": str("{{applicant_name}}様"),
				"applicantDetail": map[string]any{"mapValue": map[string]any{"fields": map[string]any{
					"applicant_name": str("鈴木"),
				}}},
			}),
			taskDoc("future", map[string]any{
				"uid":      str("u1"),
				"taskType": str("sms"),
				"status":   str("pending"),
				"nextRun":  map[string]any{"integerValue": "1720000000001"},
			}),
			taskDoc("done", map[string]any{
				"uid":      str("u1"),
				"taskType": str("sms"),
				"status":   str("completed"),
				"nextRun":  map[string]any{"integerValue": "1719999999000"},
			}),
		},
	}}
	repo := &repository.TaskRepository{Client: newFakeStoreClient(t, store)}

	tasks, err := repo.ListDueTasks(context.Background(), "u1", now)
	require.NoError(t, err)
	require.Len(t, tasks, 1)

	task := tasks[0]
	assert.Equal(t, "due", task.ID)
	assert.Equal(t, "090-1234-5678", task.To)
	assert.Equal(t, map[string]string{"applicant_name": "鈴木"}, task.ApplicantDetail)
}

func TestListDueTasksBoundaryIsInclusive(t *testing.T) {
	now := time.UnixMilli(1_720_000_000_000)
	store := &fakeStore{collections: map[string][]map[string]any{
		"accounts/u1/scheduled_tasks": {
			taskDoc("exact", map[string]any{
				"status":  str("pending"),
				"nextRun": map[string]any{"integerValue": "1720000000000"},
			}),
		},
	}}
	repo := &repository.TaskRepository{Client: newFakeStoreClient(t, store)}

	tasks, err := repo.ListDueTasks(context.Background(), "u1", now)
	require.NoError(t, err)
	require.Len(t, tasks, 1, "nextRun == now counts as due")
}

func TestListTasksStatusFilter(t *testing.T) {
	store := &fakeStore{collections: map[string][]map[string]any{
		"accounts/u1/scheduled_tasks": {
			taskDoc("a", map[string]any{"status": str("pending")}),
			taskDoc("b", map[string]any{"status": str("failed")}),
		},
	}}
	repo := &repository.TaskRepository{Client: newFakeStoreClient(t, store)}

	all, err := repo.ListTasks(context.Background(), "u1", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	failed, err := repo.ListTasks(context.Background(), "u1", "failed")
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "b", failed[0].ID)
}

func TestUpdateStatusCompleted(t *testing.T) {
	store := &fakeStore{}
	repo := &repository.TaskRepository{Client: newFakeStoreClient(t, store)}

	err := repo.UpdateStatus(context.Background(), "u1", "t1", model.StatusCompleted, "")
	require.NoError(t, err)

	require.Len(t, store.patches, 1)
	p := store.patches[0]
	assert.Equal(t, "accounts/u1/scheduled_tasks/t1", p.Path)
	assert.ElementsMatch(t, []string{"status", "updatedAt", "completedAt"}, p.Mask)
	assert.Equal(t, model.StatusCompleted, p.Fields["status"].Str())
	assert.Greater(t, p.Fields["completedAt"].Int(), int64(0))
}

func TestUpdateStatusFailedCarriesError(t *testing.T) {
	store := &fakeStore{}
	repo := &repository.TaskRepository{Client: newFakeStoreClient(t, store)}

	err := repo.UpdateStatus(context.Background(), "u1", "t1", model.StatusFailed, "invalid phone: too few digits")
	require.NoError(t, err)

	require.Len(t, store.patches, 1)
	p := store.patches[0]
	assert.ElementsMatch(t, []string{"status", "updatedAt", "errorMsg"}, p.Mask)
	assert.Equal(t, "invalid phone: too few digits", p.Fields["errorMsg"].Str())
	assert.NotContains(t, p.Fields, "completedAt")
}

func TestCreateAssignsStoreID(t *testing.T) {
	store := &fakeStore{}
	repo := &repository.TaskRepository{Client: newFakeStoreClient(t, store)}

	task := &model.ScheduledTask{UID: "u1", TaskType: model.TaskTypeSMS, To: "09012345678"}
	require.NoError(t, repo.Create(context.Background(), task))
	assert.Equal(t, "assigned-id", task.ID)
	assert.Equal(t, model.StatusPending, task.Status)
}
