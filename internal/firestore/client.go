// internal/firestore/client.go
package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://firestore.googleapis.com/v1"

// Document is one typed-value tree as returned by the REST API.
type Document struct {
	Name       string `json:"name"`
	Fields     Fields `json:"fields"`
	CreateTime string `json:"createTime,omitempty"`
	UpdateTime string `json:"updateTime,omitempty"`
}

// ID returns the last path segment of the document name.
func (d Document) ID() string {
	i := strings.LastIndex(d.Name, "/")
	if i < 0 {
		return d.Name
	}
	return d.Name[i+1:]
}

// Client talks to the document store REST API for a single project. It is
// constructed once and injected everywhere; credentials are never
// rediscovered per call.
type Client struct {
	BaseURL    string
	ProjectID  string
	Tokens     TokenSource
	HTTPClient *http.Client
}

// NewClient builds a client for the given project.
func NewClient(projectID string, tokens TokenSource) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		ProjectID:  projectID,
		Tokens:     tokens,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientFromEnv wires a client from FIRESTORE_SERVICE_ACCOUNT (key file
// path) or FIRESTORE_TOKEN + FIRESTORE_PROJECT_ID.
func NewClientFromEnv() (*Client, error) {
	if saPath := os.Getenv("FIRESTORE_SERVICE_ACCOUNT"); saPath != "" {
		src, err := NewServiceAccountTokenSource(saPath)
		if err != nil {
			return nil, err
		}
		project := os.Getenv("FIRESTORE_PROJECT_ID")
		if project == "" {
			project = src.ProjectID()
		}
		if project == "" {
			return nil, fmt.Errorf("no project id in service account or FIRESTORE_PROJECT_ID")
		}
		return NewClient(project, src), nil
	}

	token := os.Getenv("FIRESTORE_TOKEN")
	project := os.Getenv("FIRESTORE_PROJECT_ID")
	if token == "" || project == "" {
		return nil, fmt.Errorf("set FIRESTORE_SERVICE_ACCOUNT, or FIRESTORE_TOKEN and FIRESTORE_PROJECT_ID")
	}
	return NewClient(project, StaticTokenSource(token)), nil
}

// documentsRoot is the path prefix for all document paths in the project.
func (c *Client) documentsRoot() string {
	return fmt.Sprintf("%s/projects/%s/databases/(default)/documents", c.BaseURL, c.ProjectID)
}

func (c *Client) do(ctx context.Context, method, rawURL string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return 0, nil, err
	}

	token, err := c.Tokens.Token(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("get token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

// ListDocuments returns every document in a collection, following
// nextPageToken pagination.
func (c *Client) ListDocuments(ctx context.Context, collectionPath string) ([]Document, error) {
	base := c.documentsRoot() + "/" + collectionPath
	var docs []Document
	pageToken := ""

	for {
		u := base + "?pageSize=200"
		if pageToken != "" {
			u += "&pageToken=" + url.QueryEscape(pageToken)
		}

		status, body, err := c.do(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("list %s: %d %s", collectionPath, status, truncate(string(body), 200))
		}

		var page struct {
			Documents     []Document `json:"documents"`
			NextPageToken string     `json:"nextPageToken"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode list response: %w", err)
		}
		docs = append(docs, page.Documents...)
		if page.NextPageToken == "" {
			return docs, nil
		}
		pageToken = page.NextPageToken
	}
}

// GetDocument fetches a single document. Missing documents return
// (nil, nil) so callers can treat unset settings as defaults.
func (c *Client) GetDocument(ctx context.Context, documentPath string) (*Document, error) {
	status, body, err := c.do(ctx, http.MethodGet, c.documentsRoot()+"/"+documentPath, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("get %s: %d %s", documentPath, status, truncate(string(body), 200))
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}

// PatchDocument updates exactly the fields named in the mask; unrelated
// fields are untouched.
func (c *Client) PatchDocument(ctx context.Context, documentPath string, fields map[string]Value, mask []string) error {
	q := url.Values{}
	for _, f := range mask {
		q.Add("updateMask.fieldPaths", f)
	}
	u := c.documentsRoot() + "/" + documentPath + "?" + q.Encode()

	status, body, err := c.do(ctx, http.MethodPatch, u, map[string]any{"fields": fields})
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("patch %s: %d %s", documentPath, status, truncate(string(body), 200))
	}
	return nil
}

// PatchDocumentName is PatchDocument for a fully-qualified document name as
// returned in Document.Name (used by the history migrate CLI).
func (c *Client) PatchDocumentName(ctx context.Context, name string, fields map[string]Value, mask []string) error {
	q := url.Values{}
	for _, f := range mask {
		q.Add("updateMask.fieldPaths", f)
	}
	u := c.BaseURL + "/" + name + "?" + q.Encode()

	status, body, err := c.do(ctx, http.MethodPatch, u, map[string]any{"fields": fields})
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusNoContent {
		return fmt.Errorf("patch %s: %d %s", name, status, truncate(string(body), 200))
	}
	return nil
}

// CreateDocument adds a document to a collection. documentID may be empty,
// in which case the store assigns one.
func (c *Client) CreateDocument(ctx context.Context, collectionPath, documentID string, fields map[string]Value) (*Document, error) {
	u := c.documentsRoot() + "/" + collectionPath
	if documentID != "" {
		u += "?documentId=" + url.QueryEscape(documentID)
	}

	status, body, err := c.do(ctx, http.MethodPost, u, map[string]any{"fields": fields})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("create in %s: %d %s", collectionPath, status, truncate(string(body), 200))
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		log.Println("created document but could not decode response:", err)
		return nil, nil
	}
	return &doc, nil
}
