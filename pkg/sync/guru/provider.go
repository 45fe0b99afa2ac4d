package guru

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mattsolo1/grove-guru/pkg/sync"
)

// DefaultBaseURL is Guru's public API endpoint.
const DefaultBaseURL = "https://api.getguru.com/api/v1"

// maxErrorBody caps how much of a failed response ends up in the error.
const maxErrorBody = 512

// GuruProvider implements the sync.Uploader interface for Guru.
type GuruProvider struct {
	BaseURL string
	User    string
	Token   string
	HTTP    *http.Client
}

// NewProvider creates a new GuruProvider. An empty baseURL selects DefaultBaseURL.
func NewProvider(baseURL, user, token string) *GuruProvider {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GuruProvider{
		BaseURL: strings.TrimRight(baseURL, "/"),
		User:    user,
		Token:   token,
		HTTP:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// Name returns the name of the provider.
func (p *GuruProvider) Name() string {
	return "guru"
}

// uploadResponse is the JSON body Guru answers an accepted upload with.
type uploadResponse struct {
	JobID string `json:"jobId"`
}

// UploadCollection posts a zipped collection to Guru's content sync endpoint.
func (p *GuruProvider) UploadCollection(ctx context.Context, collectionID string, archive []byte) (*sync.UploadResult, error) {
	if collectionID == "" {
		return nil, fmt.Errorf("collection id is required")
	}
	if p.User == "" || p.Token == "" {
		return nil, fmt.Errorf("guru credentials are required")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", collectionID+".zip")
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(archive); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}

	query := url.Values{}
	query.Set("collectionId", collectionID)
	query.Set("isSync", "true")
	endpoint := p.BaseURL + "/app/contentsyncupload?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(p.User, p.Token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	client := p.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, truncate(respBody))
	}

	result := &sync.UploadResult{StatusCode: resp.StatusCode}
	var parsed uploadResponse
	if len(respBody) > 0 && json.Unmarshal(respBody, &parsed) == nil {
		result.JobID = parsed.JobID
	}
	return result, nil
}

func truncate(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBody {
		return s[:maxErrorBody] + "..."
	}
	return s
}
