// Package api is the HTTP client for the Knowledge Lab backend. Every
// remote capability of the application (upload, summarization, Q&A, audio
// narration, authentication) is delegated to this external collaborator.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/knowlab/knowlab-cli/internal/domain"
)

// TokenSource supplies the bearer credential for authenticated calls. An
// empty token means no credential is stored.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-value TokenSource, used by tests and one-shot
// calls.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// Client talks to the backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a backend client. baseURL is normalized to end with a
// single slash. tokens may be nil for unauthenticated use.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/",
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// SummarizeResponse is the summarize endpoint payload. The backend may
// return session fields flat or nested under "session".
type SummarizeResponse struct {
	Summary   string           `json:"summary"`
	SessionID domain.SessionID `json:"session_id"`
	Title     string           `json:"title"`
	CreatedAt time.Time        `json:"created_at"`
	Session   *struct {
		ID        domain.SessionID `json:"id"`
		Title     string           `json:"title"`
		CreatedAt time.Time        `json:"created_at"`
	} `json:"session"`
}

// ResolvedSession flattens the two session shapes into one id/title/time
// triple. The id is empty when the response carried no session.
func (r *SummarizeResponse) ResolvedSession() (id, title string, createdAt time.Time) {
	id = r.SessionID.String()
	title = r.Title
	createdAt = r.CreatedAt
	if id == "" && r.Session != nil {
		id = r.Session.ID.String()
	}
	if title == "" && r.Session != nil {
		title = r.Session.Title
	}
	if createdAt.IsZero() && r.Session != nil {
		createdAt = r.Session.CreatedAt
	}
	return id, title, createdAt
}

// AudioResponse is the narration endpoint payload.
type AudioResponse struct {
	AudioURL  string `json:"audio_url"`
	Narration string `json:"narration"`
}

// Upload sends one file as multipart form data and returns the
// server-assigned document id.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (int64, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return 0, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"documents/upload/", &body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	var uploaded struct {
		ID int64 `json:"id"`
	}
	if err := c.do(req, &uploaded); err != nil {
		return 0, err
	}
	if uploaded.ID == 0 {
		return 0, domain.NewServerError("Upload failed")
	}
	return uploaded.ID, nil
}

// Summarize requests a combined summary over the given document ids.
func (c *Client) Summarize(ctx context.Context, fileIDs []int64) (*SummarizeResponse, error) {
	req, err := c.newJSONRequest(ctx, "documents/summarize/", map[string]any{"files": fileIDs}, true)
	if err != nil {
		return nil, err
	}

	var summarized SummarizeResponse
	if err := c.do(req, &summarized); err != nil {
		return nil, err
	}
	if summarized.Summary == "" {
		return nil, domain.NewServerError("Summarization failed")
	}
	return &summarized, nil
}

// ListSessions fetches the remote session listing. The endpoint has
// returned three shapes across backend versions: a bare array,
// {results: [...]} and {summaries: [...]}.
func (c *Client) ListSessions(ctx context.Context) ([]domain.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"documents/summaries/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.authorize(req)

	var raw json.RawMessage
	if err := c.do(req, &raw); err != nil {
		return nil, err
	}
	return decodeSessionList(raw)
}

type wireSession struct {
	ID          domain.SessionID `json:"id"`
	Title       string           `json:"title"`
	CreatedAt   time.Time        `json:"created_at"`
	SummaryText string           `json:"summary_text"`
}

func decodeSessionList(raw json.RawMessage) ([]domain.Session, error) {
	var list []wireSession
	if err := json.Unmarshal(raw, &list); err != nil {
		var envelope struct {
			Results   []wireSession `json:"results"`
			Summaries []wireSession `json:"summaries"`
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, domain.NewServerError("unexpected session listing shape")
		}
		list = envelope.Results
		if list == nil {
			list = envelope.Summaries
		}
	}

	sessions := make([]domain.Session, 0, len(list))
	for _, s := range list {
		sessions = append(sessions, domain.Session{
			ID:          s.ID.String(),
			Title:       s.Title,
			CreatedAt:   s.CreatedAt,
			SummaryText: s.SummaryText,
		})
	}
	return sessions, nil
}

// Ask submits a free-text question scoped to a session. The answer field
// has gone by several names across backend versions.
func (c *Client) Ask(ctx context.Context, sessionID, query string) (string, error) {
	path := fmt.Sprintf("documents/summaries/%s/chat/", sessionID)
	req, err := c.newJSONRequest(ctx, path, map[string]string{"query": query}, true)
	if err != nil {
		return "", err
	}

	var answered struct {
		Answer string `json:"answer"`
		Reply  string `json:"reply"`
		Result string `json:"result"`
	}
	if err := c.do(req, &answered); err != nil {
		return "", err
	}

	for _, answer := range []string{answered.Answer, answered.Reply, answered.Result} {
		if answer != "" {
			return answer, nil
		}
	}
	return "", domain.NewServerError("backend returned no answer")
}

// Audio requests spoken narration of a session's summary in the given
// language.
func (c *Client) Audio(ctx context.Context, sessionID, language string) (*AudioResponse, error) {
	path := fmt.Sprintf("documents/summaries/%s/audio/", sessionID)
	req, err := c.newJSONRequest(ctx, path, map[string]string{"language": language}, true)
	if err != nil {
		return nil, err
	}

	var narrated AudioResponse
	if err := c.do(req, &narrated); err != nil {
		return nil, err
	}
	return &narrated, nil
}

func (c *Client) newJSONRequest(ctx context.Context, path string, payload any, authed bool) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		c.authorize(req)
	}
	return req, nil
}

// authorize attaches the DRF token scheme header when a credential exists.
func (c *Client) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
}

// do executes the request, classifies failures and decodes the success
// body into out (out may be nil when the body is irrelevant).
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.NewNetworkError("backend unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := extractErrorMessage(resp.Body)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			if message == "" {
				message = "Unauthorized"
			}
			return domain.NewUnauthorizedError(message)
		}
		if message == "" {
			message = fmt.Sprintf("backend returned status %d", resp.StatusCode)
		}
		return domain.NewServerError(message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewServerError("failed to decode response: " + err.Error())
	}
	return nil
}

// extractErrorMessage pulls the error field from a rejection body when
// present. DRF uses both "error" and "detail".
func extractErrorMessage(r io.Reader) string {
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Detail
}
