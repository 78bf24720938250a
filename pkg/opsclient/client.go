// Package opsclient is the operator-side client for the ops console API:
// a thin REST client plus the schedule-edit and export-lifecycle workflow
// state kept on top of it.
package opsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	// エクスポート系はサーバ側でファイル生成が走るため長めに取る
	defaultExportTimeout = 120 * time.Second
)

type Config struct {
	BaseURL       string
	Token         string
	HTTPTimeout   time.Duration
	ExportTimeout time.Duration
}

// Client is constructed with the session token; there is no global token
// state. Export, download and apply share a longer timeout budget than reads.
type Client struct {
	baseURL      string
	token        string
	readClient   *http.Client
	exportClient *http.Client
}

func NewClient(cfg Config) *Client {
	httpTimeout := cfg.HTTPTimeout
	if httpTimeout <= 0 {
		httpTimeout = defaultHTTPTimeout
	}
	exportTimeout := cfg.ExportTimeout
	if exportTimeout <= 0 {
		exportTimeout = defaultExportTimeout
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		token:        cfg.Token,
		readClient:   &http.Client{Timeout: httpTimeout},
		exportClient: &http.Client{Timeout: exportTimeout},
	}
}

// APIError carries the server's detail text for a non-2xx response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Detail)
}

type Schedule struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	Enabled     bool    `json:"enabled"`
	DayOfWeek   string  `json:"day_of_week"`
	Hour        int     `json:"hour"`
	Minute      int     `json:"minute"`
	Every2Weeks bool    `json:"every_2_weeks"`
	Timezone    string  `json:"timezone"`
	LastRunAt   *string `json:"last_run_at"`
	UpdatedAt   *string `json:"updated_at"`
}

// ScheduleUpdate is the full-record PUT body; key and label stay in the URL
// and on the server.
type ScheduleUpdate struct {
	Enabled     bool   `json:"enabled"`
	DayOfWeek   string `json:"day_of_week"`
	Hour        int    `json:"hour"`
	Minute      int    `json:"minute"`
	Every2Weeks bool   `json:"every_2_weeks"`
	Timezone    string `json:"timezone"`
}

type ExportJob struct {
	JobID      string  `json:"job_id"`
	Country    string  `json:"country_type"`
	FileName   string  `json:"file_name"`
	FileSize   int     `json:"file_size"`
	RowCount   int     `json:"row_count"`
	Status     string  `json:"status"`
	CreatedBy  *string `json:"created_by"`
	AppliedBy  *string `json:"applied_by"`
	ExportedAt *string `json:"exported_at"`
	AppliedAt  *string `json:"applied_at"`
}

// CreateExportResult: NoDirty means the server had no changed rows and no job
// exists; LastJob may still carry the previous job for reference.
type CreateExportResult struct {
	NoDirty bool
	Job     *ExportJob
	LastJob *ExportJob
}

type ApplyResult struct {
	JobID     string  `json:"job_id"`
	Status    string  `json:"status"`
	AppliedAt *string `json:"applied_at"`
}

// ExportMeta is the header-carried metadata on a download response. Zero
// values mean the header was absent; absence is never an error.
type ExportMeta struct {
	JobID      string
	RowCount   *int
	Status     string
	Country    string
	ExportedAt string
	AppliedAt  string
}

type DownloadResult struct {
	FileName string // from Content-Disposition, empty when absent
	Content  []byte
	Meta     ExportMeta
}

func (c *Client) ListSchedules(ctx context.Context) ([]Schedule, error) {
	var out []Schedule
	if err := c.doJSON(ctx, c.readClient, http.MethodGet, "/api/schedules", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateSchedule(ctx context.Context, key string, upd ScheduleUpdate) (*Schedule, error) {
	var out Schedule
	path := "/api/schedules/" + url.PathEscape(key)
	if err := c.doJSON(ctx, c.readClient, http.MethodPut, path, upd, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateExport(ctx context.Context, country string) (*CreateExportResult, error) {
	path := "/api/kogan-template/export?country_type=" + url.QueryEscape(country)
	resp, err := c.do(ctx, c.exportClient, http.MethodPost, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusCreated:
		var job ExportJob
		if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
			return nil, fmt.Errorf("decode export job: %w", err)
		}
		return &CreateExportResult{Job: &job}, nil
	case http.StatusOK:
		// no-dirty short circuit
		var body struct {
			Detail  string     `json:"detail"`
			Country string     `json:"country_type"`
			LastJob *ExportJob `json:"last_job"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, fmt.Errorf("decode no-dirty response: %w", err)
		}
		return &CreateExportResult{NoDirty: true, LastJob: body.LastJob}, nil
	default:
		return nil, apiErrorFromResponse(resp)
	}
}

func (c *Client) DownloadExport(ctx context.Context, jobID string) (*DownloadResult, error) {
	path := "/api/kogan-template/download?job_id=" + url.QueryEscape(jobID)
	resp, err := c.do(ctx, c.exportClient, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, apiErrorFromResponse(resp)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export content: %w", err)
	}

	return &DownloadResult{
		FileName: fileNameFromDisposition(resp.Header.Get("Content-Disposition")),
		Content:  content,
		Meta:     metaFromHeaders(resp.Header),
	}, nil
}

func (c *Client) ApplyExport(ctx context.Context, jobID string) (*ApplyResult, error) {
	var out ApplyResult
	path := "/api/kogan-template/export/" + url.PathEscape(jobID) + "/apply"
	if err := c.doJSON(ctx, c.exportClient, http.MethodPost, path, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, hc *http.Client, method, path string, body any, wantStatus int, out any) error {
	resp, err := c.do(ctx, hc, method, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		return apiErrorFromResponse(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiErrorFromResponse(resp *http.Response) error {
	detail := resp.Status
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(raw) > 0 {
		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &body) == nil && body.Error.Message != "" {
			detail = body.Error.Message
		}
	}
	return &APIError{Status: resp.StatusCode, Detail: detail}
}

// fileNameFromDisposition handles both the plain filename parameter and the
// RFC 5987 filename* form with UTF-8 percent-encoding.
func fileNameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	// mime.ParseMediaType already decodes filename* into "filename" when only
	// the extended form is present; prefer it explicitly when both exist.
	if name, ok := params["filename*"]; ok {
		if decoded := decodeExtendedFileName(name); decoded != "" {
			return decoded
		}
	}
	return params["filename"]
}

func decodeExtendedFileName(v string) string {
	// RFC 5987: charset'lang'percent-encoded
	parts := strings.SplitN(v, "'", 3)
	if len(parts) != 3 {
		return ""
	}
	decoded, err := url.PathUnescape(parts[2])
	if err != nil {
		return ""
	}
	return decoded
}

func metaFromHeaders(h http.Header) ExportMeta {
	meta := ExportMeta{
		JobID:      h.Get("X-Kogan-Export-Job"),
		Status:     h.Get("X-Kogan-Export-Status"),
		Country:    h.Get("X-Kogan-Export-Country"),
		ExportedAt: h.Get("X-Kogan-Export-Exported-At"),
		AppliedAt:  h.Get("X-Kogan-Export-Applied-At"),
	}
	if v := h.Get("X-Kogan-Export-Rows"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			meta.RowCount = &n
		}
	}
	return meta
}
