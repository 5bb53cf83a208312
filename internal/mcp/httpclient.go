package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/liftsheet/internal/models"
	"github.com/claude/liftsheet/internal/storage"
)

// HTTPClient implements DataSource by calling the LiftSheet REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API
// key is sent on mutating requests.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("httpclient: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("httpclient: read body: %w", err)
	}
	return resp.StatusCode, data, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	status, body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

// logSetPayload mirrors the POST /api/v1/sets request body.
type logSetPayload struct {
	Date        string  `json:"date,omitempty"`
	MuscleGroup string  `json:"muscle_group"`
	Exercise    string  `json:"exercise"`
	SetNumber   int     `json:"set_number"`
	MassKg      float64 `json:"mass_kg"`
	Reps        int     `json:"reps"`
	Location    string  `json:"location,omitempty"`
}

func (c *HTTPClient) AppendSet(ctx context.Context, s models.LoggedSet) error {
	status, body, err := c.do(ctx, http.MethodPost, "/api/v1/sets", logSetPayload{
		Date:        s.Date.Format(time.RFC3339),
		MuscleGroup: s.MuscleGroup,
		Exercise:    s.Exercise,
		SetNumber:   s.SetNumber,
		MassKg:      s.MassKg,
		Reps:        s.Reps,
		Location:    s.Location,
	})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("httpclient: log set returned %d: %s", status, body)
	}
	return nil
}

func (c *HTTPClient) ReadAllSets(ctx context.Context) ([]models.LoggedSet, error) {
	var rows []models.LoggedSet
	if err := c.get(ctx, "/api/v1/sets", &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *HTTPClient) DeleteLastSet(ctx context.Context) error {
	status, body, err := c.do(ctx, http.MethodDelete, "/api/v1/sets/last", nil)
	if err != nil {
		return err
	}
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusConflict:
		return storage.ErrEmptyLog
	}
	return fmt.Errorf("httpclient: delete last set returned %d: %s", status, body)
}

type logMeasurementPayload struct {
	Date       string  `json:"date,omitempty"`
	BodyFatPct float64 `json:"body_fat_pct"`
	WeightKg   float64 `json:"weight_kg"`
}

func (c *HTTPClient) AppendMeasurement(ctx context.Context, m models.BodyMeasurement) error {
	status, body, err := c.do(ctx, http.MethodPost, "/api/v1/measurements", logMeasurementPayload{
		Date:       m.Date.Format(time.RFC3339),
		BodyFatPct: m.BodyFatPct,
		WeightKg:   m.WeightKg,
	})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("httpclient: log measurement returned %d: %s", status, body)
	}
	return nil
}

func (c *HTTPClient) ReadAllMeasurements(ctx context.Context) ([]models.BodyMeasurement, error) {
	var ms []models.BodyMeasurement
	if err := c.get(ctx, "/api/v1/measurements", &ms); err != nil {
		return nil, err
	}
	return ms, nil
}

type logCaloriesPayload struct {
	Date string  `json:"date,omitempty"`
	Kcal float64 `json:"kcal"`
}

func (c *HTTPClient) AppendCalorieEntry(ctx context.Context, e models.CalorieEntry) error {
	status, body, err := c.do(ctx, http.MethodPost, "/api/v1/calories", logCaloriesPayload{
		Date: e.Date.Format(time.RFC3339),
		Kcal: e.Kcal,
	})
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("httpclient: log calories returned %d: %s", status, body)
	}
	return nil
}

func (c *HTTPClient) ReadAllCalorieEntries(ctx context.Context) ([]models.CalorieEntry, error) {
	var entries []models.CalorieEntry
	if err := c.get(ctx, "/api/v1/calories", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
