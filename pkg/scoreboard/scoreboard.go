// Package scoreboard provides a client for a live-scoring service that mat
// officials use to record bout results.
package scoreboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abrezinsky/boutmatch/internal/logger"
)

// Result outcome values reported by the scoreboard
const (
	OutcomeWinA    = "win_a"
	OutcomeWinB    = "win_b"
	OutcomeDraw    = "draw"
	OutcomePending = "pending"
)

// Duration is a bout length in seconds that can be unmarshaled from a number,
// a numeric string, or a "m:ss" clock string. Scoreboard firmware is not
// consistent about which one it sends.
type Duration int

// UnmarshalJSON implements json.Unmarshaler for Duration
func (d *Duration) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = 0
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return fmt.Errorf("Duration: cannot unmarshal %s", string(data))
			}
			v = int64(f)
		}
		*d = Duration(v)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("Duration: cannot unmarshal %s", string(data))
	}
	secs, err := parseClock(s)
	if err != nil {
		return err
	}
	*d = Duration(secs)
	return nil
}

// Seconds returns the duration as plain seconds
func (d Duration) Seconds() int {
	return int(d)
}

func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	minutes, seconds, found := strings.Cut(s, ":")
	if !found {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("Duration: invalid value %q", s)
		}
		return v, nil
	}
	m, err := strconv.Atoi(minutes)
	if err != nil {
		return 0, fmt.Errorf("Duration: invalid minutes in %q", s)
	}
	sec, err := strconv.Atoi(seconds)
	if err != nil || sec >= 60 {
		return 0, fmt.Errorf("Duration: invalid seconds in %q", s)
	}
	return m*60 + sec, nil
}

// Result is one bout result reported by the scoreboard
type Result struct {
	Seq             int      `json:"seq"`
	Outcome         string   `json:"outcome"`
	DurationSeconds Duration `json:"duration"`
}

// Decided reports whether the scoreboard considers the bout finished
func (r Result) Decided() bool {
	return r.Outcome == OutcomeWinA || r.Outcome == OutcomeWinB || r.Outcome == OutcomeDraw
}

// Card is a scheduled bout published to the scoreboard
type Card struct {
	Seq      int    `json:"seq"`
	EntrantA string `json:"entrant_a"`
	TeamA    string `json:"team_a"`
	EntrantB string `json:"entrant_b"`
	TeamB    string `json:"team_b"`
}

// Status is the status block every scoreboard response carries
type Status struct {
	State   string `json:"state"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ResultsResponse is the response from the results endpoint
type ResultsResponse struct {
	Results []Result `json:"results"`
	Status  Status   `json:"status"`
}

// GenericResponse is a scoreboard response without payload
type GenericResponse struct {
	Status Status `json:"status"`
}

// Client defines the interface for scoreboard operations
type Client interface {
	// FetchResults retrieves all bout results currently held by the scoreboard
	FetchResults(ctx context.Context) ([]Result, error)
	// PublishCards replaces the scoreboard's bout schedule
	PublishCards(ctx context.Context, cards []Card) error
	// SetAPIKey configures the key sent with every request
	SetAPIKey(key string)
	// BaseURL returns the configured scoreboard base URL
	BaseURL() string
	// SetBaseURL updates the scoreboard base URL
	SetBaseURL(url string)
}

// HTTPClient is a real HTTP client for the scoreboard
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new scoreboard HTTP client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// NewHTTPClientWithHTTPClient creates a new scoreboard client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured scoreboard base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetBaseURL updates the scoreboard base URL
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetAPIKey configures the key sent with every request
func (c *HTTPClient) SetAPIKey(key string) {
	c.apiKey = key
}

// doRequest executes a request against the scoreboard, checks the HTTP status
// and the status block, then decodes the body into response.
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, payload, response interface{}) error {
	if c.baseURL == "" {
		return fmt.Errorf("scoreboard URL is not configured")
	}
	apiURL := c.baseURL + path

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	c.log.Debug("Scoreboard request", "method", method, "url", apiURL)

	req, err := http.NewRequestWithContext(ctx, method, apiURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to scoreboard: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Scoreboard response", "status", resp.StatusCode, "body", string(raw))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("scoreboard returned status %d: %s", resp.StatusCode, string(raw))
	}

	var statusCheck GenericResponse
	if err := json.Unmarshal(raw, &statusCheck); err == nil && statusCheck.Status.State == "error" {
		return fmt.Errorf("scoreboard error: %s (%s)", statusCheck.Status.Message, statusCheck.Status.Code)
	}

	if err := json.Unmarshal(raw, response); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FetchResults retrieves all bout results currently held by the scoreboard
func (c *HTTPClient) FetchResults(ctx context.Context) ([]Result, error) {
	var response ResultsResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/results", nil, &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}

// PublishCards replaces the scoreboard's bout schedule
func (c *HTTPClient) PublishCards(ctx context.Context, cards []Card) error {
	if cards == nil {
		cards = []Card{}
	}
	var response GenericResponse
	payload := struct {
		Cards []Card `json:"cards"`
	}{Cards: cards}
	if err := c.doRequest(ctx, http.MethodPut, "/api/cards", payload, &response); err != nil {
		return err
	}
	c.log.Info("Published bout cards to scoreboard", "count", len(cards))
	return nil
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
