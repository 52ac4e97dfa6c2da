package scoreboard

import (
	"context"
	"sync"
)

// MockClient is a mock scoreboard client for testing
type MockClient struct {
	mu         sync.Mutex
	results    []Result
	baseURL    string
	apiKey     string
	fetchErr   error
	publishErr error
	published  [][]Card
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithResults sets the results to return
func WithResults(results []Result) MockOption {
	return func(m *MockClient) {
		m.results = results
	}
}

// WithFetchError sets an error to return from FetchResults
func WithFetchError(err error) MockOption {
	return func(m *MockClient) {
		m.fetchErr = err
	}
}

// WithPublishError sets an error to return from PublishCards
func WithPublishError(err error) MockOption {
	return func(m *MockClient) {
		m.publishErr = err
	}
}

// WithBaseURL sets the base URL
func WithBaseURL(url string) MockOption {
	return func(m *MockClient) {
		m.baseURL = url
	}
}

// NewMockClient creates a new mock scoreboard client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		baseURL: "http://mock-scoreboard.local",
		results: DefaultMockResults(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	return m.baseURL
}

// SetBaseURL updates the base URL
func (m *MockClient) SetBaseURL(url string) {
	m.baseURL = url
}

// SetAPIKey records the API key
func (m *MockClient) SetAPIKey(key string) {
	m.apiKey = key
}

// APIKey returns the last configured API key
func (m *MockClient) APIKey() string {
	return m.apiKey
}

// FetchResults returns the configured mock results or error
func (m *MockClient) FetchResults(ctx context.Context) ([]Result, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.results, nil
}

// PublishCards records the published cards
func (m *MockClient) PublishCards(ctx context.Context, cards []Card) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, cards)
	return nil
}

// Published returns every card set passed to PublishCards, oldest first
func (m *MockClient) Published() [][]Card {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]Card(nil), m.published...)
}

// DefaultMockResults returns a small set of results covering every outcome
func DefaultMockResults() []Result {
	return []Result{
		{Seq: 1, Outcome: OutcomeWinA, DurationSeconds: 95},
		{Seq: 2, Outcome: OutcomeDraw, DurationSeconds: 180},
		{Seq: 3, Outcome: OutcomeWinB, DurationSeconds: 42},
		{Seq: 4, Outcome: OutcomePending},
	}
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
