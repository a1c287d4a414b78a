// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
	"golang.org/x/oauth2"
)

// MockBackend is an in-memory test double for services.ListingService.
type MockBackend struct {
	mu       sync.Mutex
	Listings []models.Listing
	Err      error
	Failing  map[string]error // per-ID GetListing errors
	Calls    int
}

func NewMockBackend(listings ...models.Listing) *MockBackend {
	return &MockBackend{Listings: listings}
}

func (m *MockBackend) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if err, ok := m.Failing[id]; ok {
		return nil, err
	}
	for _, l := range m.Listings {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", shared.ErrListingNotFound, id)
}

func (m *MockBackend) SearchListings(ctx context.Context, q models.ListingQuery) ([]models.Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	matches := m.filter(q)
	q = q.Normalize()
	if q.Offset >= len(matches) {
		return []models.Listing{}, nil
	}
	end := min(q.Offset+q.Limit, len(matches))
	return matches[q.Offset:end], nil
}

func (m *MockBackend) CountListings(ctx context.Context, q models.ListingQuery) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.filter(q)), nil
}

func (m *MockBackend) filter(q models.ListingQuery) []models.Listing {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	city := strings.ToLower(strings.TrimSpace(q.City))
	var out []models.Listing
	for _, l := range m.Listings {
		if text != "" && !strings.Contains(strings.ToLower(l.Name+" "+l.City+" "+l.Address+" "+l.Description), text) {
			continue
		}
		if city != "" && !strings.Contains(strings.ToLower(l.City), city) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// RecordingStorage is a key/value favorites storage that counts saves and can be told to fail.
type RecordingStorage struct {
	mu       sync.Mutex
	Docs     map[string][]byte
	Saves    int
	FailSave error
	FailLoad error
}

func NewRecordingStorage() *RecordingStorage {
	return &RecordingStorage{Docs: make(map[string][]byte)}
}

func (r *RecordingStorage) Load(_ context.Context, key string) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailLoad != nil {
		return nil, false, r.FailLoad
	}
	data, ok := r.Docs[key]
	return slices.Clone(data), ok, nil
}

func (r *RecordingStorage) Save(_ context.Context, key string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSave != nil {
		return r.FailSave
	}
	r.Saves++
	r.Docs[key] = slices.Clone(data)
	return nil
}

// MockExchanger is a test double for an OAuth2 code exchanger.
type MockExchanger struct {
	mu    sync.Mutex
	Token *oauth2.Token
	Err   error
	Panic any
	Codes []string
	Opts  int
}

func (m *MockExchanger) Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	m.mu.Lock()
	m.Codes = append(m.Codes, code)
	m.Opts = len(opts)
	m.mu.Unlock()

	if m.Panic != nil {
		panic(m.Panic)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Token == nil {
		return nil, fmt.Errorf("mock: no token configured")
	}
	return m.Token, nil
}

// Called reports how many exchanges were attempted.
func (m *MockExchanger) Called() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Codes)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
	calls    int
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	m.calls++
	return m.response, m.err
}

// Calls reports how many requests went through the round tripper.
func (m *MockRoundTripper) Calls() int {
	return m.calls
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
