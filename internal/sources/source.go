package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lehigh-university-libraries/citematch/internal/models"
)

var (
	// ErrSourceUnavailable marks any failure to obtain candidates from a source
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedCandidate marks a result entry missing a required field.
	// Adapters skip such entries instead of returning the error.
	ErrMalformedCandidate = errors.New("malformed candidate")
)

// Source fetches candidate records for a free-text query
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]models.CandidateRecord, error)
}

// Config represents the connection settings for one source
type Config struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Rows      int           `yaml:"rows"`
	Mailto    string        `yaml:"mailto"`
}

// UnavailableError records which source failed and at what stage
type UnavailableError struct {
	Source string
	Stage  string // "fetch", "status" or "decode"
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable (%s): %v", e.Source, e.Stage, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrSourceUnavailable) match any UnavailableError
func (e *UnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// HTTPStatusError is returned when a source answers with a non-2xx status
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func newHTTPClient(cfg Config) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// get issues a GET and returns the body of a 2xx response
func get(ctx context.Context, c *http.Client, source, userAgent, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &UnavailableError{Source: source, Stage: "fetch", Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", accept)
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, &UnavailableError{Source: source, Stage: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &UnavailableError{
			Source: source,
			Stage:  "status",
			Err:    &HTTPStatusError{URL: url, StatusCode: resp.StatusCode, Body: string(body)},
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{Source: source, Stage: "fetch", Err: fmt.Errorf("failed to read response: %w", err)}
	}
	return body, nil
}
