package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every outbound provider call.
const DefaultTimeout = 30 * time.Second

// maxBody caps how much of a provider response is read.
const maxBody = 16 << 20

// HTTPError is returned when a provider answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("provider returned %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// NewHTTPClient returns a client whose total request time is capped at timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// DoJSON sends req and decodes a 2xx JSON response into out.
func DoJSON(client *http.Client, req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = redact(req.URL)
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{
			StatusCode: resp.StatusCode,
			URL:        redact(req.URL),
			Body:       string(body[:min(len(body), 200)]),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w (body: %s)", err, string(body[:min(len(body), 200)]))
	}
	return nil
}

// redact hides credentials, including the provider API key query parameter.
func redact(u *url.URL) string {
	q := u.Query()
	if q.Get("apikey") == "" {
		return u.Redacted()
	}
	c := *u
	q.Set("apikey", "xxxxx")
	c.RawQuery = q.Encode()
	return c.Redacted()
}
