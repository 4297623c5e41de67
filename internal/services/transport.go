package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/fstat/internal/shared"
)

const defaultUserAgent = "fstat"

// TransportError reports a request that failed below the JSON layer.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports true for [shared.ErrTransport].
func (e *TransportError) Is(target error) bool { return target == shared.ErrTransport }

// HTTPTransport implements [Transport] over an [http.Client].
//
// 404 bodies are returned as-is: the FACEIT API answers "no such stats" with a JSON error document
// that callers decode into an empty result. Every other status of 400 or above is a failure.
type HTTPTransport struct {
	httpClient *http.Client
	userAgent  string
}

// NewHTTPTransport creates a transport. A nil client uses [http.DefaultClient].
func NewHTTPTransport(client *http.Client, userAgent string) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &HTTPTransport{httpClient: client, userAgent: userAgent}
}

// Do performs the request once and returns the response body.
func (t *HTTPTransport) Do(ctx context.Context, r Request) ([]byte, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	fail := func(status int, err error) error {
		return &TransportError{Method: method, URL: r.URL, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, method, r.URL, nil)
	if err != nil {
		return nil, fail(0, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("User-Agent", t.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	if r.Auth != nil {
		tok, err := r.Auth.Token()
		if err != nil {
			return nil, fail(0, fmt.Errorf("failed to obtain token: %w", err))
		}
		if !tok.Valid() {
			return nil, fail(0, errors.New("token is empty or expired"))
		}
		tok.SetAuthHeader(req)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fail(0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fail(resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode != http.StatusNotFound {
		return nil, fail(resp.StatusCode, errors.New(http.StatusText(resp.StatusCode)))
	}

	return body, nil
}
