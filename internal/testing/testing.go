// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/desertthunder/fstat/internal/services"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// Reply is a canned [services.Transport] outcome for one URL.
type Reply struct {
	Body string
	Err  error
	Gate <-chan struct{} // when set, Do blocks until it is closed or the context is done
}

// ScriptedTransport is a [services.Transport] that answers by exact URL and records every call.
//
// URLs without a reply fail with a [services.TransportError].
type ScriptedTransport struct {
	mu      sync.Mutex
	replies map[string]Reply
	calls   []services.Request
}

func NewScriptedTransport() *ScriptedTransport {
	return &ScriptedTransport{replies: make(map[string]Reply)}
}

// On scripts a successful body for url.
func (s *ScriptedTransport) On(url, body string) *ScriptedTransport {
	return s.Reply(url, Reply{Body: body})
}

// Fail scripts a transport failure for url.
func (s *ScriptedTransport) Fail(url string, err error) *ScriptedTransport {
	return s.Reply(url, Reply{Err: &services.TransportError{Method: http.MethodGet, URL: url, Err: err}})
}

// Reply scripts an arbitrary outcome for url.
func (s *ScriptedTransport) Reply(url string, r Reply) *ScriptedTransport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[url] = r
	return s
}

func (s *ScriptedTransport) Do(ctx context.Context, req services.Request) ([]byte, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	r, ok := s.replies[req.URL]
	s.mu.Unlock()

	if req.Auth != nil {
		tok, err := req.Auth.Token()
		if err != nil {
			return nil, &services.TransportError{Method: req.Method, URL: req.URL, Err: err}
		}
		if !tok.Valid() {
			return nil, &services.TransportError{Method: req.Method, URL: req.URL, Err: errors.New("token is empty or expired")}
		}
	}

	if !ok {
		return nil, &services.TransportError{Method: req.Method, URL: req.URL, Err: fmt.Errorf("no scripted reply")}
	}

	if r.Gate != nil {
		select {
		case <-r.Gate:
		case <-ctx.Done():
			return nil, &services.TransportError{Method: req.Method, URL: req.URL, Err: ctx.Err()}
		}
	}

	if r.Err != nil {
		return nil, r.Err
	}
	return []byte(r.Body), nil
}

// Calls returns a copy of the recorded requests in arrival order.
func (s *ScriptedTransport) Calls() []services.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]services.Request(nil), s.calls...)
}

// CallCount returns how many requests hit url.
func (s *ScriptedTransport) CallCount(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.calls {
		if c.URL == url {
			n++
		}
	}
	return n
}

// AuthHeader returns the Authorization header req would carry, or "" when it is unauthenticated.
func AuthHeader(req services.Request) string {
	if req.Auth == nil {
		return ""
	}
	tok, err := req.Auth.Token()
	if err != nil {
		return ""
	}

	r, _ := http.NewRequest(http.MethodGet, req.URL, nil)
	tok.SetAuthHeader(r)
	return r.Header.Get("Authorization")
}
