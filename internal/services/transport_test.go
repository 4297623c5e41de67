package services_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/fstat/internal/services"
	"github.com/desertthunder/fstat/internal/shared"
	tu "github.com/desertthunder/fstat/internal/testing"
	"golang.org/x/oauth2"
)

func TestHTTPTransport(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Nil Client", func(t *testing.T) {
			if tr := services.NewHTTPTransport(nil, ""); tr == nil {
				t.Fatal("expected transport to be created")
			}
		})
	})

	t.Run("Do", func(t *testing.T) {
		t.Run("Successful Request Sends Headers", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer tok" {
					t.Errorf("expected Authorization header, got %q", got)
				}
				if got := r.Header.Get("User-Agent"); got != "fstat-test" {
					t.Errorf("expected User-Agent fstat-test, got %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"ok":true}`))
			}))
			defer server.Close()

			tr := services.NewHTTPTransport(nil, "fstat-test")
			body, err := tr.Do(context.Background(), services.Request{
				URL:  server.URL + "/players/g1",
				Auth: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok", TokenType: "Bearer"}),
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if string(body) != `{"ok":true}` {
				t.Errorf("unexpected body %s", string(body))
			}
		})

		t.Run("Client Error Body Is Returned", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"errors":[{"message":"not found"}]}`))
			}))
			defer server.Close()

			body, err := services.NewHTTPTransport(nil, "").Do(context.Background(), services.Request{URL: server.URL})
			if err != nil {
				t.Fatalf("expected no error for 404, got %v", err)
			}
			if !strings.Contains(string(body), "not found") {
				t.Errorf("expected error document, got %s", string(body))
			}
		})

		t.Run("Other Client Errors Fail", func(t *testing.T) {
			for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, http.StatusTooManyRequests} {
				t.Run(http.StatusText(status), func(t *testing.T) {
					server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
						w.WriteHeader(status)
						w.Write([]byte(`{"errors":[{"message":"unauthorized"}]}`))
					}))
					defer server.Close()

					_, err := services.NewHTTPTransport(nil, "").Do(context.Background(), services.Request{URL: server.URL})

					var te *services.TransportError
					if !errors.As(err, &te) {
						t.Fatalf("expected TransportError, got %v", err)
					}
					if te.StatusCode != status {
						t.Errorf("expected status %d, got %d", status, te.StatusCode)
					}
				})
			}
		})

		t.Run("Unusable Token Is Not Sent", func(t *testing.T) {
			hits := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits++
			}))
			defer server.Close()

			_, err := services.NewHTTPTransport(nil, "").Do(context.Background(), services.Request{
				URL:  server.URL,
				Auth: oauth2.StaticTokenSource(&oauth2.Token{}),
			})
			if !errors.Is(err, shared.ErrTransport) {
				t.Fatalf("expected ErrTransport, got %v", err)
			}
			if !strings.Contains(err.Error(), "token is empty or expired") {
				t.Errorf("unexpected error %v", err)
			}
			if hits != 0 {
				t.Errorf("expected no request, got %d", hits)
			}
		})

		t.Run("Server Error Fails", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer server.Close()

			_, err := services.NewHTTPTransport(nil, "").Do(context.Background(), services.Request{URL: server.URL})

			var te *services.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("expected TransportError, got %v", err)
			}
			if te.StatusCode != http.StatusBadGateway {
				t.Errorf("expected status 502, got %d", te.StatusCode)
			}
			if !errors.Is(err, shared.ErrTransport) {
				t.Error("expected error to match ErrTransport")
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			_, err := services.NewHTTPTransport(nil, "").Do(context.Background(), services.Request{URL: "http://example.com/\x00invalid"})

			if err == nil {
				t.Fatal("expected error for invalid URL")
			}
			if !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))}

			_, err := services.NewHTTPTransport(client, "").Do(context.Background(), services.Request{URL: "http://example.com/test"})

			if !errors.Is(err, shared.ErrTransport) {
				t.Fatalf("expected ErrTransport, got %v", err)
			}
			if !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			_, err := services.NewHTTPTransport(client, "").Do(context.Background(), services.Request{URL: "http://example.com/test"})

			if err == nil {
				t.Fatal("expected error for failed body read")
			}
			if !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})
	})
}
