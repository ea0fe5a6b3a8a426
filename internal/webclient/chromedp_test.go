//go:build !(js && wasm)

package webclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/raysh454/fetchbutton/internal/logging"
)

func TestBuildFetchScript_EncodesArguments(t *testing.T) {
	t.Parallel()
	req := &Request{
		URL:     `http://localhost:8088/api/redirect?q="x"`,
		Headers: http.Header{"X-Trace": {"a", "b"}},
	}

	script, err := buildFetchScript(req, http.MethodGet)
	if err != nil {
		t.Fatalf("buildFetchScript: %v", err)
	}

	for _, want := range []string{
		`fetch("http://localhost:8088/api/redirect?q=\"x\""`,
		`method: "GET"`,
		`credentials: "include"`,
		`"X-Trace":"a, b"`,
	} {
		if !strings.Contains(script, want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}
}

func TestBuildFetchScript_KeepsExplicitCredentials(t *testing.T) {
	t.Parallel()
	script, err := buildFetchScript(&Request{URL: "http://x", Credentials: CredentialsOmit}, http.MethodGet)
	if err != nil {
		t.Fatalf("buildFetchScript: %v", err)
	}
	if !strings.Contains(script, `credentials: "omit"`) {
		t.Errorf("expected omit credentials in script:\n%s", script)
	}
}

func newTestChromedpClient(t *testing.T, cfg Config) *ChromedpClient {
	t.Helper()
	client, err := NewChromedpClient(cfg, logging.NopLogger{})
	if err != nil {
		t.Skipf("Skipping chromedp test (environment does not support chromedp): %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestChromedpClient_Do_FollowsRedirect(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/redirect" {
			http.Redirect(w, r, "/api/data", http.StatusFound)
			return
		}
		_, _ = io.WriteString(w, "This is the redirected data!")
	}))
	defer ts.Close()

	// Same origin keeps CORS out of the way.
	client := newTestChromedpClient(t, Config{Origin: ts.URL + "/"})

	resp, err := client.Get(context.Background(), ts.URL+"/api/redirect")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !resp.Redirected {
		t.Error("expected Redirected=true")
	}
	if resp.URL != ts.URL+"/api/data" {
		t.Errorf("URL = %q", resp.URL)
	}
	if string(resp.Body) != "This is the redirected data!" {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestChromedpClient_Do_ConnectionRefused(t *testing.T) {
	client := newTestChromedpClient(t, Config{})

	_, err := client.Get(context.Background(), "http://127.0.0.1:1/")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fe.Message == "" {
		t.Error("expected a non-empty fetch error message")
	}
}

func TestChromedpClient_Do_NilRequest(t *testing.T) {
	client := newTestChromedpClient(t, Config{})

	if _, err := client.Do(context.Background(), nil); !errors.Is(err, ErrNilRequest) {
		t.Fatalf("expected ErrNilRequest, got %v", err)
	}
}
