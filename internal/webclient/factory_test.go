package webclient_test

import (
	"context"
	"errors"
	"testing"

	"github.com/raysh454/fetchbutton/internal/logging"
	"github.com/raysh454/fetchbutton/internal/webclient"
)

// TestNewWebClient_DefaultBackend verifies that empty backend defaults to nethttp
func TestNewWebClient_DefaultBackend(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{}, logging.NopLogger{})
	if err != nil {
		t.Fatalf("Failed to create default client: %v", err)
	}
	defer client.Close()

	if _, ok := client.(*webclient.NetHTTPClient); !ok {
		t.Fatalf("expected *NetHTTPClient, got %T", client)
	}
}

// TestNewWebClient_ChromeDP verifies that chromedp client can be constructed
// Note: This test is skipped in environments without a browser
func TestNewWebClient_ChromeDP(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{Client: webclient.ClientChromedp}, logging.NopLogger{})
	if err != nil {
		t.Skipf("Skipping chromedp test: %v", err)
	}
	defer client.Close()
}

// TestNewWebClient_UnknownBackend verifies that unknown backend returns error
func TestNewWebClient_UnknownBackend(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{Client: "unknown"}, logging.NopLogger{})
	if err == nil {
		t.Fatal("Expected error for unknown backend, got nil")
	}
	if !errors.Is(err, webclient.ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
	if client != nil {
		t.Fatal("Expected nil client for unknown backend")
	}
}

type stubClient struct{}

func (stubClient) Do(context.Context, *webclient.Request) (*webclient.Response, error) {
	return &webclient.Response{}, nil
}
func (stubClient) Get(context.Context, string) (*webclient.Response, error) {
	return &webclient.Response{}, nil
}
func (stubClient) Close() error { return nil }

func TestRegisterBackend_CaseInsensitive(t *testing.T) {
	t.Parallel()
	webclient.RegisterBackend("Stub-Factory", func(webclient.Config, logging.Logger) (webclient.WebClient, error) {
		return stubClient{}, nil
	})

	client, err := webclient.NewWebClient(webclient.Config{Client: " STUB-factory "}, logging.NopLogger{})
	if err != nil {
		t.Fatalf("NewWebClient: %v", err)
	}
	if _, ok := client.(stubClient); !ok {
		t.Fatalf("expected stubClient, got %T", client)
	}

	found := false
	for _, name := range webclient.ListBackends() {
		if name == "stub-factory" {
			found = true
		}
	}
	if !found {
		t.Errorf("stub-factory missing from %v", webclient.ListBackends())
	}
}

func TestNewWebClient_ConstructorError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	webclient.RegisterBackend("failing", func(webclient.Config, logging.Logger) (webclient.WebClient, error) {
		return nil, boom
	})

	_, err := webclient.NewWebClient(webclient.Config{Client: "failing"}, logging.NopLogger{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped constructor error, got %v", err)
	}
}
