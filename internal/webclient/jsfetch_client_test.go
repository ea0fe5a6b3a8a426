//go:build js && wasm

package webclient

import (
	"context"
	"errors"
	"syscall/js"
	"testing"
)

func newTestJSFetchClient(t *testing.T) *JSFetchClient {
	t.Helper()
	if js.Global().Get("fetch").Type() != js.TypeFunction {
		t.Skip("Skipping jsfetch test (no global fetch in this runtime)")
	}
	return NewJSFetchClient(Config{}, nil)
}

func TestJSFetchClient_Do_NilRequest(t *testing.T) {
	client := NewJSFetchClient(Config{}, nil)
	if _, err := client.Do(context.Background(), nil); !errors.Is(err, ErrNilRequest) {
		t.Fatalf("expected ErrNilRequest, got %v", err)
	}
}

func TestJSFetchClient_Do_ConnectionRefused(t *testing.T) {
	client := newTestJSFetchClient(t)

	_, err := client.Get(context.Background(), "http://127.0.0.1:1/")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fe.Message == "" {
		t.Error("expected a non-empty fetch error message")
	}
}

func TestJSErrorMessage(t *testing.T) {
	errCtor := js.Global().Get("Error")
	tests := []struct {
		name string
		v    js.Value
		want string
	}{
		{"error object", errCtor.New("Failed to fetch"), "Failed to fetch"},
		{"plain string", js.ValueOf("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jsErrorMessage(tt.v); got != tt.want {
				t.Errorf("jsErrorMessage = %q, want %q", got, tt.want)
			}
		})
	}
}
