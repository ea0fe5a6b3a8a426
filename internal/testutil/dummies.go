// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/raysh454/fetchbutton/internal/clickhandler"
	"github.com/raysh454/fetchbutton/internal/logging"
	"github.com/raysh454/fetchbutton/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// LogEntry is one recorded log call.
type LogEntry struct {
	Msg    string
	Fields map[string]any
}

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []LogEntry
	Infos  []LogEntry
	Debugs []LogEntry
	Warns  []LogEntry
}

func toEntry(msg string, fields []logging.Field) LogEntry {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	return LogEntry{Msg: msg, Fields: m}
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, toEntry(msg, fields))
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, toEntry(msg, fields))
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, toEntry(msg, fields))
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, toEntry(msg, fields))
}

// With drops the persistent fields; tests only inspect per-call fields.
func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// InfoEntries returns a copy of the recorded info entries.
func (l *DummyLogger) InfoEntries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.Infos...)
}

// ErrorEntries returns a copy of the recorded error entries.
func (l *DummyLogger) ErrorEntries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.Errors...)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// Responder produces the outcome of the n-th call (starting at 1) to Do.
type Responder func(ctx context.Context, n int, req *webclient.Request) (*webclient.Response, error)

// DummyWebClient implements webclient.WebClient.
// By default it returns body "ok:<url>" with status 200.
// Set FailURLs[url] = true to force an error for a specific URL, or Respond
// to script every call.
type DummyWebClient struct {
	ResponseDelay time.Duration
	FailURLs      map[string]bool
	Respond       Responder

	mu       sync.Mutex
	calls    int
	Requests []*webclient.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	d.mu.Lock()
	d.calls++
	n := d.calls
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if d.Respond != nil {
		return d.Respond(ctx, n, req)
	}
	if d.FailURLs != nil && d.FailURLs[req.URL] {
		return nil, &errString{"dummy fetch fail for " + req.URL}
	}

	return &webclient.Response{
		Request:    req,
		Body:       []byte("ok:" + req.URL),
		StatusCode: 200,
		URL:        req.URL,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*webclient.Response, error) {
	return d.Do(ctx, &webclient.Request{Method: "GET", URL: url, Credentials: webclient.CredentialsInclude})
}

func (d *DummyWebClient) Close() error { return nil }

// RecordedRequests returns a copy of every request seen so far.
func (d *DummyWebClient) RecordedRequests() []*webclient.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*webclient.Request(nil), d.Requests...)
}

// ─── DOM ───────────────────────────────────────────────────────────────

// RecordingElement implements clickhandler.Element and keeps every write.
type RecordingElement struct {
	mu     sync.Mutex
	writes []string
	notify chan string
}

func NewRecordingElement() *RecordingElement {
	return &RecordingElement{notify: make(chan string, 64)}
}

func (e *RecordingElement) SetTextContent(text string) {
	e.mu.Lock()
	e.writes = append(e.writes, text)
	e.mu.Unlock()
	select {
	case e.notify <- text:
	default:
	}
}

// Text returns the current text content.
func (e *RecordingElement) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.writes) == 0 {
		return ""
	}
	return e.writes[len(e.writes)-1]
}

// Writes returns every text written, in order.
func (e *RecordingElement) Writes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.writes...)
}

// Next waits for the next write or until timeout elapses.
func (e *RecordingElement) Next(timeout time.Duration) (string, bool) {
	select {
	case s := <-e.notify:
		return s, true
	case <-time.After(timeout):
		return "", false
	}
}

// FakeButton implements clickhandler.Button; Press runs the registered callbacks.
type FakeButton struct {
	mu       sync.Mutex
	handlers []func()
}

func (b *FakeButton) OnClick(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

func (b *FakeButton) Press() {
	b.mu.Lock()
	hs := append([]func(){}, b.handlers...)
	b.mu.Unlock()
	for _, fn := range hs {
		fn()
	}
}

// Listeners reports how many callbacks are attached.
func (b *FakeButton) Listeners() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

// FakeDocument implements clickhandler.Document over in-memory elements.
// A nil field means the element is absent.
type FakeDocument struct {
	FetchButton *FakeButton
	Result      *RecordingElement
}

func (d *FakeDocument) Button(id string) (clickhandler.Button, bool) {
	if id != clickhandler.ButtonID || d.FetchButton == nil {
		return nil, false
	}
	return d.FetchButton, true
}

func (d *FakeDocument) Element(id string) (clickhandler.Element, bool) {
	if id != clickhandler.ResultID || d.Result == nil {
		return nil, false
	}
	return d.Result, true
}

// ─── helpers ───────────────────────────────────────────────────────────

type errString struct{ s string }

func (e *errString) Error() string { return e.s }
