package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
	// ClientJSFetch calls the page's fetch directly; js/wasm only.
	ClientJSFetch Client = "jsfetch"
)

// Config carries the options every backend understands. It is filled from
// app.Config without creating an import cycle.
type Config struct {
	Client Client

	// Timeout bounds a whole request including redirects and body. Zero means none.
	Timeout time.Duration

	// Origin is the page the requests are issued from. The chromedp backend
	// navigates there before calling fetch; the nethttp backend uses it to
	// decide same-origin credentials. Empty means about:blank.
	Origin string

	// ShowBrowser runs chromedp with a visible window.
	ShowBrowser bool
}
