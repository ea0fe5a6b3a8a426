//go:build js && wasm

package webclient

import (
	"net/http"

	"github.com/raysh454/fetchbutton/internal/logging"
)

// Under js/wasm the transport is the browser's fetch. It owns cookies, so the
// credentials mode is passed through instead of using a jar.
func applyFetchOptions(req *http.Request, mode Credentials) {
	if mode == "" {
		mode = CredentialsInclude
	}
	req.Header.Set("js.fetch:credentials", string(mode))
	req.Header.Set("js.fetch:mode", "cors")
}

func usesBrowserCookies() bool { return true }

// A browser cannot drive another browser; jsfetch takes chromedp's place.
func registerPlatformBackends() {
	RegisterBackend(string(ClientJSFetch), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewJSFetchClient(cfg, logger), nil
	})
}
