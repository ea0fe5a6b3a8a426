package webclient

import (
	"github.com/raysh454/fetchbutton/internal/logging"
)

func init() {
	RegisterDefaultBackends()
}

// RegisterDefaultBackends registers nethttp and, outside js/wasm, chromedp. It
// runs from init; calling it again restores the defaults after a test overrides them.
func RegisterDefaultBackends() {
	RegisterBackend(string(ClientNetHTTP), func(cfg Config, logger logging.Logger) (WebClient, error) {
		return NewNetHTTPClient(cfg, logger, nil)
	})
	registerPlatformBackends()
}
