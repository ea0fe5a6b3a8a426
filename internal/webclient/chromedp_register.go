//go:build !(js && wasm)

package webclient

import (
	"fmt"

	"github.com/raysh454/fetchbutton/internal/logging"
)

func registerPlatformBackends() {
	RegisterBackend(string(ClientChromedp), func(cfg Config, logger logging.Logger) (WebClient, error) {
		client, err := NewChromedpClient(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("create chromedp client: %w", err)
		}
		return client, nil
	})
}
