package page

import (
	"github.com/raysh454/fetchbutton/internal/clickhandler"
	"github.com/raysh454/fetchbutton/internal/logging"
)

type Config struct {
	// ListenAddr is the HTTP listen address for the page host.
	ListenAddr string

	// Handler configures the click handler bound in every session.
	Handler clickhandler.Config

	// Page overrides the embedded index page. It must contain #fetchButton and #result.
	Page []byte

	Logger logging.Logger
}

// DefaultConfig listens on :5500, the origin the demo backend allows with credentials.
func DefaultConfig() Config {
	return Config{
		ListenAddr: ":5500",
		Handler:    clickhandler.DefaultConfig(),
	}
}
