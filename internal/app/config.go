package app

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/raysh454/fetchbutton/internal/cli"
	"github.com/raysh454/fetchbutton/internal/clickhandler"
	"github.com/raysh454/fetchbutton/internal/page"
	"github.com/raysh454/fetchbutton/internal/webclient"
)

var (
	errInvalidTarget  = errors.New("config: invalid target URL")
	errUnknownBackend = errors.New("config: unknown webclient backend")
)

// Config contains the runtime options for both run modes.
type Config struct {
	// Target is the endpoint requested on every activation.
	Target string

	// WebClient configuration
	WebClientCfg webclient.Config

	// ListenAddr is the page host address in serve mode.
	ListenAddr string

	LogLevel string
}

// DefaultConfig returns a Config populated with development defaults.
func DefaultConfig() *Config {
	return &Config{
		Target: clickhandler.DefaultURL,
		WebClientCfg: webclient.Config{
			Client:  webclient.ClientNetHTTP,
			Timeout: 30 * time.Second,
		},
		ListenAddr: page.DefaultConfig().ListenAddr,
		LogLevel:   "info",
	}
}

// ApplyEnv overrides fields from FETCHBUTTON_* variables. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("FETCHBUTTON_TARGET"); v != "" {
		c.Target = v
	}
	if v := getenv("FETCHBUTTON_BACKEND"); v != "" {
		c.WebClientCfg.Client = webclient.Client(v)
	}
	if v := getenv("FETCHBUTTON_LISTEN"); v != "" {
		c.ListenAddr = v
	}
	if v := getenv("FETCHBUTTON_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// ApplyArgs overrides fields with the flags that were set.
func (c *Config) ApplyArgs(args *cli.CLIArgs) {
	if args == nil {
		return
	}
	if args.Target != "" {
		c.Target = args.Target
	}
	if args.Backend != "" {
		c.WebClientCfg.Client = webclient.Client(args.Backend)
	}
	if args.Timeout >= 0 {
		c.WebClientCfg.Timeout = args.Timeout
	}
	if args.Origin != "" {
		c.WebClientCfg.Origin = args.Origin
	}
	if args.ShowBrowser {
		c.WebClientCfg.ShowBrowser = true
	}
	if args.Listen != "" {
		c.ListenAddr = args.Listen
	}
	if args.LogLevel != "" {
		c.LogLevel = args.LogLevel
	}
}

// Validate checks the target and backend before anything is constructed.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Target)
	if err != nil || c.Target == "" {
		return fmt.Errorf("%w: %q", errInvalidTarget, c.Target)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: %q needs an http or https scheme", errInvalidTarget, c.Target)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: %q has no host", errInvalidTarget, c.Target)
	}

	backend := webclient.Client(strings.ToLower(strings.TrimSpace(string(c.WebClientCfg.Client))))
	switch backend {
	case "", webclient.ClientNetHTTP, webclient.ClientChromedp:
	default:
		return fmt.Errorf("%w: %q", errUnknownBackend, c.WebClientCfg.Client)
	}
	return nil
}

// HandlerConfig is the click handler configuration derived from c.
func (c *Config) HandlerConfig() clickhandler.Config {
	return clickhandler.Config{URL: c.Target}
}
