package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	ModeClick = "click"
	ModeServe = "serve"
)

// CLIArgs are the command-line arguments for a single run.
// Zero values mean "use config default".
type CLIArgs struct {
	// Mode is click (render to the terminal) or serve (host the browser page).
	Mode string

	// Target overrides the endpoint requested on every activation.
	Target string

	// Backend selects the webclient backend (nethttp|chromedp).
	Backend string

	// Timeout bounds each request; negative means "use config default".
	Timeout time.Duration

	// Origin is the page requests are issued from (chromedp, same-origin checks).
	Origin string

	ShowBrowser bool

	// Listen is the serve-mode listen address.
	Listen string

	// Clicks is the number of activations fired at once in click mode.
	Clicks int

	// Interactive fires one activation per line read from stdin.
	Interactive bool

	LogLevel string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
// Usage goes to usage; pass nil to discard it.
func ParseArgs(args []string, usage io.Writer) (*CLIArgs, error) {
	fs := flag.NewFlagSet("fetchbutton", flag.ContinueOnError)
	if usage == nil {
		usage = io.Discard
	}
	fs.SetOutput(usage)

	var (
		mode        = fs.String("mode", ModeClick, "Run mode: click|serve")
		target      = fs.String("target", "", "Endpoint requested on each activation")
		backend     = fs.String("backend", "", "Web client backend: nethttp|chromedp")
		timeout     = fs.Duration("timeout", -1, "Per-request timeout, 0 disables (negative=use default)")
		origin      = fs.String("origin", "", "Page origin the requests are issued from")
		showBrowser = fs.Bool("show-browser", false, "Run chromedp with a visible browser window")
		listen      = fs.String("listen", "", "Listen address in serve mode")
		clicks      = fs.Int("clicks", 1, "Activations fired at once in click mode")
		interactive = fs.Bool("interactive", false, "Fire one activation per line on stdin (click mode)")
		logLevel    = fs.String("log-level", "", "Log level: debug|info|warn|error")
	)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	m := strings.ToLower(strings.TrimSpace(*mode))
	if m != ModeClick && m != ModeServe {
		return nil, fmt.Errorf("invalid -mode %q: want %s or %s", *mode, ModeClick, ModeServe)
	}
	if *clicks < 0 {
		return nil, fmt.Errorf("invalid -clicks %d: must not be negative", *clicks)
	}

	return &CLIArgs{
		Mode:        m,
		Target:      strings.TrimSpace(*target),
		Backend:     strings.TrimSpace(*backend),
		Timeout:     *timeout,
		Origin:      strings.TrimSpace(*origin),
		ShowBrowser: *showBrowser,
		Listen:      strings.TrimSpace(*listen),
		Clicks:      *clicks,
		Interactive: *interactive,
		LogLevel:    strings.TrimSpace(*logLevel),
		RawArgs:     args,
	}, nil
}
