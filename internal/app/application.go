package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/raysh454/fetchbutton/internal/cli"
	"github.com/raysh454/fetchbutton/internal/clickhandler"
	"github.com/raysh454/fetchbutton/internal/logging"
	"github.com/raysh454/fetchbutton/internal/page"
	"github.com/raysh454/fetchbutton/internal/webclient"
)

const shutdownTimeout = 15 * time.Second

// Application is the runtime state container: config, parsed CLI args and
// the services shared by both run modes.
type Application struct {
	Config *Config
	Args   *cli.CLIArgs

	Logger    logging.Logger
	WebClient webclient.WebClient
}

// NewApplication constructs an Application from already-constructed parts so
// tests can inject a stub web client.
func NewApplication(cfg *Config, args *cli.CLIArgs, logger logging.Logger, wc webclient.WebClient) *Application {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	if args == nil {
		args = &cli.CLIArgs{Mode: cli.ModeClick, Clicks: 1}
	}
	return &Application{
		Config:    cfg,
		Args:      args,
		Logger:    logger,
		WebClient: wc,
	}
}

// Build validates cfg and constructs the configured web client backend.
func Build(cfg *Config, args *cli.CLIArgs, logger logging.Logger) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	wc, err := webclient.NewWebClient(cfg.WebClientCfg, logger)
	if err != nil {
		return nil, err
	}
	return NewApplication(cfg, args, logger, wc), nil
}

// Run dispatches to the mode selected on the command line.
func (a *Application) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	switch a.Args.Mode {
	case cli.ModeServe:
		return a.Serve(ctx)
	case cli.ModeClick, "":
		return a.RunClicks(ctx, in, out)
	default:
		return fmt.Errorf("unknown mode %q", a.Args.Mode)
	}
}

// RunClicks binds the handler to a terminal document and presses the button,
// either Args.Clicks times at once or once per line of in. It returns after
// every activation has settled.
func (a *Application) RunClicks(ctx context.Context, in io.Reader, out io.Writer) error {
	doc := NewTerminalDocument(out)
	h, err := clickhandler.Bind(ctx, doc, a.Config.HandlerConfig(), a.WebClient, a.Logger)
	if err != nil {
		return fmt.Errorf("binding click handler: %w", err)
	}
	defer h.Wait()

	if !a.Args.Interactive {
		for i := 0; i < a.Args.Clicks; i++ {
			doc.Press()
		}
		return nil
	}

	lines, scanErr := scanLines(ctx, in)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return fmt.Errorf("reading activations: %w", err)
				default:
					return nil
				}
			}
			doc.Press()
		}
	}
}

// scanLines signals once per line of in. The channel closes at EOF, on a read
// error (sent on the error channel first) or once ctx is done. A read blocked
// on in is abandoned when ctx is done and ends only when in is closed.
func scanLines(ctx context.Context, in io.Reader) (<-chan struct{}, <-chan error) {
	lines := make(chan struct{})
	errCh := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			errCh <- err
		}
	}()
	return lines, errCh
}

// Serve hosts the page on Config.ListenAddr until ctx is done.
func (a *Application) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Config.ListenAddr, err)
	}
	return a.ServeListener(ctx, ln)
}

// ServeListener hosts the page on ln until ctx is done, then shuts down gracefully.
func (a *Application) ServeListener(ctx context.Context, ln net.Listener) error {
	srv, err := page.NewServer(page.Config{
		ListenAddr: ln.Addr().String(),
		Handler:    a.Config.HandlerConfig(),
		Logger:     a.Logger,
	}, a.WebClient)
	if err != nil {
		_ = ln.Close()
		return err
	}
	hs := srv.HTTPServer()

	errCh := make(chan error, 1)
	go func() { errCh <- hs.Serve(ln) }()

	a.Logger.Info("serving page",
		logging.Field{Key: "addr", Value: ln.Addr().String()},
		logging.Field{Key: "target", Value: a.Config.Target})

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Shutdown releases the web client.
func (a *Application) Shutdown() error {
	if a == nil {
		return errors.New("application is nil")
	}
	a.Logger.Info("application shutdown initiated")
	if a.WebClient != nil {
		return a.WebClient.Close()
	}
	return nil
}
