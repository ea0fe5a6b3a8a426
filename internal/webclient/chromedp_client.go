//go:build !(js && wasm)

package webclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/raysh454/fetchbutton/internal/logging"
)

// ChromedpClient issues requests through fetch() inside a headless browser,
// so cookies, CORS and redirects follow real browser rules.
type ChromedpClient struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc

	origin  string
	timeout time.Duration
	logger  logging.Logger
}

// NewChromedpClient starts a browser and returns a client bound to it. It fails
// when no browser can be launched.
func NewChromedpClient(cfg Config, logger logging.Logger) (*ChromedpClient, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientChromedp)})

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if cfg.ShowBrowser {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Running with no actions launches the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	origin := cfg.Origin
	if origin == "" {
		origin = "about:blank"
	}

	componentLogger.Debug("created chromedp webclient", logging.Field{Key: "origin", Value: origin})

	return &ChromedpClient{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		origin:        origin,
		timeout:       cfg.Timeout,
		logger:        componentLogger,
	}, nil
}

type fetchResult struct {
	OK         bool              `json:"ok"`
	Status     int               `json:"status"`
	URL        string            `json:"url"`
	Redirected bool              `json:"redirected"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
	Error      string            `json:"error"`
}

const fetchScript = `(async () => {
  try {
    const r = await fetch(%s, {method: %s, credentials: %s, headers: %s});
    const body = await r.text();
    const headers = {};
    r.headers.forEach((v, k) => { headers[k] = v; });
    return {ok: true, status: r.status, url: r.url, redirected: r.redirected, headers, body};
  } catch (e) {
    return {ok: false, error: String((e && e.message) || e)};
  }
})()`

func buildFetchScript(req *Request, method string) (string, error) {
	creds := req.Credentials
	if creds == "" {
		creds = CredentialsInclude
	}
	headers := map[string]string{}
	for k, vs := range req.Headers {
		headers[k] = strings.Join(vs, ", ")
	}

	args := []any{req.URL, method, string(creds), headers}
	encoded := make([]any, len(args))
	for i, a := range args {
		b, err := json.Marshal(a)
		if err != nil {
			return "", fmt.Errorf("encode fetch argument: %w", err)
		}
		encoded[i] = string(b)
	}
	return fmt.Sprintf(fetchScript, encoded...), nil
}

// Do opens a tab at the configured origin and evaluates fetch there.
func (cdc *ChromedpClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	script, err := buildFetchScript(req, method)
	if err != nil {
		return nil, err
	}

	tabCtx, cancel := chromedp.NewContext(cdc.browserCtx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	runCtx := tabCtx
	if cdc.timeout > 0 {
		var timeoutCancel context.CancelFunc
		runCtx, timeoutCancel = context.WithTimeout(tabCtx, cdc.timeout)
		defer timeoutCancel()
	}

	cdc.logger.Debug("sending browser fetch",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL},
		logging.Field{Key: "origin", Value: cdc.origin})

	var res fetchResult
	err = chromedp.Run(runCtx,
		chromedp.Navigate(cdc.origin),
		chromedp.Evaluate(script, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, fmt.Errorf("chromedp run: %w", err)
	}
	if !res.OK {
		cdc.logger.Warn("browser fetch failed",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: res.Error})
		return nil, &FetchError{Message: res.Error}
	}

	headers := http.Header{}
	for k, v := range res.Headers {
		headers.Set(k, v)
	}

	return &Response{
		Request:    req,
		Headers:    headers,
		Body:       []byte(res.Body),
		StatusCode: res.Status,
		URL:        res.URL,
		Redirected: res.Redirected,
		FetchedAt:  time.Now(),
	}, nil
}

// Get issues a GET with credentials included.
func (cdc *ChromedpClient) Get(ctx context.Context, url string) (*Response, error) {
	return cdc.Do(ctx, &Request{
		Method:      http.MethodGet,
		URL:         url,
		Credentials: CredentialsInclude,
	})
}

// Close shuts the browser down.
func (cdc *ChromedpClient) Close() error {
	cdc.logger.Debug("closing chromedp webclient")
	cdc.browserCancel()
	cdc.allocCancel()
	return nil
}
