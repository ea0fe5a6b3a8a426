//go:build js && wasm

package webclient

import (
	"context"
	"net/http"
	"strings"
	"syscall/js"
	"time"

	"github.com/raysh454/fetchbutton/internal/logging"
)

// JSFetchClient calls the page's global fetch. Unlike net/http on js/wasm it
// sees the Response's redirected flag and final url.
type JSFetchClient struct {
	timeout time.Duration
	logger  logging.Logger
}

// NewJSFetchClient returns a client over the page's fetch. Timeout aborts the request.
func NewJSFetchClient(cfg Config, logger logging.Logger) *JSFetchClient {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &JSFetchClient{
		timeout: cfg.Timeout,
		logger:  logger.With(logging.Field{Key: "backend", Value: string(ClientJSFetch)}),
	}
}

// Do must not run on the JavaScript event loop goroutine; it blocks until the
// fetch promise settles.
func (c *JSFetchClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	creds := req.Credentials
	if creds == "" {
		creds = CredentialsInclude
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	headers := js.Global().Get("Headers").New()
	for k, vs := range req.Headers {
		for _, v := range vs {
			headers.Call("append", k, v)
		}
	}

	abort := js.Global().Get("AbortController").New()
	stop := context.AfterFunc(ctx, func() { abort.Call("abort") })
	defer stop()

	opts := js.Global().Get("Object").New()
	opts.Set("method", method)
	opts.Set("credentials", string(creds))
	opts.Set("headers", headers)
	opts.Set("signal", abort.Get("signal"))

	c.logger.Debug("sending fetch",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL})

	res, err := await(js.Global().Call("fetch", req.URL, opts))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}

	buf, err := await(res.Call("arrayBuffer"))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	data := js.Global().Get("Uint8Array").New(buf)
	body := make([]byte, data.Get("length").Int())
	js.CopyBytesToGo(body, data)

	respHeaders := http.Header{}
	each := js.FuncOf(func(_ js.Value, args []js.Value) any {
		respHeaders.Add(args[1].String(), args[0].String())
		return nil
	})
	res.Get("headers").Call("forEach", each)
	each.Release()

	return &Response{
		Request:    req,
		Headers:    respHeaders,
		Body:       body,
		StatusCode: res.Get("status").Int(),
		URL:        res.Get("url").String(),
		Redirected: res.Get("redirected").Bool(),
		FetchedAt:  time.Now(),
	}, nil
}

// Get issues a GET with credentials included.
func (c *JSFetchClient) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:      http.MethodGet,
		URL:         url,
		Credentials: CredentialsInclude,
	})
}

func (c *JSFetchClient) Close() error { return nil }

// await blocks until promise settles. A rejection becomes a *FetchError.
func await(promise js.Value) (js.Value, error) {
	type settled struct {
		v   js.Value
		err error
	}
	ch := make(chan settled, 1)

	onResolve := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- settled{v: args[0]}
		return nil
	})
	defer onResolve.Release()
	onReject := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ch <- settled{err: &FetchError{Message: jsErrorMessage(args[0])}}
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)
	s := <-ch
	return s.v, s.err
}

func jsErrorMessage(v js.Value) string {
	if v.Type() == js.TypeObject {
		if msg := v.Get("message"); msg.Type() == js.TypeString {
			return msg.String()
		}
	}
	return v.String()
}
