package webclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/raysh454/fetchbutton/internal/logging"
)

// maxRedirects matches the limit browsers apply to fetch.
const maxRedirects = 20

// net/http backed implementation of webclient.
type NetHTTPClient struct {
	client *http.Client
	jar    http.CookieJar
	origin *url.URL
	logger logging.Logger
}

// NewNetHTTPClient wraps httpClient, or builds one from cfg when it is nil.
// The client gets its own cookie jar unless httpClient already carries one.
func NewNetHTTPClient(cfg Config, logger logging.Logger, httpClient *http.Client) (*NetHTTPClient, error) {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientNetHTTP)})

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	jar := httpClient.Jar
	if jar == nil {
		j, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		jar = j
	}

	var origin *url.URL
	if cfg.Origin != "" {
		u, err := url.Parse(cfg.Origin)
		if err != nil {
			return nil, fmt.Errorf("parse origin: %w", err)
		}
		origin = u
	}

	componentLogger.Debug("created nethttp webclient",
		logging.Field{Key: "timeout", Value: httpClient.Timeout.String()})

	return &NetHTTPClient{
		client: httpClient,
		jar:    jar,
		origin: origin,
		logger: componentLogger,
	}, nil
}

// Do executes req, following redirects and applying its credentials mode.
func (nhc *NetHTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	nhc.logger.Debug("sending http request",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL},
		logging.Field{Key: "credentials", Value: string(req.Credentials)})

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	applyFetchOptions(httpReq, req.Credentials)

	// Per-request copy so the redirect chain and jar choice stay local.
	var hops []Hop
	hc := *nhc.client
	hc.Jar = nhc.jarFor(req.Credentials)
	base := nhc.client.CheckRedirect
	hc.CheckRedirect = func(next *http.Request, via []*http.Request) error {
		if len(via) > maxRedirects {
			return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, maxRedirects)
		}
		if base != nil {
			if err := base(next, via); err != nil {
				return err
			}
		}
		hop := Hop{From: via[len(via)-1].URL.String(), To: next.URL.String()}
		if next.Response != nil {
			hop.Status = next.Response.StatusCode
		}
		hops = append(hops, hop)
		return nil
	}

	resp, err := hc.Do(httpReq)
	if err != nil {
		nhc.logger.Warn("http request failed",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		nhc.logger.Warn("failed to read response body",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		Request:    req,
		Headers:    resp.Header,
		Body:       body,
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
		Redirected: len(hops) > 0,
		Hops:       hops,
		FetchedAt:  time.Now(),
	}, nil
}

// Get issues a GET with credentials included.
func (nhc *NetHTTPClient) Get(ctx context.Context, url string) (*Response, error) {
	return nhc.Do(ctx, &Request{
		Method:      http.MethodGet,
		URL:         url,
		Credentials: CredentialsInclude,
	})
}

func (nhc *NetHTTPClient) Close() error {
	nhc.logger.Debug("closing nethttp webclient")
	nhc.client.CloseIdleConnections()
	return nil
}

// HTTPClient returns the underlying *http.Client.
func (nhc *NetHTTPClient) HTTPClient() *http.Client {
	return nhc.client
}

// Jar returns the cookie jar shared by every credentialed request.
func (nhc *NetHTTPClient) Jar() http.CookieJar {
	return nhc.jar
}

func (nhc *NetHTTPClient) jarFor(mode Credentials) http.CookieJar {
	if usesBrowserCookies() {
		return nil
	}
	switch mode {
	case CredentialsOmit:
		return nil
	case CredentialsSameOrigin:
		return &originJar{jar: nhc.jar, origin: nhc.origin}
	default:
		// fetch defaults to same-origin, but everything in this module asks
		// for include and an unset mode is treated the same way.
		return nhc.jar
	}
}

// originJar only exposes cookies for URLs that share the configured origin.
type originJar struct {
	jar    http.CookieJar
	origin *url.URL
}

func (o *originJar) sameOrigin(u *url.URL) bool {
	return o.origin != nil &&
		strings.EqualFold(o.origin.Scheme, u.Scheme) &&
		strings.EqualFold(o.origin.Host, u.Host)
}

func (o *originJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if o.sameOrigin(u) {
		o.jar.SetCookies(u, cookies)
	}
}

func (o *originJar) Cookies(u *url.URL) []*http.Cookie {
	if o.sameOrigin(u) {
		return o.jar.Cookies(u)
	}
	return nil
}
