// Package clickhandler turns an activation (a button press) into one
// credentialed GET request and renders the response text, or a failure
// message, into an output element.
package clickhandler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/raysh454/fetchbutton/internal/logging"
	"github.com/raysh454/fetchbutton/internal/webclient"
)

// DefaultURL is the endpoint requested on every activation unless configured otherwise.
const DefaultURL = "http://localhost:8088/api/redirect"

const errorPrefix = "An error occurred: "

// Config holds the request target. Method and credentials mode are fixed to
// GET and include.
type Config struct {
	URL string
}

// DefaultConfig targets DefaultURL.
func DefaultConfig() Config {
	return Config{URL: DefaultURL}
}

// Handler performs one request per activation. Activations may overlap and are
// never cancelled by later ones.
type Handler struct {
	cfg    Config
	wc     webclient.WebClient
	out    Element
	logger logging.Logger

	wg sync.WaitGroup
}

// New returns a Handler that writes results to out. A nil logger discards logs.
func New(cfg Config, wc webclient.WebClient, out Element, logger logging.Logger) *Handler {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &Handler{
		cfg:    cfg,
		wc:     wc,
		out:    out,
		logger: logger.With(logging.Field{Key: "component", Value: "clickhandler"}),
	}
}

// Bind looks up the button and output element once and attaches a handler to
// the button. Each click runs asynchronously under ctx.
func Bind(ctx context.Context, doc Document, cfg Config, wc webclient.WebClient, logger logging.Logger) (*Handler, error) {
	button, ok := doc.Button(ButtonID)
	if !ok {
		return nil, fmt.Errorf("%w: #%s", ErrElementNotFound, ButtonID)
	}
	out, ok := doc.Element(ResultID)
	if !ok {
		return nil, fmt.Errorf("%w: #%s", ErrElementNotFound, ResultID)
	}

	h := New(cfg, wc, out, logger)
	button.OnClick(func() { h.Click(ctx) })
	return h, nil
}

func (h *Handler) request() *webclient.Request {
	return &webclient.Request{
		Method:      http.MethodGet,
		URL:         h.cfg.URL,
		Credentials: webclient.CredentialsInclude,
	}
}

// Click starts an activation in the background and returns immediately.
func (h *Handler) Click(ctx context.Context) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		h.Handle(ctx)
	}()
}

// Wait blocks until every activation started by Click has settled.
func (h *Handler) Wait() {
	h.wg.Wait()
}

// Handle runs one activation synchronously. The output element is written
// exactly once, after the request settles.
func (h *Handler) Handle(ctx context.Context) {
	log := h.logger.With(logging.Field{Key: "activation", Value: uuid.NewString()})
	log.Debug("fetching", logging.Field{Key: "url", Value: h.cfg.URL})

	resp, err := h.wc.Do(ctx, h.request())
	if err != nil {
		log.Error("fetch failed",
			logging.Field{Key: "url", Value: h.cfg.URL},
			logging.Field{Key: "error", Value: err.Error()})
		h.out.SetTextContent(ErrorText(err))
		return
	}

	if resp.Redirected {
		log.Info("redirected",
			logging.Field{Key: "url", Value: resp.URL},
			logging.Field{Key: "hops", Value: len(resp.Hops)})
	}

	h.out.SetTextContent(Text(resp.Body))
}

// ErrorText is the message shown in place of the response body on failure.
func ErrorText(err error) string {
	return errorPrefix + err.Error()
}

// Text decodes body the way Response.text() does: UTF-8 with a leading BOM
// dropped and invalid sequences replaced by U+FFFD.
func Text(body []byte) string {
	s := string(body)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "\uFFFD")
	}
	return strings.TrimPrefix(s, "\uFEFF")
}
