// Package page hosts the fetch page in a browser. Button presses travel over a
// WebSocket to a server-side click handler, whose output is pushed back into
// the page's #result element.
package page

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/raysh454/fetchbutton/internal/clickhandler"
	"github.com/raysh454/fetchbutton/internal/logging"
	"github.com/raysh454/fetchbutton/internal/webclient"
)

//go:embed assets/index.html
var indexHTML []byte

// Server is the HTTP + WebSocket surface for the fetch page.
type Server struct {
	cfg      Config
	wc       webclient.WebClient
	page     []byte
	router   chi.Router
	upgrader websocket.Upgrader
	logger   logging.Logger
}

// NewServer validates the page and wires the routes. Every session shares wc,
// so cookies set in one session are sent by the others.
func NewServer(cfg Config, wc webclient.WebClient) (*Server, error) {
	if wc == nil {
		return nil, errors.New("page: nil webclient")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("page")
	}

	page := cfg.Page
	if page == nil {
		page = indexHTML
	}
	if err := CheckPage(page); err != nil {
		return nil, fmt.Errorf("checking page: %w", err)
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:    cfg,
		wc:     wc,
		page:   page,
		router: r,
		logger: logger.With(logging.Field{Key: "component", Value: "page"}),
		// nil CheckOrigin keeps gorilla's same-host check.
		upgrader: websocket.Upgrader{},
	}

	s.routes()
	return s, nil
}

// CheckPage verifies that html contains exactly one #fetchButton and one #result.
func CheckPage(html []byte) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return fmt.Errorf("parse page: %w", err)
	}
	for _, id := range []string{clickhandler.ButtonID, clickhandler.ResultID} {
		switch n := doc.Find("#" + id).Length(); n {
		case 1:
		case 0:
			return fmt.Errorf("%w: #%s", clickhandler.ErrElementNotFound, id)
		default:
			return fmt.Errorf("page: #%s appears %d times", id, n)
		}
	}
	return nil
}

func (s *Server) routes() {
	r := s.router
	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWS)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("http_request",
		logging.Field{Key: "method", Value: r.Method},
		logging.Field{Key: "path", Value: r.URL.Path})

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s,
		ReadHeaderTimeout: 15 * time.Second,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(s.page)
}

// handleWS runs one page session: the handler is bound once when the page
// connects, and each click event starts an activation.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	id := uuid.NewString()
	logger := s.logger.With(logging.Field{Key: "session", Value: id})
	sess := newSession(id, conn, logger)

	// In-flight requests run to completion even after the page goes away.
	ctx := context.WithoutCancel(r.Context())

	h, err := clickhandler.Bind(ctx, sess, s.cfg.Handler, s.wc, logger)
	if err != nil {
		logger.Error("binding click handler", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer h.Wait()

	logger.Info("session opened")
	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("reading event", logging.Field{Key: "error", Value: err.Error()})
			}
			logger.Info("session closed")
			return
		}
		sess.dispatch(ev)
	}
}
