package page

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/raysh454/fetchbutton/internal/clickhandler"
	"github.com/raysh454/fetchbutton/internal/logging"
)

// Event is a DOM event forwarded by the page.
type Event struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Update replaces the text content of the element with the given id.
type Update struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// session is the server-side view of one loaded page. It implements
// clickhandler.Document over its WebSocket connection.
type session struct {
	id     string
	conn   *websocket.Conn
	logger logging.Logger

	writeMu sync.Mutex
	button  remoteButton
}

func newSession(id string, conn *websocket.Conn, logger logging.Logger) *session {
	return &session{id: id, conn: conn, logger: logger}
}

func (s *session) Button(id string) (clickhandler.Button, bool) {
	if id != clickhandler.ButtonID {
		return nil, false
	}
	return &s.button, true
}

func (s *session) Element(id string) (clickhandler.Element, bool) {
	if id != clickhandler.ResultID {
		return nil, false
	}
	return &remoteElement{s: s, id: id}, true
}

// send serializes writes; the websocket allows a single concurrent writer.
func (s *session) send(u Update) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(u)
}

// dispatch routes an incoming event to its element.
func (s *session) dispatch(ev Event) {
	switch {
	case ev.Type == "click" && ev.ID == clickhandler.ButtonID:
		s.button.fire()
	default:
		s.logger.Debug("ignoring event",
			logging.Field{Key: "type", Value: ev.Type},
			logging.Field{Key: "id", Value: ev.ID})
	}
}

type remoteButton struct {
	mu       sync.Mutex
	handlers []func()
}

func (b *remoteButton) OnClick(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

func (b *remoteButton) fire() {
	b.mu.Lock()
	hs := append([]func(){}, b.handlers...)
	b.mu.Unlock()
	for _, fn := range hs {
		fn()
	}
}

type remoteElement struct {
	s  *session
	id string
}

func (e *remoteElement) SetTextContent(text string) {
	if err := e.s.send(Update{ID: e.id, Text: text}); err != nil {
		e.s.logger.Warn("writing element update",
			logging.Field{Key: "element", Value: e.id},
			logging.Field{Key: "error", Value: err.Error()})
	}
}
