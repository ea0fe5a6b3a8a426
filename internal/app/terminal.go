package app

import (
	"fmt"
	"io"
	"sync"

	"github.com/raysh454/fetchbutton/internal/clickhandler"
)

// TerminalDocument binds the click handler to a terminal: presses come from
// the caller and #result is a line-oriented writer.
type TerminalDocument struct {
	button terminalButton
	result *WriterElement
}

func NewTerminalDocument(out io.Writer) *TerminalDocument {
	return &TerminalDocument{result: NewWriterElement(out)}
}

func (d *TerminalDocument) Button(id string) (clickhandler.Button, bool) {
	if id != clickhandler.ButtonID {
		return nil, false
	}
	return &d.button, true
}

func (d *TerminalDocument) Element(id string) (clickhandler.Element, bool) {
	if id != clickhandler.ResultID {
		return nil, false
	}
	return d.result, true
}

// Press activates #fetchButton.
func (d *TerminalDocument) Press() {
	d.button.fire()
}

type terminalButton struct {
	mu       sync.Mutex
	handlers []func()
}

func (b *terminalButton) OnClick(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, fn)
}

func (b *terminalButton) fire() {
	b.mu.Lock()
	hs := append([]func(){}, b.handlers...)
	b.mu.Unlock()
	for _, fn := range hs {
		fn()
	}
}

// WriterElement prints every text content it is given as one line.
type WriterElement struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterElement(w io.Writer) *WriterElement {
	return &WriterElement{w: w}
}

func (e *WriterElement) SetTextContent(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fmt.Fprintln(e.w, text)
}
