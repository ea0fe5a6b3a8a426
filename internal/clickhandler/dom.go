package clickhandler

import "errors"

// Fixed element ids the handler binds to.
const (
	ButtonID = "fetchButton"
	ResultID = "result"
)

// ErrElementNotFound is returned when a document lacks a required element id.
var ErrElementNotFound = errors.New("element not found")

// Element is an output surface whose text content can be replaced.
// Implementations must be safe for concurrent use; the last write wins.
type Element interface {
	SetTextContent(text string)
}

// Button is an activation control. OnClick registers fn to run on every
// activation; fn must not block the caller's event loop for long.
type Button interface {
	OnClick(fn func())
}

// Document locates elements by id, like getElementById.
type Document interface {
	Button(id string) (Button, bool)
	Element(id string) (Element, bool)
}
