//go:build js && wasm

// Command fetchbutton-wasm binds the click handler straight to the page DOM.
// Load it next to a page that has #fetchButton and #result; the request goes
// through the page's fetch with credentials included, so redirects are logged
// from the Response's redirected flag.
package main

import (
	"context"
	"os"
	"syscall/js"

	"github.com/raysh454/fetchbutton/internal/clickhandler"
	"github.com/raysh454/fetchbutton/internal/logging"
	"github.com/raysh454/fetchbutton/internal/webclient"
)

type jsDocument struct {
	doc js.Value
}

func (d jsDocument) lookup(id string) (js.Value, bool) {
	el := d.doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return js.Value{}, false
	}
	return el, true
}

func (d jsDocument) Button(id string) (clickhandler.Button, bool) {
	el, ok := d.lookup(id)
	if !ok {
		return nil, false
	}
	return jsButton{el: el}, true
}

func (d jsDocument) Element(id string) (clickhandler.Element, bool) {
	el, ok := d.lookup(id)
	if !ok {
		return nil, false
	}
	return jsElement{el: el}, true
}

type jsButton struct {
	el js.Value
}

// OnClick keeps the js.Func for the page's lifetime; the listener is never removed.
func (b jsButton) OnClick(fn func()) {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	b.el.Call("addEventListener", "click", cb)
}

type jsElement struct {
	el js.Value
}

// Go on js/wasm is single-threaded, so writes are already serialized.
func (e jsElement) SetTextContent(text string) {
	e.el.Set("textContent", text)
}

func main() {
	logger := logging.NewWriterLogger(os.Stdout, "fetchbutton-wasm", logging.LevelInfo)

	// net/http's js transport hides redirects; the page's fetch reports them.
	wc := webclient.NewJSFetchClient(webclient.Config{}, logger)

	document := js.Global().Get("document")
	bind := func() {
		if _, err := clickhandler.Bind(context.Background(), jsDocument{doc: document}, clickhandler.DefaultConfig(), wc, logger); err != nil {
			logger.Error("binding click handler", logging.Field{Key: "error", Value: err.Error()})
		}
	}

	if document.Get("readyState").String() == "loading" {
		var onLoad js.Func
		onLoad = js.FuncOf(func(js.Value, []js.Value) any {
			bind()
			onLoad.Release()
			return nil
		})
		document.Call("addEventListener", "DOMContentLoaded", onLoad)
	} else {
		bind()
	}

	select {}
}
