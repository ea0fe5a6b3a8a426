//go:build !(js && wasm)

package webclient

import "net/http"

func applyFetchOptions(*http.Request, Credentials) {}

func usesBrowserCookies() bool { return false }
