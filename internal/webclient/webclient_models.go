package webclient

import (
	"net/http"
	"time"
)

// Credentials mirrors the fetch API credentials mode.
type Credentials string

const (
	// CredentialsInclude sends and stores cookies on every request, cross-origin included.
	CredentialsInclude Credentials = "include"
	// CredentialsSameOrigin only uses cookies when the target shares the client's origin.
	CredentialsSameOrigin Credentials = "same-origin"
	// CredentialsOmit never sends or stores cookies.
	CredentialsOmit Credentials = "omit"
)

type Request struct {
	Method      string
	URL         string
	Headers     http.Header
	Credentials Credentials
}

// Hop is one server-directed redirect: the response at From pointed to To.
type Hop struct {
	From   string
	To     string
	Status int
}

type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int

	// URL is the final URL after following redirects.
	URL        string
	Redirected bool
	// Hops lists each redirect in order. Backends that cannot observe
	// individual hops leave it nil even when Redirected is true.
	Hops []Hop

	FetchedAt time.Time
}

// FetchError is a rejection raised by the browser's fetch, e.g. "Failed to fetch"
// for connection or CORS failures. Its message is the JavaScript error message.
type FetchError struct {
	Message string
}

func (e *FetchError) Error() string { return e.Message }
