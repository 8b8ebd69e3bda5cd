package recommend

import "errors"

// Pipeline errors, ordered by the stage that raises them. Callers match
// with errors.Is to pick a transport status; everything carries its cause.
var (
	// ErrInvalidInput rejects a request before any fetch or embedding
	// work starts: empty query, coordinates off the globe, bad radius/k.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamFetch marks a failed candidate fetch. The request can be
	// retried by the caller; nothing was partially computed.
	ErrUpstreamFetch = errors.New("upstream fetch failed")

	// ErrEncoding marks an embedding backend failure. Fatal for the
	// request, never retried here.
	ErrEncoding = errors.New("encoding failed")
)
