// Package transport performs authenticated requests against the remote
// ticketing system's table resource. The Connector interface is the boundary
// the adapter core consumes; HTTPConnector is the production implementation.
package transport

import "context"

// ResponseKind tags the possible shapes a connector response can take,
// replacing runtime shape inspection of an opaque payload.
type ResponseKind int

const (
	// KindEmpty means the request succeeded but carried no body
	KindEmpty ResponseKind = iota
	// KindBody means the response carries a serialized body
	KindBody
)

// RawResponse is the tagged variant returned by a connector on success. Body
// is only meaningful when Kind is KindBody.
type RawResponse struct {
	Kind       ResponseKind
	StatusCode int
	Body       []byte
}

// Connector issues single authenticated requests against the configured table
// resource. Exactly one of the response and the error is meaningful per call.
// A connector never retries: one failed attempt surfaces as a final error.
type Connector interface {
	// Get issues one GET against the table resource
	Get(ctx context.Context) (*RawResponse, error)
	// Post issues one POST against the table resource with the given body
	Post(ctx context.Context, body []byte) (*RawResponse, error)
	// Close releases transport resources
	Close() error
}
