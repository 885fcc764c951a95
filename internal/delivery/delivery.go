// Package delivery defines the contract every transport-facing server
// (HTTP API, worker) fulfils so main can start them uniformly.
package delivery

import "context"

// Delivery is a long-running server started by main and stopped through the
// fx lifecycle.
type Delivery interface {
	// Serve blocks until the server stops or fails.
	Serve(ctx context.Context) error
}
