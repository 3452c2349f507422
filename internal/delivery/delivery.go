// Package delivery defines the long-running entry points of the binaries.
package delivery

import "context"

// Delivery is a server that blocks in Serve until it is stopped by its lifecycle hook.
type Delivery interface {
	Serve(ctx context.Context) error
}
