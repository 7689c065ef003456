// Package delivery holds the outer surfaces that drive the client core.
package delivery

import "context"

// Delivery is a long-running surface started by the daemon.
type Delivery interface {
	Serve(ctx context.Context) error
}
