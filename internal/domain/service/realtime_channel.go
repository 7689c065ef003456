package service

import (
	"context"

	"tiffin/internal/domain/entity"
)

// ChannelState is the connection state of the push channel.
type ChannelState string

const (
	ChannelDisconnected ChannelState = "disconnected"
	ChannelConnecting   ChannelState = "connecting"
	ChannelConnected    ChannelState = "connected"
	ChannelReconnecting ChannelState = "reconnecting"
)

// EventHandler receives decoded push events, one at a time, in transport order.
type EventHandler func(ctx context.Context, event entity.Event)

// RealtimeChannel is the authenticated push connection. At most one live
// connection exists per process.
type RealtimeChannel interface {
	// Open connects with credential. It is a no-op while a connection for the
	// same credential is connecting, connected or reconnecting.
	Open(ctx context.Context, credential entity.Credential) error

	// Close tears the connection down. Idempotent.
	Close() error

	// State returns the current connection state.
	State() ChannelState

	// Subscribe registers handler for kind. A second registration for the same
	// kind replaces the first rather than adding a duplicate.
	Subscribe(kind entity.EventKind, handler EventHandler)

	// OnStateChange registers a listener for state transitions.
	OnStateChange(listener func(ChannelState))
}
