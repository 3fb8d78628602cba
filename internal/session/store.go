package session

import (
	"context"
	"time"
)

// TTL is the sliding expiry window. Every save pushes it forward.
const TTL = 24 * time.Hour

// Store defines how sessions are persisted and retrieved.
// Implementations (e.g., Redis) must remain stateless and opaque.
type Store interface {
	// Get returns the session or (nil, nil) when it does not exist.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Save writes the session and resets its TTL to the full window.
	Save(ctx context.Context, s *Session) error

	Delete(ctx context.Context, sessionID string) error
}
