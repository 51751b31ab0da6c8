package ports

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session has no stored snapshot.
var ErrSessionNotFound = errors.New("session not found")

// Snapshot is the persisted form of one agent position.
type Snapshot struct {
	// Agent names the agent the position belongs to.
	Agent string `json:"agent"`
	// Position is the encoded position, as produced by poly.MarshalPosition.
	Position  []byte    `json:"position"`
	Steps     int       `json:"steps"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PositionStore defines the interface for persisting agent positions.
// This allows a composed agent to stop and resume across restarts.
type PositionStore interface {
	// Save persists the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, snap *Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the stored sessions.
	List(ctx context.Context) ([]string, error)
}
