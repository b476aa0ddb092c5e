package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

var (
	// ErrNotFound is returned by Update when the session does not exist.
	ErrNotFound = errors.New("sessionstore: session not found")
	// ErrVersionConflict is returned by Update when another writer has
	// persisted the session since this record was read.
	ErrVersionConflict = errors.New("sessionstore: version conflict")
)

// Record is one live widget session. Unlike the visitor row, whose
// metaData is last-write-wins by contract, live records carry a version
// counter so two tabs on the same session conflict loudly.
type Record struct {
	ID           string                   `json:"id"`
	Conversation valueobject.Conversation `json:"conversation"`
	Name         string                   `json:"name,omitempty"`
	Email        string                   `json:"email,omitempty"`
	Phone        string                   `json:"phone,omitempty"`
	PromptShown  bool                     `json:"promptShown"`
	Version      int64                    `json:"version"`
	CreatedAt    time.Time                `json:"createdAt"`
	UpdatedAt    time.Time                `json:"updatedAt"`
}

// Store keeps live widget sessions between reconnects.
type Store interface {
	// Create stores a new record with Version set to 1.
	Create(ctx context.Context, rec *Record) error

	// Get retrieves a record by ID. Returns nil if not found (not an error).
	Get(ctx context.Context, id string) (*Record, error)

	// Update persists a record with optimistic locking: the stored version
	// must match rec.Version, which is then incremented. Returns
	// ErrVersionConflict on mismatch and ErrNotFound for unknown IDs.
	Update(ctx context.Context, rec *Record) error

	// Delete removes a record by ID.
	Delete(ctx context.Context, id string) error

	// Close releases underlying resources.
	Close() error
}
