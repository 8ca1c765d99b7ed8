// Package audit maintains the append-only change history for the tracked
// catalog entities. Every tracked create/update/delete appends exactly one
// snapshot row carrying the entity's post-mutation version; the entity's own
// version counter is the single source of truth and history rows never drive
// version computation.
package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind identifies a tracked entity type and selects its history table.
type Kind string

const (
	KindCondition  Kind = "condition"
	KindMedication Kind = "medication"
	KindGuideline  Kind = "guideline"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCondition, KindMedication, KindGuideline:
		return true
	}
	return false
}

// Change types recorded on history rows.
const (
	ChangeCreate = "create"
	ChangeUpdate = "update"
	ChangeDelete = "delete"
)

// Entry is one immutable history row: a full snapshot of the entity's
// content fields at a given version.
type Entry struct {
	ID         uuid.UUID       `json:"id"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Version    int             `json:"version"`
	ChangeType string          `json:"change_type"`
	ChangedBy  *uuid.UUID      `json:"changed_by,omitempty"`
	ChangedAt  time.Time       `json:"changed_at"`
	Snapshot   json.RawMessage `json:"snapshot"`
}

// Store persists history entries. Append must participate in the caller's
// transaction when one is carried in the context, so an entity mutation and
// its history row commit or roll back together.
type Store interface {
	Append(ctx context.Context, kind Kind, e *Entry) error
	List(ctx context.Context, kind Kind, entityID uuid.UUID, limit, offset int) ([]*Entry, int, error)
	GetVersion(ctx context.Context, kind Kind, entityID uuid.UUID, version int) (*Entry, error)
}

type trackingKey struct{}

// WithTracking returns a context with history tracking switched on or off.
// Tracking defaults to on; bulk importers switch it off for their run and
// the setting dies with the context, so nothing needs restoring on failure.
func WithTracking(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, trackingKey{}, enabled)
}

// Enabled reports whether mutations under ctx should produce history rows.
func Enabled(ctx context.Context) bool {
	if v, ok := ctx.Value(trackingKey{}).(bool); ok {
		return v
	}
	return true
}
