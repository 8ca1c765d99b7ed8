package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Tracker is the explicit service-layer entry point for recording history.
// Services call it inside the same transaction as the entity mutation; a
// failed append propagates and rolls the mutation back with it.
type Tracker struct {
	store Store
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

func (t *Tracker) snapshot(v interface{}) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return raw, nil
}

// RecordCreate appends the version-1 snapshot for a freshly created entity.
// A no-op when tracking is disabled on the context.
func (t *Tracker) RecordCreate(ctx context.Context, kind Kind, entityID uuid.UUID, entity interface{}, changedBy *uuid.UUID) error {
	if !Enabled(ctx) {
		return nil
	}
	raw, err := t.snapshot(entity)
	if err != nil {
		return err
	}
	return t.store.Append(ctx, kind, &Entry{
		EntityID:   entityID,
		Version:    1,
		ChangeType: ChangeCreate,
		ChangedBy:  changedBy,
		Snapshot:   raw,
	})
}

// RecordUpdate appends a snapshot at newVersion, which the caller computed
// by incrementing the entity's own counter. The history table is never
// consulted for version numbers.
func (t *Tracker) RecordUpdate(ctx context.Context, kind Kind, entityID uuid.UUID, newVersion int, entity interface{}, changedBy *uuid.UUID) error {
	if !Enabled(ctx) {
		return nil
	}
	if newVersion < 2 {
		return fmt.Errorf("update version must be at least 2, got %d", newVersion)
	}
	raw, err := t.snapshot(entity)
	if err != nil {
		return err
	}
	return t.store.Append(ctx, kind, &Entry{
		EntityID:   entityID,
		Version:    newVersion,
		ChangeType: ChangeUpdate,
		ChangedBy:  changedBy,
		Snapshot:   raw,
	})
}

// RecordDelete appends a final snapshot marking the entity's removal.
func (t *Tracker) RecordDelete(ctx context.Context, kind Kind, entityID uuid.UUID, version int, entity interface{}, changedBy *uuid.UUID) error {
	if !Enabled(ctx) {
		return nil
	}
	raw, err := t.snapshot(entity)
	if err != nil {
		return err
	}
	return t.store.Append(ctx, kind, &Entry{
		EntityID:   entityID,
		Version:    version,
		ChangeType: ChangeDelete,
		ChangedBy:  changedBy,
		Snapshot:   raw,
	})
}

// History lists an entity's snapshots, newest first.
func (t *Tracker) History(ctx context.Context, kind Kind, entityID uuid.UUID, limit, offset int) ([]*Entry, int, error) {
	return t.store.List(ctx, kind, entityID, limit, offset)
}

// Version fetches one specific snapshot.
func (t *Tracker) Version(ctx context.Context, kind Kind, entityID uuid.UUID, version int) (*Entry, error) {
	return t.store.GetVersion(ctx, kind, entityID, version)
}
