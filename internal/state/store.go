// Package state persists one JSON state document per organization in
// Postgres.
//
// Saves are whole-document upserts with last-write-wins semantics: there is
// no version guard, so two concurrent read-modify-write cycles against the
// same org can overwrite each other's changes. This mirrors the persistence
// contract the WMS frontend already operates under; adding an optimistic
// check would make saves start failing under races the callers do not handle.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almasatelier/shop-bridge/internal/wms"
)

// Expected schema:
//
//	CREATE TABLE org_state (
//	    org        text PRIMARY KEY,
//	    blob       jsonb NOT NULL,
//	    updated_at timestamptz NOT NULL DEFAULT now()
//	);

// ErrNotFound is returned when no state row exists for the organization.
var ErrNotFound = errors.New("organization state not found")

// Snapshot is a loaded copy of an organization's state. Mutate the blob in
// memory and hand it back to Save; nothing is written through the snapshot.
type Snapshot struct {
	Blob      wms.Blob
	UpdatedAt time.Time
}

type Store struct{ DB *pgxpool.Pool }

func (s *Store) Load(ctx context.Context, org string) (*Snapshot, error) {
	var raw []byte
	var updatedAt time.Time
	err := s.DB.QueryRow(ctx,
		`SELECT blob, updated_at FROM org_state WHERE org=$1`, org).Scan(&raw, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{UpdatedAt: updatedAt}
	if err := json.Unmarshal(raw, &snap.Blob); err != nil {
		return nil, fmt.Errorf("decode state blob for org %q: %w", org, err)
	}
	return snap, nil
}

// Save replaces the organization's document, creating the row if needed.
func (s *Store) Save(ctx context.Context, org string, blob *wms.Blob) error {
	raw, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode state blob for org %q: %w", org, err)
	}
	_, err = s.DB.Exec(ctx, `
		INSERT INTO org_state(org, blob, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (org) DO UPDATE SET blob = EXCLUDED.blob, updated_at = now()
	`, org, raw)
	return err
}
