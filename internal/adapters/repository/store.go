// Package repository defines the candidate store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/scoutboard/internal/domain/model"
)

// Store provides read/write access to the ingested candidate set.
//
// Reads hand out copies; callers may hold returned slices across
// subsequent writes. The analytics engine always works on a snapshot,
// never on live store internals.
type Store interface {
	// Upsert inserts or replaces the record keyed by its ID.
	// Returns true when the record was newly created.
	Upsert(ctx context.Context, rec model.CandidateRecord) (bool, error)

	// Get returns the record for id.
	// Returns ErrNotFound if the candidate is unknown.
	Get(ctx context.Context, id string) (model.CandidateRecord, error)

	// Snapshot returns a copy of every stored record, in no particular order.
	Snapshot(ctx context.Context) []model.CandidateRecord

	// RecentSince returns a copy of the records whose pipeline-entry date
	// is at or after since. Dateless records are excluded; they do not
	// participate in time-windowed views.
	RecentSince(ctx context.Context, since time.Time) []model.CandidateRecord

	// Count returns the number of stored candidates.
	Count(ctx context.Context) int
}
