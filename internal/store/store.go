// Package store persists the order list as one whole document over
// interchangeable backends: a local JSON file or a remote file behind
// a git-hosting content API. Every mutation is a whole-document
// read-modify-write; the remote backend guards it with an optimistic
// revision token.
package store

import (
	"context"

	"github.com/bizzon-vn/bepnhanga/internal/models/order"
	"github.com/google/uuid"
)

// Revision is an opaque token identifying the document revision a
// snapshot was read from. Empty means the backend has no revisions
// (local file) or the document did not exist.
type Revision string

// Snapshot is the unit of an optimistic-concurrency read: the order
// list plus the revision it was read at. Degraded marks a remote read
// that failed and was replaced with an empty list.
type Snapshot struct {
	Orders   order.List
	Rev      Revision
	Degraded bool
}

// Store is the order list over one configured backend. Backend
// selection happens once at startup; implementations never fall back
// to another backend on failure.
type Store interface {
	// List returns the current orders. A failed remote read degrades to
	// an empty snapshot with Degraded set instead of returning an error.
	List(ctx context.Context) (Snapshot, error)

	// Append reads the current list, inserts o first and writes the
	// whole list back. The remote write carries the revision of the
	// read that preceded it; a mismatch fails with
	// errs.ErrRevisionMismatch and nothing is retried or merged.
	Append(ctx context.Context, o order.Order) error

	// SetDelivered flips the delivered flag of the order with the given
	// id using the same read-modify-write pattern. An unknown id fails
	// with errs.ErrNotFound.
	SetDelivered(ctx context.Context, id uuid.UUID, delivered bool) error
}
