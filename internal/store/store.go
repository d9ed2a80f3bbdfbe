// Package store persists documents, version snapshots, and user accounts.
// Three backends implement the same contract: Postgres, Firestore, and an
// in-memory store used by tests and local development. Timestamps are assigned
// by the backend at write time, never taken from the caller.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a referenced record does not resolve.
var ErrNotFound = errors.New("record not found")

// DocumentUpdate is a partial-merge update. Nil fields are left untouched;
// every update refreshes the document's updatedAt.
type DocumentUpdate struct {
	Title          *string
	Content        *string
	CurrentVersion *int
	Collaborators  *[]Collaborator
}

// UserUpdate is a partial-merge update for user records.
type UserUpdate struct {
	Role          *UserRole
	Status        *ApprovalStatus
	ApprovedBy    *string
	SetApprovedAt bool
}

type Store interface {
	// Documents
	InsertDocument(ctx context.Context, doc Document) error
	GetDocument(ctx context.Context, id string) (Document, error)
	UpdateDocument(ctx context.Context, id string, update DocumentUpdate) error
	DeleteDocument(ctx context.Context, id string) error
	ListDocumentsByOwner(ctx context.Context, ownerID string) ([]Document, error)
	// ListAllDocuments backs the shared-with-me scan. There is no secondary
	// index on collaborator email, so callers filter the full collection.
	ListAllDocuments(ctx context.Context) ([]Document, error)

	// Versions
	InsertVersion(ctx context.Context, v Version) error
	GetVersion(ctx context.Context, id string) (Version, error)
	// ListVersions returns versions for a document ordered by versionNumber
	// descending. limit <= 0 means no limit.
	ListVersions(ctx context.Context, documentID string, limit int) ([]Version, error)
	CountVersions(ctx context.Context, documentID string) (int, error)
	// DeleteVersions removes the given version ids as a single atomic batch.
	// Ids that no longer exist are skipped, not errors.
	DeleteVersions(ctx context.Context, ids []string) error
	// DeleteVersionsByDocument removes every version of a document atomically.
	DeleteVersionsByDocument(ctx context.Context, documentID string) error

	// Users
	InsertUser(ctx context.Context, u AppUser) error
	GetUser(ctx context.Context, uid string) (AppUser, error)
	GetUserByEmail(ctx context.Context, email string) (AppUser, error)
	ListUsers(ctx context.Context) ([]AppUser, error)
	ListUsersByStatus(ctx context.Context, status ApprovalStatus) ([]AppUser, error)
	CountUsers(ctx context.Context) (int, error)
	UpdateUser(ctx context.Context, uid string, update UserUpdate) error

	Ping(ctx context.Context) error
}
