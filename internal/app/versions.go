package app

import (
	"context"

	"kirokumd/api/internal/store"
	"kirokumd/api/internal/util"
)

// MaxVersions caps how many snapshots are retained per document. The cap is a
// soft upper bound: concurrent saves can transiently exceed it until the next
// prune runs.
const MaxVersions = 25

// CreateVersion inserts an immutable snapshot and immediately prunes the
// document's history. The version number is caller-supplied so the document's
// currentVersion pointer can be coordinated in the same logical operation.
// If an error is returned the version must not be assumed to exist.
func (s *Service) CreateVersion(ctx context.Context, documentID, title, content string, versionNumber int, author store.VersionAuthor) (string, error) {
	v := store.Version{
		ID:            util.NewID("ver"),
		DocumentID:    documentID,
		VersionNumber: versionNumber,
		Title:         title,
		Content:       content,
		CreatedBy:     author,
	}
	if err := s.store.InsertVersion(ctx, v); err != nil {
		return "", errStore(err)
	}
	if err := s.pruneOldVersions(ctx, documentID); err != nil {
		return "", err
	}
	return v.ID, nil
}

// VersionHistory returns a document's snapshots, most recent first, capped at
// MaxVersions. The result is a point-in-time listing; call again to refresh.
func (s *Service) VersionHistory(ctx context.Context, documentID string) ([]store.Version, error) {
	versions, err := s.store.ListVersions(ctx, documentID, MaxVersions)
	if err != nil {
		return nil, errStore(err)
	}
	return versions, nil
}

// GetVersion fetches a single snapshot by id.
func (s *Service) GetVersion(ctx context.Context, versionID string) (store.Version, error) {
	v, err := s.store.GetVersion(ctx, versionID)
	if err != nil {
		return store.Version{}, wrapStoreErr(err, "version")
	}
	return v, nil
}

// LatestVersionNumber returns the highest version number recorded for a
// document, or 0 when no explicit version has ever been created. The zero is
// deliberate: a document's currentVersion defaults to 1 even when its initial
// version was never minted.
func (s *Service) LatestVersionNumber(ctx context.Context, documentID string) (int, error) {
	versions, err := s.store.ListVersions(ctx, documentID, 1)
	if err != nil {
		return 0, errStore(err)
	}
	if len(versions) == 0 {
		return 0, nil
	}
	return versions[0].VersionNumber, nil
}

// VersionCount reports how many snapshots a document currently has.
func (s *Service) VersionCount(ctx context.Context, documentID string) (int, error) {
	count, err := s.store.CountVersions(ctx, documentID)
	if err != nil {
		return 0, errStore(err)
	}
	return count, nil
}

// pruneOldVersions deletes everything beyond the MaxVersions most recent
// snapshots as one atomic batch. Rows already deleted by a concurrent prune
// are tolerated.
func (s *Service) pruneOldVersions(ctx context.Context, documentID string) error {
	versions, err := s.store.ListVersions(ctx, documentID, 0)
	if err != nil {
		return errStore(err)
	}
	if len(versions) <= MaxVersions {
		return nil
	}
	ids := make([]string, 0, len(versions)-MaxVersions)
	for _, v := range versions[MaxVersions:] {
		ids = append(ids, v.ID)
	}
	if err := s.store.DeleteVersions(ctx, ids); err != nil {
		return errStore(err)
	}
	return nil
}

// deleteAllVersions backs document deletion; it is not exposed on its own.
func (s *Service) deleteAllVersions(ctx context.Context, documentID string) error {
	if err := s.store.DeleteVersionsByDocument(ctx, documentID); err != nil {
		return errStore(err)
	}
	return nil
}

// VersionComparison summarizes the difference between two snapshots.
type VersionComparison struct {
	TitleChanged      bool `json:"titleChanged"`
	ContentLengthDiff int  `json:"contentLengthDiff"`
}

// CompareVersions reports a coarse diff between two snapshots; fine-grained
// per-field diffing is out of scope.
func CompareVersions(a, b store.Version) VersionComparison {
	return VersionComparison{
		TitleChanged:      a.Title != b.Title,
		ContentLengthDiff: len(b.Content) - len(a.Content),
	}
}
