package app

import (
	"context"
	"strings"

	"kirokumd/api/internal/access"
	"kirokumd/api/internal/store"
	"kirokumd/api/internal/util"
)

// DocumentInput is the payload for creating a document.
type DocumentInput struct {
	Title         string
	Content       string
	OwnerID       string
	Collaborators []store.Collaborator
}

// DocumentUpdates carries the mutable fields of a save. Nil means "leave as
// stored".
type DocumentUpdates struct {
	Title   *string
	Content *string
}

// CreateDocument persists a new document with currentVersion=1. When an
// author is supplied, version #1 is minted synchronously with the initial
// title and content; without one the document exists with zero versions.
func (s *Service) CreateDocument(ctx context.Context, input DocumentInput, author *store.VersionAuthor) (string, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Untitled"
	}
	doc := store.Document{
		ID:             util.NewID("doc"),
		Title:          title,
		Content:        input.Content,
		OwnerID:        input.OwnerID,
		Collaborators:  input.Collaborators,
		CurrentVersion: 1,
	}
	if err := s.store.InsertDocument(ctx, doc); err != nil {
		return "", errStore(err)
	}

	if author != nil {
		if _, err := s.CreateVersion(ctx, doc.ID, doc.Title, doc.Content, 1, *author); err != nil {
			return "", err
		}
	}
	return doc.ID, nil
}

// UpdateDocument saves title/content changes. With a version author and at
// least one changed field it mints a new snapshot numbered latest+1 and moves
// currentVersion to it, returning the new number. Otherwise it is a plain
// field update and returns 0.
//
// The read-latest-then-increment sequence is not transactional: two
// concurrent saves can mint the same number and the pointer follows the last
// writer. Callers wanting dedup compare against their last-saved snapshot
// before asking for a version; the store never deduplicates identical content.
func (s *Service) UpdateDocument(ctx context.Context, documentID string, updates DocumentUpdates, author *store.VersionAuthor) (int, error) {
	hasFields := updates.Title != nil || updates.Content != nil

	if author == nil || !hasFields {
		update := store.DocumentUpdate{Title: updates.Title, Content: updates.Content}
		if err := s.store.UpdateDocument(ctx, documentID, update); err != nil {
			return 0, wrapStoreErr(err, "document")
		}
		return 0, nil
	}

	latest, err := s.LatestVersionNumber(ctx, documentID)
	if err != nil {
		return 0, err
	}
	next := latest + 1

	// Fill fields missing from the update from the stored record.
	current, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return 0, wrapStoreErr(err, "document")
	}
	title := current.Title
	if updates.Title != nil {
		title = *updates.Title
	}
	if title == "" {
		title = "Untitled"
	}
	content := current.Content
	if updates.Content != nil {
		content = *updates.Content
	}

	if _, err := s.CreateVersion(ctx, documentID, title, content, next, *author); err != nil {
		return 0, err
	}

	update := store.DocumentUpdate{
		Title:          updates.Title,
		Content:        updates.Content,
		CurrentVersion: &next,
	}
	if err := s.store.UpdateDocument(ctx, documentID, update); err != nil {
		return 0, wrapStoreErr(err, "document")
	}
	return next, nil
}

// DeleteDocument removes a document and all of its versions. Versions go
// first; the two steps are not atomic, so an interrupted delete can strand a
// document with no versions (recoverable) but never versions with no
// document reachable through queries.
func (s *Service) DeleteDocument(ctx context.Context, documentID string) error {
	if err := s.deleteAllVersions(ctx, documentID); err != nil {
		return err
	}
	if err := s.store.DeleteDocument(ctx, documentID); err != nil {
		return wrapStoreErr(err, "document")
	}
	return nil
}

// GetDocument fetches a document record by id.
func (s *Service) GetDocument(ctx context.Context, documentID string) (store.Document, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return store.Document{}, wrapStoreErr(err, "document")
	}
	return doc, nil
}

// UserDocuments lists documents owned by a user, most recently updated first.
func (s *Service) UserDocuments(ctx context.Context, userID string) ([]store.Document, error) {
	docs, err := s.store.ListDocumentsByOwner(ctx, userID)
	if err != nil {
		return nil, errStore(err)
	}
	return docs, nil
}

// SharedDocuments lists documents where the email appears as a collaborator.
// There is no secondary index on collaborator membership, so this scans the
// full collection: O(total documents), a known scaling limit.
func (s *Service) SharedDocuments(ctx context.Context, userEmail string) ([]store.Document, error) {
	docs, err := s.store.ListAllDocuments(ctx)
	if err != nil {
		return nil, errStore(err)
	}
	var shared []store.Document
	for _, doc := range docs {
		for _, c := range doc.Collaborators {
			if c.Email == userEmail {
				shared = append(shared, doc)
				break
			}
		}
	}
	return shared, nil
}

// HasDocumentAccess resolves the viewer's role on a document.
func (s *Service) HasDocumentAccess(doc *store.Document, userID, userEmail string) access.Decision {
	return access.Evaluate(doc, userID, userEmail)
}
