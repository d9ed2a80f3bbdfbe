package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryDocumentLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	doc := Document{
		ID:             "doc_1",
		Title:          "Notes",
		Content:        "# Notes",
		OwnerID:        "usr_1",
		CurrentVersion: 1,
	}
	if err := s.InsertDocument(ctx, doc); err != nil {
		t.Fatalf("InsertDocument: %v", err)
	}

	got, err := s.GetDocument(ctx, "doc_1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Title != "Notes" || got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("got = %+v", got)
	}

	// Partial update: nil fields stay untouched.
	title := "Renamed"
	if err := s.UpdateDocument(ctx, "doc_1", DocumentUpdate{Title: &title}); err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	got, _ = s.GetDocument(ctx, "doc_1")
	if got.Title != "Renamed" || got.Content != "# Notes" || got.CurrentVersion != 1 {
		t.Fatalf("after partial update = %+v", got)
	}

	version := 4
	collaborators := []Collaborator{{Email: "x@example.com", Role: CollaboratorViewer}}
	err = s.UpdateDocument(ctx, "doc_1", DocumentUpdate{
		CurrentVersion: &version,
		Collaborators:  &collaborators,
	})
	if err != nil {
		t.Fatalf("UpdateDocument: %v", err)
	}
	got, _ = s.GetDocument(ctx, "doc_1")
	if got.CurrentVersion != 4 || len(got.Collaborators) != 1 {
		t.Fatalf("after full update = %+v", got)
	}

	// Mutating the returned slice must not leak into the store.
	got.Collaborators[0].Email = "tampered@example.com"
	fresh, _ := s.GetDocument(ctx, "doc_1")
	if fresh.Collaborators[0].Email != "x@example.com" {
		t.Fatal("store leaked its collaborator slice")
	}

	if err := s.DeleteDocument(ctx, "doc_1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := s.GetDocument(ctx, "doc_1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetDocument after delete: %v", err)
	}
	if err := s.DeleteDocument(ctx, "doc_1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("double delete: %v", err)
	}
	if err := s.UpdateDocument(ctx, "doc_1", DocumentUpdate{Title: &title}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
}

func TestMemoryVersionQueries(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		v := Version{
			ID:            string(rune('a' + i)),
			DocumentID:    "doc_1",
			VersionNumber: i,
		}
		if err := s.InsertVersion(ctx, v); err != nil {
			t.Fatalf("InsertVersion: %v", err)
		}
	}
	if err := s.InsertVersion(ctx, Version{ID: "other", DocumentID: "doc_2", VersionNumber: 1}); err != nil {
		t.Fatalf("InsertVersion: %v", err)
	}

	versions, err := s.ListVersions(ctx, "doc_1", 0)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 5 {
		t.Fatalf("len = %d, want 5", len(versions))
	}
	if versions[0].VersionNumber != 5 || versions[4].VersionNumber != 1 {
		t.Fatalf("order = %+v", versions)
	}

	limited, err := s.ListVersions(ctx, "doc_1", 2)
	if err != nil {
		t.Fatalf("ListVersions limited: %v", err)
	}
	if len(limited) != 2 || limited[0].VersionNumber != 5 {
		t.Fatalf("limited = %+v", limited)
	}

	count, _ := s.CountVersions(ctx, "doc_1")
	if count != 5 {
		t.Fatalf("count = %d", count)
	}

	// Batch delete tolerates ids that are already gone.
	if err := s.DeleteVersions(ctx, []string{versions[4].ID, "never-existed"}); err != nil {
		t.Fatalf("DeleteVersions: %v", err)
	}
	count, _ = s.CountVersions(ctx, "doc_1")
	if count != 4 {
		t.Fatalf("count after batch delete = %d", count)
	}

	if err := s.DeleteVersionsByDocument(ctx, "doc_1"); err != nil {
		t.Fatalf("DeleteVersionsByDocument: %v", err)
	}
	count, _ = s.CountVersions(ctx, "doc_1")
	if count != 0 {
		t.Fatalf("count after cascade = %d", count)
	}
	// The other document's versions survive.
	count, _ = s.CountVersions(ctx, "doc_2")
	if count != 1 {
		t.Fatalf("doc_2 count = %d", count)
	}
}

func TestMemoryUserQueries(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	count, _ := s.CountUsers(ctx)
	if count != 0 {
		t.Fatalf("fresh store has %d users", count)
	}

	users := []AppUser{
		{UID: "usr_1", Email: "a@example.com", Role: RoleAdmin, Status: StatusApproved},
		{UID: "usr_2", Email: "b@example.com", Role: RoleOwner, Status: StatusPending},
		{UID: "usr_3", Email: "c@example.com", Role: RoleOwner, Status: StatusPending},
	}
	for _, u := range users {
		if err := s.InsertUser(ctx, u); err != nil {
			t.Fatalf("InsertUser: %v", err)
		}
	}

	byEmail, err := s.GetUserByEmail(ctx, "b@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail.UID != "usr_2" {
		t.Fatalf("byEmail = %+v", byEmail)
	}
	if _, err := s.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing email: %v", err)
	}

	pending, err := s.ListUsersByStatus(ctx, StatusPending)
	if err != nil {
		t.Fatalf("ListUsersByStatus: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %+v", pending)
	}

	role := RoleEditor
	approvedBy := "usr_1"
	status := StatusApproved
	err = s.UpdateUser(ctx, "usr_2", UserUpdate{
		Role:          &role,
		Status:        &status,
		ApprovedBy:    &approvedBy,
		SetApprovedAt: true,
	})
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	updated, _ := s.GetUser(ctx, "usr_2")
	if updated.Role != RoleEditor || updated.Status != StatusApproved {
		t.Fatalf("updated = %+v", updated)
	}
	if updated.ApprovedBy != "usr_1" || updated.ApprovedAt == nil {
		t.Fatalf("approval fields = %+v", updated)
	}

	if err := s.UpdateUser(ctx, "usr_missing", UserUpdate{Role: &role}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing user: %v", err)
	}
}
