package app

import (
	"context"
	"net/http"
	"testing"

	"kirokumd/api/internal/access"
	"kirokumd/api/internal/store"
)

func createTestDocument(t *testing.T, s *Service, ownerID string) string {
	t.Helper()
	id, err := s.CreateDocument(context.Background(), DocumentInput{
		Title:   "Shared doc",
		OwnerID: ownerID,
	}, nil)
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	return id
}

func TestAddCollaboratorNormalizesEmail(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	id := createTestDocument(t, s, "usr_owner")

	err := s.AddCollaborator(ctx, id, AddCollaboratorInput{
		Email:   "  Guest@Example.COM ",
		Role:    "editor",
		AddedBy: "usr_owner",
	})
	if err != nil {
		t.Fatalf("AddCollaborator: %v", err)
	}

	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if len(doc.Collaborators) != 1 {
		t.Fatalf("collaborators = %+v", doc.Collaborators)
	}
	c := doc.Collaborators[0]
	if c.Email != "guest@example.com" {
		t.Fatalf("email = %q, want normalized", c.Email)
	}
	if c.Role != store.CollaboratorEditor {
		t.Fatalf("role = %s", c.Role)
	}
	if c.AddedBy != "usr_owner" {
		t.Fatalf("addedBy = %q", c.AddedBy)
	}
	if c.AddedAt.IsZero() {
		t.Fatal("AddedAt not stamped")
	}

	// The grant resolves through access evaluation.
	decision := s.HasDocumentAccess(&doc, "usr_someone", "guest@example.com")
	if !decision.HasAccess || decision.Role != access.RoleEditor {
		t.Fatalf("decision = %+v", decision)
	}
}

func TestAddCollaboratorRejectsDuplicateAndBadEmail(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	id := createTestDocument(t, s, "usr_owner")

	input := AddCollaboratorInput{Email: "guest@example.com", Role: "viewer", AddedBy: "usr_owner"}
	if err := s.AddCollaborator(ctx, id, input); err != nil {
		t.Fatalf("AddCollaborator: %v", err)
	}

	// Same email, different casing: still a duplicate.
	err := s.AddCollaborator(ctx, id, AddCollaboratorInput{Email: "GUEST@example.com", AddedBy: "usr_owner"})
	if got := domainStatus(t, err); got != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d, want 400", got)
	}

	for _, email := range []string{"", "   ", "not-an-email"} {
		err := s.AddCollaborator(ctx, id, AddCollaboratorInput{Email: email, AddedBy: "usr_owner"})
		if got := domainStatus(t, err); got != http.StatusBadRequest {
			t.Fatalf("email %q status = %d, want 400", email, got)
		}
	}
}

func TestAddCollaboratorResolvesAccount(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	id := createTestDocument(t, s, "usr_owner")

	registered := signUpUser(t, s, "known@example.com")

	if err := s.AddCollaborator(ctx, id, AddCollaboratorInput{Email: "known@example.com", AddedBy: "usr_owner"}); err != nil {
		t.Fatalf("AddCollaborator: %v", err)
	}
	if err := s.AddCollaborator(ctx, id, AddCollaboratorInput{Email: "unknown@example.com", AddedBy: "usr_owner"}); err != nil {
		t.Fatalf("AddCollaborator: %v", err)
	}

	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	byEmail := map[string]store.Collaborator{}
	for _, c := range doc.Collaborators {
		byEmail[c.Email] = c
	}
	if byEmail["known@example.com"].UserID != registered.UserID {
		t.Fatalf("known collaborator UserID = %q, want %q", byEmail["known@example.com"].UserID, registered.UserID)
	}
	if byEmail["unknown@example.com"].UserID != "" {
		t.Fatalf("unknown collaborator UserID = %q, want empty", byEmail["unknown@example.com"].UserID)
	}
}

func TestAddCollaboratorUnknownRoleDefaultsToViewer(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	id := createTestDocument(t, s, "usr_owner")

	if err := s.AddCollaborator(ctx, id, AddCollaboratorInput{Email: "guest@example.com", Role: "superuser", AddedBy: "usr_owner"}); err != nil {
		t.Fatalf("AddCollaborator: %v", err)
	}
	doc, _ := s.GetDocument(ctx, id)
	if doc.Collaborators[0].Role != store.CollaboratorViewer {
		t.Fatalf("role = %s, want viewer", doc.Collaborators[0].Role)
	}
}

func TestRemoveCollaboratorIsIdempotent(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	id := createTestDocument(t, s, "usr_owner")

	if err := s.AddCollaborator(ctx, id, AddCollaboratorInput{Email: "guest@example.com", AddedBy: "usr_owner"}); err != nil {
		t.Fatalf("AddCollaborator: %v", err)
	}

	if err := s.RemoveCollaborator(ctx, id, "Guest@Example.com"); err != nil {
		t.Fatalf("RemoveCollaborator: %v", err)
	}
	doc, _ := s.GetDocument(ctx, id)
	if len(doc.Collaborators) != 0 {
		t.Fatalf("collaborators = %+v", doc.Collaborators)
	}

	// Removing again is a no-op, not an error.
	if err := s.RemoveCollaborator(ctx, id, "guest@example.com"); err != nil {
		t.Fatalf("second RemoveCollaborator: %v", err)
	}
}

func TestUpdateCollaboratorRole(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	id := createTestDocument(t, s, "usr_owner")

	if err := s.AddCollaborator(ctx, id, AddCollaboratorInput{Email: "guest@example.com", Role: "viewer", AddedBy: "usr_owner"}); err != nil {
		t.Fatalf("AddCollaborator: %v", err)
	}

	if err := s.UpdateCollaboratorRole(ctx, id, "guest@example.com", "commenter"); err != nil {
		t.Fatalf("UpdateCollaboratorRole: %v", err)
	}
	doc, _ := s.GetDocument(ctx, id)
	if doc.Collaborators[0].Role != store.CollaboratorCommenter {
		t.Fatalf("role = %s, want commenter", doc.Collaborators[0].Role)
	}

	err := s.UpdateCollaboratorRole(ctx, id, "missing@example.com", "editor")
	if got := domainStatus(t, err); got != http.StatusNotFound {
		t.Fatalf("missing grant status = %d, want 404", got)
	}
}
