package access

import (
	"testing"

	"kirokumd/api/internal/store"
)

func TestEvaluate(t *testing.T) {
	doc := &store.Document{
		ID:      "doc_1",
		OwnerID: "usr_owner",
		Collaborators: []store.Collaborator{
			{UserID: "usr_ed", Email: "editor@example.com", Role: store.CollaboratorEditor},
			{Email: "viewer@example.com", Role: store.CollaboratorViewer},
		},
	}

	tests := []struct {
		name        string
		viewerID    string
		viewerEmail string
		wantAccess  bool
		wantRole    Role
	}{
		{name: "owner by id", viewerID: "usr_owner", viewerEmail: "whatever@example.com", wantAccess: true, wantRole: RoleOwner},
		{name: "collaborator by email", viewerID: "usr_ed", viewerEmail: "editor@example.com", wantAccess: true, wantRole: RoleEditor},
		{name: "collaborator without account", viewerID: "usr_x", viewerEmail: "viewer@example.com", wantAccess: true, wantRole: RoleViewer},
		{name: "stranger", viewerID: "usr_x", viewerEmail: "stranger@example.com", wantAccess: false, wantRole: RoleNone},
		{name: "collaborator id alone is not enough", viewerID: "usr_ed", viewerEmail: "other@example.com", wantAccess: false, wantRole: RoleNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(doc, tc.viewerID, tc.viewerEmail)
			if got.HasAccess != tc.wantAccess || got.Role != tc.wantRole {
				t.Fatalf("Evaluate = %+v, want access=%v role=%s", got, tc.wantAccess, tc.wantRole)
			}
		})
	}
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role    Role
		edit    bool
		share   bool
		comment bool
	}{
		{role: RoleOwner, edit: true, share: true, comment: true},
		{role: RoleEditor, edit: true, share: false, comment: true},
		{role: RoleCommenter, edit: false, share: false, comment: true},
		{role: RoleViewer, edit: false, share: false, comment: false},
		{role: RoleNone, edit: false, share: false, comment: false},
	}

	for _, tc := range tests {
		if got := CanEdit(tc.role); got != tc.edit {
			t.Errorf("CanEdit(%s) = %v", tc.role, got)
		}
		if got := CanShare(tc.role); got != tc.share {
			t.Errorf("CanShare(%s) = %v", tc.role, got)
		}
		if got := CanComment(tc.role); got != tc.comment {
			t.Errorf("CanComment(%s) = %v", tc.role, got)
		}
	}
}

func TestCanCreateDocuments(t *testing.T) {
	tests := []struct {
		name   string
		role   store.UserRole
		status store.ApprovalStatus
		want   bool
	}{
		{name: "approved admin", role: store.RoleAdmin, status: store.StatusApproved, want: true},
		{name: "approved owner", role: store.RoleOwner, status: store.StatusApproved, want: true},
		{name: "approved editor", role: store.RoleEditor, status: store.StatusApproved, want: false},
		{name: "approved viewer", role: store.RoleViewer, status: store.StatusApproved, want: false},
		{name: "pending owner", role: store.RoleOwner, status: store.StatusPending, want: false},
		{name: "rejected admin", role: store.RoleAdmin, status: store.StatusRejected, want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			user := store.AppUser{Role: tc.role, Status: tc.status}
			if got := CanCreateDocuments(user); got != tc.want {
				t.Fatalf("CanCreateDocuments = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsAdmin(t *testing.T) {
	if !IsAdmin(store.AppUser{Role: store.RoleAdmin, Status: store.StatusApproved}) {
		t.Fatal("approved admin should be admin")
	}
	if IsAdmin(store.AppUser{Role: store.RoleAdmin, Status: store.StatusPending}) {
		t.Fatal("pending admin should not pass")
	}
	if IsAdmin(store.AppUser{Role: store.RoleOwner, Status: store.StatusApproved}) {
		t.Fatal("owner should not pass")
	}
}

func TestNormalizers(t *testing.T) {
	if got := NormalizeCollaboratorRole("editor"); got != store.CollaboratorEditor {
		t.Fatalf("NormalizeCollaboratorRole(editor) = %s", got)
	}
	if got := NormalizeCollaboratorRole("root"); got != store.CollaboratorViewer {
		t.Fatalf("NormalizeCollaboratorRole(root) = %s", got)
	}
	if got := NormalizeUserRole("admin"); got != store.RoleAdmin {
		t.Fatalf("NormalizeUserRole(admin) = %s", got)
	}
	if got := NormalizeUserRole(""); got != store.RoleOwner {
		t.Fatalf("NormalizeUserRole(empty) = %s", got)
	}
}
