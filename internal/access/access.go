// Package access decides what a viewer may do with a document. Evaluation is
// pure and must be repeated on every access decision: collaborator lists
// change underneath cached results.
package access

import "kirokumd/api/internal/store"

// Role is the resolved role of a viewer on a document. RoleOwner is implicit
// for the document creator and never stored as a collaborator entry.
type Role string

const (
	RoleNone      Role = ""
	RoleOwner     Role = "owner"
	RoleEditor    Role = "editor"
	RoleCommenter Role = "commenter"
	RoleViewer    Role = "viewer"
)

// Decision is the outcome of evaluating a viewer against a document.
type Decision struct {
	HasAccess bool
	Role      Role
}

// Evaluate resolves a viewer's role on a document. viewerEmail must already be
// normalized (trimmed, lower-cased); collaborator emails are stored that way
// and the comparison is exact.
func Evaluate(doc *store.Document, viewerID, viewerEmail string) Decision {
	if doc.OwnerID == viewerID {
		return Decision{HasAccess: true, Role: RoleOwner}
	}
	for _, c := range doc.Collaborators {
		if c.Email == viewerEmail {
			return Decision{HasAccess: true, Role: Role(c.Role)}
		}
	}
	return Decision{}
}

// CanEdit reports whether the role allows mutating title or content.
func CanEdit(role Role) bool {
	return role == RoleOwner || role == RoleEditor
}

// CanShare reports whether the role allows changing the collaborator list.
// Only the owner shares.
func CanShare(role Role) bool {
	return role == RoleOwner
}

// CanComment reports whether the role allows commenting.
func CanComment(role Role) bool {
	return role == RoleOwner || role == RoleEditor || role == RoleCommenter
}

// CanCreateDocuments is the platform-level gate for document creation,
// independent of any particular document.
func CanCreateDocuments(user store.AppUser) bool {
	if user.Status != store.StatusApproved {
		return false
	}
	return user.Role == store.RoleAdmin || user.Role == store.RoleOwner
}

// IsAdmin reports whether the account may perform admin operations.
func IsAdmin(user store.AppUser) bool {
	return user.Role == store.RoleAdmin && user.Status == store.StatusApproved
}

// NormalizeCollaboratorRole maps arbitrary input to a valid per-document
// role, defaulting to viewer.
func NormalizeCollaboratorRole(role string) store.CollaboratorRole {
	switch store.CollaboratorRole(role) {
	case store.CollaboratorEditor, store.CollaboratorCommenter, store.CollaboratorViewer:
		return store.CollaboratorRole(role)
	default:
		return store.CollaboratorViewer
	}
}

// NormalizeUserRole maps arbitrary input to a valid platform role, defaulting
// to owner (the role granted on approval).
func NormalizeUserRole(role string) store.UserRole {
	switch store.UserRole(role) {
	case store.RoleAdmin, store.RoleOwner, store.RoleEditor, store.RoleViewer, store.RoleCommenter:
		return store.UserRole(role)
	default:
		return store.RoleOwner
	}
}
