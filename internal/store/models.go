package store

import "time"

// CollaboratorRole is a per-document role. Distinct from the platform-level
// AppUser role: a platform "owner" may still be just a "viewer" on a shared doc.
type CollaboratorRole string

const (
	CollaboratorEditor    CollaboratorRole = "editor"
	CollaboratorCommenter CollaboratorRole = "commenter"
	CollaboratorViewer    CollaboratorRole = "viewer"
)

// UserRole is the platform-wide account role.
type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleOwner     UserRole = "owner"
	RoleEditor    UserRole = "editor"
	RoleViewer    UserRole = "viewer"
	RoleCommenter UserRole = "commenter"
)

// ApprovalStatus gates whether an account may use the system at all.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// Collaborator is an (email, role) grant embedded in a document. Email is the
// key within the list, stored trimmed and lower-cased. UserID stays empty until
// that email signs in and is resolved to an account.
type Collaborator struct {
	UserID  string           `json:"userId"`
	Email   string           `json:"email"`
	Role    CollaboratorRole `json:"role"`
	AddedAt time.Time        `json:"addedAt"`
	AddedBy string           `json:"addedBy"`
}

type Document struct {
	ID             string
	Title          string
	Content        string
	OwnerID        string
	Collaborators  []Collaborator
	CurrentVersion int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// VersionAuthor identifies who minted a version snapshot.
type VersionAuthor struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
}

// Version is an immutable snapshot of a document's title and content.
// Never updated after insert; deleted only by pruning or document deletion.
type Version struct {
	ID            string
	DocumentID    string
	VersionNumber int
	Title         string
	Content       string
	CreatedAt     time.Time
	CreatedBy     VersionAuthor
}

type AppUser struct {
	UID          string
	Email        string
	DisplayName  string
	PasswordHash string
	Role         UserRole
	Status       ApprovalStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ApprovedBy   string
	ApprovedAt   *time.Time
}
