package app

import (
	"context"

	"kirokumd/api/internal/access"
	"kirokumd/api/internal/store"
)

// ApproveUser marks an account approved with the given platform role and
// records which admin approved it.
func (s *Service) ApproveUser(ctx context.Context, uid, adminUID, role string) error {
	approved := store.StatusApproved
	newRole := access.NormalizeUserRole(role)
	update := store.UserUpdate{
		Status:        &approved,
		Role:          &newRole,
		ApprovedBy:    &adminUID,
		SetApprovedAt: true,
	}
	if err := s.store.UpdateUser(ctx, uid, update); err != nil {
		return wrapStoreErr(err, "user")
	}
	return nil
}

// RejectUser marks an account rejected. Rejected accounts cannot sign in.
func (s *Service) RejectUser(ctx context.Context, uid string) error {
	rejected := store.StatusRejected
	if err := s.store.UpdateUser(ctx, uid, store.UserUpdate{Status: &rejected}); err != nil {
		return wrapStoreErr(err, "user")
	}
	return nil
}

// UpdateUserRole changes an account's platform role.
func (s *Service) UpdateUserRole(ctx context.Context, uid, role string) error {
	newRole := access.NormalizeUserRole(role)
	if err := s.store.UpdateUser(ctx, uid, store.UserUpdate{Role: &newRole}); err != nil {
		return wrapStoreErr(err, "user")
	}
	return nil
}

// UpdateUserStatus changes an account's approval status.
func (s *Service) UpdateUserStatus(ctx context.Context, uid string, status store.ApprovalStatus) error {
	switch status {
	case store.StatusPending, store.StatusApproved, store.StatusRejected:
	default:
		return errValidation("Unknown approval status")
	}
	if err := s.store.UpdateUser(ctx, uid, store.UserUpdate{Status: &status}); err != nil {
		return wrapStoreErr(err, "user")
	}
	return nil
}

// GetUser fetches an account by uid.
func (s *Service) GetUser(ctx context.Context, uid string) (store.AppUser, error) {
	user, err := s.store.GetUser(ctx, uid)
	if err != nil {
		return store.AppUser{}, wrapStoreErr(err, "user")
	}
	return user, nil
}

// AllUsers lists every account, newest first.
func (s *Service) AllUsers(ctx context.Context) ([]store.AppUser, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, errStore(err)
	}
	return users, nil
}

// PendingUsers lists accounts awaiting admin action, newest first.
func (s *Service) PendingUsers(ctx context.Context) ([]store.AppUser, error) {
	users, err := s.store.ListUsersByStatus(ctx, store.StatusPending)
	if err != nil {
		return nil, errStore(err)
	}
	return users, nil
}

// RoleDisplayName is the human-readable label for a platform role.
func RoleDisplayName(role store.UserRole) string {
	switch role {
	case store.RoleAdmin:
		return "Admin"
	case store.RoleOwner:
		return "Owner"
	case store.RoleEditor:
		return "Editor"
	case store.RoleViewer:
		return "Viewer"
	case store.RoleCommenter:
		return "Commenter"
	default:
		return string(role)
	}
}

// RoleDescription explains what a platform role may do.
func RoleDescription(role store.UserRole) string {
	switch role {
	case store.RoleAdmin:
		return "Full platform access, can manage all users and documents"
	case store.RoleOwner:
		return "Can create documents and manage access to their files"
	case store.RoleEditor:
		return "Can edit documents shared with them"
	case store.RoleViewer:
		return "Can only view documents shared with them"
	case store.RoleCommenter:
		return "Can view and comment on documents shared with them"
	default:
		return ""
	}
}
