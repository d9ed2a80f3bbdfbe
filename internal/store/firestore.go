package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	documentsCollection = "documents"
	versionsCollection  = "documentVersions"
	usersCollection     = "users"
)

// FirestoreStore is the hosted-document-database backend. Timestamps use the
// firestore.ServerTimestamp sentinel so the server assigns them at write time.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) documents() *firestore.CollectionRef {
	return s.client.Collection(documentsCollection)
}

func (s *FirestoreStore) versions() *firestore.CollectionRef {
	return s.client.Collection(versionsCollection)
}

func (s *FirestoreStore) users() *firestore.CollectionRef {
	return s.client.Collection(usersCollection)
}

func collaboratorsToData(collaborators []Collaborator) []map[string]any {
	out := make([]map[string]any, len(collaborators))
	for i, c := range collaborators {
		out[i] = map[string]any{
			"userId":  c.UserID,
			"email":   c.Email,
			"role":    string(c.Role),
			"addedAt": c.AddedAt,
			"addedBy": c.AddedBy,
		}
	}
	return out
}

func dataToCollaborators(raw any) []Collaborator {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]Collaborator, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		c := Collaborator{}
		c.UserID, _ = m["userId"].(string)
		c.Email, _ = m["email"].(string)
		if role, ok := m["role"].(string); ok {
			c.Role = CollaboratorRole(role)
		}
		if at, ok := m["addedAt"].(time.Time); ok {
			c.AddedAt = at
		}
		c.AddedBy, _ = m["addedBy"].(string)
		out = append(out, c)
	}
	return out
}

func snapshotToDocument(snap *firestore.DocumentSnapshot) Document {
	data := snap.Data()
	doc := Document{ID: snap.Ref.ID, CurrentVersion: 1}
	doc.Title, _ = data["title"].(string)
	doc.Content, _ = data["content"].(string)
	doc.OwnerID, _ = data["userId"].(string)
	doc.Collaborators = dataToCollaborators(data["collaborators"])
	if v, ok := data["currentVersion"].(int64); ok && v > 0 {
		doc.CurrentVersion = int(v)
	}
	if at, ok := data["createdAt"].(time.Time); ok {
		doc.CreatedAt = at
	}
	if at, ok := data["updatedAt"].(time.Time); ok {
		doc.UpdatedAt = at
	}
	return doc
}

func (s *FirestoreStore) InsertDocument(ctx context.Context, doc Document) error {
	_, err := s.documents().Doc(doc.ID).Create(ctx, map[string]any{
		"title":          doc.Title,
		"content":        doc.Content,
		"userId":         doc.OwnerID,
		"collaborators":  collaboratorsToData(doc.Collaborators),
		"currentVersion": doc.CurrentVersion,
		"createdAt":      firestore.ServerTimestamp,
		"updatedAt":      firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetDocument(ctx context.Context, id string) (Document, error) {
	snap, err := s.documents().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return snapshotToDocument(snap), nil
}

func (s *FirestoreStore) UpdateDocument(ctx context.Context, id string, update DocumentUpdate) error {
	updates := []firestore.Update{{Path: "updatedAt", Value: firestore.ServerTimestamp}}
	if update.Title != nil {
		updates = append(updates, firestore.Update{Path: "title", Value: *update.Title})
	}
	if update.Content != nil {
		updates = append(updates, firestore.Update{Path: "content", Value: *update.Content})
	}
	if update.CurrentVersion != nil {
		updates = append(updates, firestore.Update{Path: "currentVersion", Value: *update.CurrentVersion})
	}
	if update.Collaborators != nil {
		updates = append(updates, firestore.Update{Path: "collaborators", Value: collaboratorsToData(*update.Collaborators)})
	}
	_, err := s.documents().Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteDocument(ctx context.Context, id string) error {
	// Firestore deletes are idempotent; check existence first so callers can
	// distinguish a missing record.
	_, err := s.documents().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if _, err := s.documents().Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *FirestoreStore) ListDocumentsByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	iter := s.documents().
		Where("userId", "==", ownerID).
		OrderBy("updatedAt", firestore.Desc).
		Documents(ctx)
	return collectDocumentSnapshots(iter)
}

func (s *FirestoreStore) ListAllDocuments(ctx context.Context) ([]Document, error) {
	iter := s.documents().OrderBy("updatedAt", firestore.Desc).Documents(ctx)
	return collectDocumentSnapshots(iter)
}

func collectDocumentSnapshots(iter *firestore.DocumentIterator) ([]Document, error) {
	defer iter.Stop()
	var out []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate documents: %w", err)
		}
		out = append(out, snapshotToDocument(snap))
	}
	return out, nil
}

func snapshotToVersion(snap *firestore.DocumentSnapshot) Version {
	data := snap.Data()
	v := Version{ID: snap.Ref.ID}
	v.DocumentID, _ = data["documentId"].(string)
	if n, ok := data["versionNumber"].(int64); ok {
		v.VersionNumber = int(n)
	}
	v.Title, _ = data["title"].(string)
	v.Content, _ = data["content"].(string)
	if at, ok := data["createdAt"].(time.Time); ok {
		v.CreatedAt = at
	}
	if by, ok := data["createdBy"].(map[string]any); ok {
		v.CreatedBy.UserID, _ = by["userId"].(string)
		v.CreatedBy.Email, _ = by["email"].(string)
		v.CreatedBy.DisplayName, _ = by["displayName"].(string)
	}
	return v
}

func (s *FirestoreStore) InsertVersion(ctx context.Context, v Version) error {
	_, err := s.versions().Doc(v.ID).Create(ctx, map[string]any{
		"documentId":    v.DocumentID,
		"versionNumber": v.VersionNumber,
		"title":         v.Title,
		"content":       v.Content,
		"createdBy": map[string]any{
			"userId":      v.CreatedBy.UserID,
			"email":       v.CreatedBy.Email,
			"displayName": v.CreatedBy.DisplayName,
		},
		"createdAt": firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetVersion(ctx context.Context, id string) (Version, error) {
	snap, err := s.versions().Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Version{}, ErrNotFound
	}
	if err != nil {
		return Version{}, fmt.Errorf("get version: %w", err)
	}
	return snapshotToVersion(snap), nil
}

func (s *FirestoreStore) ListVersions(ctx context.Context, documentID string, limit int) ([]Version, error) {
	query := s.versions().
		Where("documentId", "==", documentID).
		OrderBy("versionNumber", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	iter := query.Documents(ctx)
	defer iter.Stop()

	var out []Version
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate versions: %w", err)
		}
		out = append(out, snapshotToVersion(snap))
	}
	return out, nil
}

func (s *FirestoreStore) CountVersions(ctx context.Context, documentID string) (int, error) {
	versions, err := s.ListVersions(ctx, documentID, 0)
	if err != nil {
		return 0, err
	}
	return len(versions), nil
}

func (s *FirestoreStore) DeleteVersions(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	batch := s.client.Batch()
	for _, id := range ids {
		batch.Delete(s.versions().Doc(id))
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("delete versions batch: %w", err)
	}
	return nil
}

func (s *FirestoreStore) DeleteVersionsByDocument(ctx context.Context, documentID string) error {
	iter := s.versions().Where("documentId", "==", documentID).Documents(ctx)
	defer iter.Stop()

	batch := s.client.Batch()
	count := 0
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("iterate versions: %w", err)
		}
		batch.Delete(snap.Ref)
		count++
	}
	if count == 0 {
		return nil
	}
	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("delete document versions: %w", err)
	}
	return nil
}

func snapshotToUser(snap *firestore.DocumentSnapshot) AppUser {
	data := snap.Data()
	u := AppUser{UID: snap.Ref.ID}
	u.Email, _ = data["email"].(string)
	u.DisplayName, _ = data["displayName"].(string)
	u.PasswordHash, _ = data["passwordHash"].(string)
	if role, ok := data["role"].(string); ok {
		u.Role = UserRole(role)
	}
	if st, ok := data["status"].(string); ok {
		u.Status = ApprovalStatus(st)
	}
	if at, ok := data["createdAt"].(time.Time); ok {
		u.CreatedAt = at
	}
	if at, ok := data["updatedAt"].(time.Time); ok {
		u.UpdatedAt = at
	}
	u.ApprovedBy, _ = data["approvedBy"].(string)
	if at, ok := data["approvedAt"].(time.Time); ok {
		u.ApprovedAt = &at
	}
	return u
}

func (s *FirestoreStore) InsertUser(ctx context.Context, u AppUser) error {
	data := map[string]any{
		"uid":          u.UID,
		"email":        u.Email,
		"displayName":  u.DisplayName,
		"passwordHash": u.PasswordHash,
		"role":         string(u.Role),
		"status":       string(u.Status),
		"createdAt":    firestore.ServerTimestamp,
		"updatedAt":    firestore.ServerTimestamp,
	}
	if u.ApprovedBy != "" {
		data["approvedBy"] = u.ApprovedBy
	}
	if u.ApprovedAt != nil {
		data["approvedAt"] = firestore.ServerTimestamp
	}
	if _, err := s.users().Doc(u.UID).Create(ctx, data); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *FirestoreStore) GetUser(ctx context.Context, uid string) (AppUser, error) {
	snap, err := s.users().Doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return AppUser{}, ErrNotFound
	}
	if err != nil {
		return AppUser{}, fmt.Errorf("get user: %w", err)
	}
	return snapshotToUser(snap), nil
}

func (s *FirestoreStore) GetUserByEmail(ctx context.Context, email string) (AppUser, error) {
	iter := s.users().Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return AppUser{}, ErrNotFound
	}
	if err != nil {
		return AppUser{}, fmt.Errorf("get user by email: %w", err)
	}
	return snapshotToUser(snap), nil
}

func (s *FirestoreStore) ListUsers(ctx context.Context) ([]AppUser, error) {
	iter := s.users().OrderBy("createdAt", firestore.Desc).Documents(ctx)
	return collectUserSnapshots(iter)
}

func (s *FirestoreStore) ListUsersByStatus(ctx context.Context, st ApprovalStatus) ([]AppUser, error) {
	iter := s.users().
		Where("status", "==", string(st)).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	return collectUserSnapshots(iter)
}

func collectUserSnapshots(iter *firestore.DocumentIterator) ([]AppUser, error) {
	defer iter.Stop()
	var out []AppUser
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate users: %w", err)
		}
		out = append(out, snapshotToUser(snap))
	}
	return out, nil
}

func (s *FirestoreStore) CountUsers(ctx context.Context) (int, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

func (s *FirestoreStore) UpdateUser(ctx context.Context, uid string, update UserUpdate) error {
	updates := []firestore.Update{{Path: "updatedAt", Value: firestore.ServerTimestamp}}
	if update.Role != nil {
		updates = append(updates, firestore.Update{Path: "role", Value: string(*update.Role)})
	}
	if update.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: string(*update.Status)})
	}
	if update.ApprovedBy != nil {
		updates = append(updates, firestore.Update{Path: "approvedBy", Value: *update.ApprovedBy})
	}
	if update.SetApprovedAt {
		updates = append(updates, firestore.Update{Path: "approvedAt", Value: firestore.ServerTimestamp})
	}
	_, err := s.users().Doc(uid).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Ping(ctx context.Context) error {
	// A cheap metadata read; Firestore has no dedicated ping.
	iter := s.users().Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("firestore ping: %w", err)
	}
	return nil
}
