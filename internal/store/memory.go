package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and local development.
type MemoryStore struct {
	mu        sync.RWMutex
	documents map[string]Document
	versions  map[string]Version
	users     map[string]AppUser
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		documents: make(map[string]Document),
		versions:  make(map[string]Version),
		users:     make(map[string]AppUser),
	}
}

func cloneDocument(d Document) Document {
	out := d
	out.Collaborators = append([]Collaborator(nil), d.Collaborators...)
	return out
}

func (s *MemoryStore) InsertDocument(_ context.Context, doc Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	s.documents[doc.ID] = cloneDocument(doc)
	return nil
}

func (s *MemoryStore) GetDocument(_ context.Context, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return cloneDocument(doc), nil
}

func (s *MemoryStore) UpdateDocument(_ context.Context, id string, update DocumentUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return ErrNotFound
	}
	if update.Title != nil {
		doc.Title = *update.Title
	}
	if update.Content != nil {
		doc.Content = *update.Content
	}
	if update.CurrentVersion != nil {
		doc.CurrentVersion = *update.CurrentVersion
	}
	if update.Collaborators != nil {
		doc.Collaborators = append([]Collaborator(nil), (*update.Collaborators)...)
	}
	doc.UpdatedAt = time.Now()
	s.documents[id] = doc
	return nil
}

func (s *MemoryStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return ErrNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *MemoryStore) ListDocumentsByOwner(_ context.Context, ownerID string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Document
	for _, doc := range s.documents {
		if doc.OwnerID == ownerID {
			out = append(out, cloneDocument(doc))
		}
	}
	sortDocumentsByUpdated(out)
	return out, nil
}

func (s *MemoryStore) ListAllDocuments(_ context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, 0, len(s.documents))
	for _, doc := range s.documents {
		out = append(out, cloneDocument(doc))
	}
	sortDocumentsByUpdated(out)
	return out, nil
}

func sortDocumentsByUpdated(docs []Document) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UpdatedAt.After(docs[j].UpdatedAt)
	})
}

func (s *MemoryStore) InsertVersion(_ context.Context, v Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.CreatedAt = time.Now()
	s.versions[v.ID] = v
	return nil
}

func (s *MemoryStore) GetVersion(_ context.Context, id string) (Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[id]
	if !ok {
		return Version{}, ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) ListVersions(_ context.Context, documentID string, limit int) ([]Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Version
	for _, v := range s.versions {
		if v.DocumentID == documentID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VersionNumber > out[j].VersionNumber
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CountVersions(_ context.Context, documentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, v := range s.versions {
		if v.DocumentID == documentID {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) DeleteVersions(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.versions, id)
	}
	return nil
}

func (s *MemoryStore) DeleteVersionsByDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, v := range s.versions {
		if v.DocumentID == documentID {
			delete(s.versions, id)
		}
	}
	return nil
}

func (s *MemoryStore) InsertUser(_ context.Context, u AppUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.ApprovedAt != nil {
		at := now
		u.ApprovedAt = &at
	}
	s.users[u.UID] = u
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, uid string) (AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[uid]
	if !ok {
		return AppUser{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return AppUser{}, ErrNotFound
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AppUser, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sortUsersByCreated(out)
	return out, nil
}

func (s *MemoryStore) ListUsersByStatus(_ context.Context, status ApprovalStatus) ([]AppUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []AppUser
	for _, u := range s.users {
		if u.Status == status {
			out = append(out, u)
		}
	}
	sortUsersByCreated(out)
	return out, nil
}

func sortUsersByCreated(users []AppUser) {
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
}

func (s *MemoryStore) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, uid string, update UserUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uid]
	if !ok {
		return ErrNotFound
	}
	if update.Role != nil {
		u.Role = *update.Role
	}
	if update.Status != nil {
		u.Status = *update.Status
	}
	if update.ApprovedBy != nil {
		u.ApprovedBy = *update.ApprovedBy
	}
	if update.SetApprovedAt {
		at := time.Now()
		u.ApprovedAt = &at
	}
	u.UpdatedAt = time.Now()
	s.users[uid] = u
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
