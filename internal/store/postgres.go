package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

const documentColumns = `id, title, content, owner_id, collaborators, current_version, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (Document, error) {
	var doc Document
	var collaborators []byte
	err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.OwnerID, &collaborators, &doc.CurrentVersion, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return Document{}, err
	}
	if len(collaborators) > 0 {
		if err := json.Unmarshal(collaborators, &doc.Collaborators); err != nil {
			return Document{}, fmt.Errorf("decode collaborators: %w", err)
		}
	}
	return doc, nil
}

func (s *PostgresStore) InsertDocument(ctx context.Context, doc Document) error {
	collaborators, err := json.Marshal(doc.Collaborators)
	if err != nil {
		return fmt.Errorf("encode collaborators: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, owner_id, collaborators, current_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`, doc.ID, doc.Title, doc.Content, doc.OwnerID, collaborators, doc.CurrentVersion)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetDocument(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM documents WHERE id=$1`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) UpdateDocument(ctx context.Context, id string, update DocumentUpdate) error {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if update.Title != nil {
		set = append(set, "title="+arg(*update.Title))
	}
	if update.Content != nil {
		set = append(set, "content="+arg(*update.Content))
	}
	if update.CurrentVersion != nil {
		set = append(set, "current_version="+arg(*update.CurrentVersion))
	}
	if update.Collaborators != nil {
		encoded, err := json.Marshal(*update.Collaborators)
		if err != nil {
			return fmt.Errorf("encode collaborators: %w", err)
		}
		set = append(set, "collaborators="+arg(encoded))
	}
	query := "UPDATE documents SET "
	for i, clause := range set {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += " WHERE id=" + arg(id)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListDocumentsByOwner(ctx context.Context, ownerID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+documentColumns+` FROM documents WHERE owner_id=$1 ORDER BY updated_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list documents by owner: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func (s *PostgresStore) ListAllDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+documentColumns+` FROM documents ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	return collectDocuments(rows)
}

func collectDocuments(rows *sql.Rows) ([]Document, error) {
	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *PostgresStore) InsertVersion(ctx context.Context, v Version) error {
	createdBy, err := json.Marshal(v.CreatedBy)
	if err != nil {
		return fmt.Errorf("encode version author: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO document_versions (id, document_id, version_number, title, content, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, v.ID, v.DocumentID, v.VersionNumber, v.Title, v.Content, createdBy)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}
	return nil
}

const versionColumns = `id, document_id, version_number, title, content, created_by, created_at`

func scanVersion(row interface{ Scan(...any) error }) (Version, error) {
	var v Version
	var createdBy []byte
	err := row.Scan(&v.ID, &v.DocumentID, &v.VersionNumber, &v.Title, &v.Content, &createdBy, &v.CreatedAt)
	if err != nil {
		return Version{}, err
	}
	if len(createdBy) > 0 {
		if err := json.Unmarshal(createdBy, &v.CreatedBy); err != nil {
			return Version{}, fmt.Errorf("decode version author: %w", err)
		}
	}
	return v, nil
}

func (s *PostgresStore) GetVersion(ctx context.Context, id string) (Version, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+versionColumns+` FROM document_versions WHERE id=$1`, id)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Version{}, ErrNotFound
	}
	if err != nil {
		return Version{}, fmt.Errorf("get version: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) ListVersions(ctx context.Context, documentID string, limit int) ([]Version, error) {
	query := `SELECT ` + versionColumns + ` FROM document_versions WHERE document_id=$1 ORDER BY version_number DESC`
	args := []any{documentID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var out []Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountVersions(ctx context.Context, documentID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_versions WHERE document_id=$1`, documentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count versions: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) DeleteVersions(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete versions: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `DELETE FROM document_versions WHERE id=$1`, id); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("delete version %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete versions: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteVersionsByDocument(ctx context.Context, documentID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM document_versions WHERE document_id=$1`, documentID)
	if err != nil {
		return fmt.Errorf("delete document versions: %w", err)
	}
	return nil
}

const userColumns = `uid, email, display_name, password_hash, role, status, created_at, updated_at, approved_by, approved_at`

func scanUser(row interface{ Scan(...any) error }) (AppUser, error) {
	var u AppUser
	var approvedBy sql.NullString
	err := row.Scan(&u.UID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt, &approvedBy, &u.ApprovedAt)
	if err != nil {
		return AppUser{}, err
	}
	u.ApprovedBy = approvedBy.String
	return u, nil
}

func (s *PostgresStore) InsertUser(ctx context.Context, u AppUser) error {
	approvedAt := "NULL"
	if u.ApprovedAt != nil {
		approvedAt = "NOW()"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (uid, email, display_name, password_hash, role, status, created_at, updated_at, approved_by, approved_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW(), $7, `+approvedAt+`)
	`, u.UID, u.Email, u.DisplayName, u.PasswordHash, u.Role, u.Status, u.ApprovedBy)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, uid string) (AppUser, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE uid=$1`, uid)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return AppUser{}, ErrNotFound
	}
	if err != nil {
		return AppUser{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (AppUser, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return AppUser{}, ErrNotFound
	}
	if err != nil {
		return AppUser{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]AppUser, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (s *PostgresStore) ListUsersByStatus(ctx context.Context, status ApprovalStatus) ([]AppUser, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE status=$1 ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list users by status: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]AppUser, error) {
	var out []AppUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) UpdateUser(ctx context.Context, uid string, update UserUpdate) error {
	set := []string{"updated_at=NOW()"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if update.Role != nil {
		set = append(set, "role="+arg(*update.Role))
	}
	if update.Status != nil {
		set = append(set, "status="+arg(*update.Status))
	}
	if update.ApprovedBy != nil {
		set = append(set, "approved_by="+arg(*update.ApprovedBy))
	}
	if update.SetApprovedAt {
		set = append(set, "approved_at=NOW()")
	}
	query := "UPDATE users SET "
	for i, clause := range set {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += " WHERE uid=" + arg(uid)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
