package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"kirokumd/api/internal/access"
	"kirokumd/api/internal/auth"
	"kirokumd/api/internal/authpw"
	"kirokumd/api/internal/store"
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		s.handleReady(w, r)
		return
	}

	// Auth routes (no session required)
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/signup":
		s.handleSignUp(w, r)
		return
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/signin":
		s.handleSignIn(w, r)
		return
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/refresh":
		s.handleRefresh(w, r)
		return
	case r.Method == http.MethodPost && r.URL.Path == "/api/auth/signout":
		s.handleSignOut(w, r)
		return
	case r.Method == http.MethodGet && r.URL.Path == "/api/session":
		s.handleSession(w, r)
		return
	}

	// Everything below requires a session.
	session, err := s.requireSession(r)
	if err != nil {
		writeErr(w, err)
		return
	}

	parts := splitPath(r.URL.Path)
	if len(parts) >= 2 && parts[0] == "api" && parts[1] == "documents" {
		s.routeDocuments(w, r, session, parts[2:])
		return
	}
	if len(parts) >= 2 && parts[0] == "api" && parts[1] == "admin" {
		s.routeAdmin(w, r, session, parts[2:])
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	statusCode := http.StatusOK
	checks := map[string]any{
		"store": map[string]any{"status": "ok"},
		"redis": map[string]any{"status": "ok"},
	}
	if err := s.service.Ping(ctx); err != nil {
		statusCode = http.StatusServiceUnavailable
		checks["store"] = map[string]any{"status": "error", "error": err.Error()}
	}
	if err := s.service.PingSessions(ctx); err != nil {
		statusCode = http.StatusServiceUnavailable
		checks["redis"] = map[string]any{"status": "error", "error": err.Error()}
	}
	writeJSON(w, statusCode, map[string]any{"ok": statusCode == http.StatusOK, "checks": checks})
}

func (s *HTTPServer) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		DisplayName     string `json:"displayName"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	session, err := s.service.SignUp(r.Context(), authpw.SignUpRequest{
		Email:           body.Email,
		Password:        body.Password,
		ConfirmPassword: body.ConfirmPassword,
		DisplayName:     body.DisplayName,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionPayload(session))
}

func (s *HTTPServer) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	session, err := s.service.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionPayload(session))
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	session, err := s.service.Refresh(r.Context(), body.RefreshToken)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionPayload(session))
}

func (s *HTTPServer) handleSignOut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if err := s.service.SignOut(r.Context(), body.RefreshToken); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleSession(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	session, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"userId":        session.UserID,
		"email":         session.Email,
		"displayName":   session.DisplayName,
		"role":          session.Role,
		"status":        session.Status,
	})
}

func (s *HTTPServer) requireSession(r *http.Request) (Session, error) {
	token := bearerToken(r)
	if token == "" {
		return Session{}, errUnauthorized("Missing bearer token")
	}
	return s.service.SessionFromToken(r.Context(), token)
}

// routeDocuments dispatches /api/documents and below. rest holds the path
// segments after "documents".
func (s *HTTPServer) routeDocuments(w http.ResponseWriter, r *http.Request, session Session, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodGet:
		s.handleListDocuments(w, r, session)
	case len(rest) == 0 && r.Method == http.MethodPost:
		s.handleCreateDocument(w, r, session)
	case len(rest) == 1 && rest[0] == "shared" && r.Method == http.MethodGet:
		s.handleSharedDocuments(w, r, session)
	case len(rest) == 1 && r.Method == http.MethodGet:
		s.handleGetDocument(w, r, session, rest[0])
	case len(rest) == 1 && r.Method == http.MethodPatch:
		s.handleUpdateDocument(w, r, session, rest[0])
	case len(rest) == 1 && r.Method == http.MethodDelete:
		s.handleDeleteDocument(w, r, session, rest[0])
	case len(rest) == 2 && rest[1] == "versions" && r.Method == http.MethodGet:
		s.handleVersionHistory(w, r, session, rest[0])
	case len(rest) == 3 && rest[1] == "versions" && r.Method == http.MethodGet:
		s.handleGetVersion(w, r, session, rest[0], rest[2])
	case len(rest) == 2 && rest[1] == "collaborators" && r.Method == http.MethodPost:
		s.handleAddCollaborator(w, r, session, rest[0])
	case len(rest) == 3 && rest[1] == "collaborators" && r.Method == http.MethodDelete:
		s.handleRemoveCollaborator(w, r, session, rest[0], rest[2])
	case len(rest) == 3 && rest[1] == "collaborators" && r.Method == http.MethodPatch:
		s.handleUpdateCollaboratorRole(w, r, session, rest[0], rest[2])
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleListDocuments(w http.ResponseWriter, r *http.Request, session Session) {
	docs, err := s.service.UserDocuments(r.Context(), session.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": documentPayloads(docs)})
}

func (s *HTTPServer) handleSharedDocuments(w http.ResponseWriter, r *http.Request, session Session) {
	docs, err := s.service.SharedDocuments(r.Context(), session.Email)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": documentPayloads(docs)})
}

func (s *HTTPServer) handleCreateDocument(w http.ResponseWriter, r *http.Request, session Session) {
	user, err := s.service.GetUser(r.Context(), session.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !access.CanCreateDocuments(user) {
		writeErr(w, errAccessDenied())
		return
	}

	var body struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	author := authorFromSession(session)
	id, err := s.service.CreateDocument(r.Context(), DocumentInput{
		Title:   body.Title,
		Content: body.Content,
		OwnerID: session.UserID,
	}, &author)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

// resolveDocument loads a document and evaluates the session against it.
// Access is re-evaluated on every request; collaborator lists change.
func (s *HTTPServer) resolveDocument(r *http.Request, session Session, documentID string) (store.Document, access.Decision, error) {
	doc, err := s.service.GetDocument(r.Context(), documentID)
	if err != nil {
		return store.Document{}, access.Decision{}, err
	}
	decision := s.service.HasDocumentAccess(&doc, session.UserID, session.Email)
	if !decision.HasAccess {
		// Denied reads surface as forbidden, never as partial content.
		return store.Document{}, access.Decision{}, errAccessDenied()
	}
	return doc, decision, nil
}

func (s *HTTPServer) handleGetDocument(w http.ResponseWriter, r *http.Request, session Session, documentID string) {
	doc, decision, err := s.resolveDocument(r, session, documentID)
	if err != nil {
		writeErr(w, err)
		return
	}
	payload := documentPayload(doc)
	payload["viewerRole"] = decision.Role
	payload["canEdit"] = access.CanEdit(decision.Role)
	payload["canShare"] = access.CanShare(decision.Role)
	writeJSON(w, http.StatusOK, payload)
}

func (s *HTTPServer) handleUpdateDocument(w http.ResponseWriter, r *http.Request, session Session, documentID string) {
	_, decision, err := s.resolveDocument(r, session, documentID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !access.CanEdit(decision.Role) {
		writeErr(w, errAccessDenied())
		return
	}

	var body struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	author := authorFromSession(session)
	newVersion, err := s.service.UpdateDocument(r.Context(), documentID, DocumentUpdates{
		Title:   body.Title,
		Content: body.Content,
	}, &author)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"versionNumber": newVersion})
}

func (s *HTTPServer) handleDeleteDocument(w http.ResponseWriter, r *http.Request, session Session, documentID string) {
	_, decision, err := s.resolveDocument(r, session, documentID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if decision.Role != access.RoleOwner {
		writeErr(w, errAccessDenied())
		return
	}
	if err := s.service.DeleteDocument(r.Context(), documentID); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleVersionHistory(w http.ResponseWriter, r *http.Request, session Session, documentID string) {
	if _, _, err := s.resolveDocument(r, session, documentID); err != nil {
		writeErr(w, err)
		return
	}
	versions, err := s.service.VersionHistory(r.Context(), documentID)
	if err != nil {
		writeErr(w, err)
		return
	}
	payloads := make([]map[string]any, 0, len(versions))
	for _, v := range versions {
		payloads = append(payloads, versionPayload(v, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": payloads})
}

func (s *HTTPServer) handleGetVersion(w http.ResponseWriter, r *http.Request, session Session, documentID, versionID string) {
	if _, _, err := s.resolveDocument(r, session, documentID); err != nil {
		writeErr(w, err)
		return
	}
	version, err := s.service.GetVersion(r.Context(), versionID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if version.DocumentID != documentID {
		writeErr(w, errNotFound("version"))
		return
	}
	writeJSON(w, http.StatusOK, versionPayload(version, true))
}

func (s *HTTPServer) handleAddCollaborator(w http.ResponseWriter, r *http.Request, session Session, documentID string) {
	_, decision, err := s.resolveDocument(r, session, documentID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !access.CanShare(decision.Role) {
		writeErr(w, errAccessDenied())
		return
	}

	var body struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	err = s.service.AddCollaborator(r.Context(), documentID, AddCollaboratorInput{
		Email:   body.Email,
		Role:    body.Role,
		AddedBy: session.UserID,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
}

func (s *HTTPServer) handleRemoveCollaborator(w http.ResponseWriter, r *http.Request, session Session, documentID, email string) {
	_, decision, err := s.resolveDocument(r, session, documentID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !access.CanShare(decision.Role) {
		writeErr(w, errAccessDenied())
		return
	}
	if err := s.service.RemoveCollaborator(r.Context(), documentID, email); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *HTTPServer) handleUpdateCollaboratorRole(w http.ResponseWriter, r *http.Request, session Session, documentID, email string) {
	_, decision, err := s.resolveDocument(r, session, documentID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !access.CanShare(decision.Role) {
		writeErr(w, errAccessDenied())
		return
	}

	var body struct {
		Role string `json:"role"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if err := s.service.UpdateCollaboratorRole(r.Context(), documentID, email, body.Role); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// routeAdmin dispatches /api/admin; every route requires an approved admin.
func (s *HTTPServer) routeAdmin(w http.ResponseWriter, r *http.Request, session Session, rest []string) {
	user, err := s.service.GetUser(r.Context(), session.UserID)
	if err != nil {
		writeErr(w, err)
		return
	}
	if !access.IsAdmin(user) {
		writeErr(w, errAccessDenied())
		return
	}

	switch {
	case len(rest) == 1 && rest[0] == "users" && r.Method == http.MethodGet:
		users, err := s.service.AllUsers(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": userPayloads(users)})
	case len(rest) == 2 && rest[0] == "users" && rest[1] == "pending" && r.Method == http.MethodGet:
		users, err := s.service.PendingUsers(r.Context())
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": userPayloads(users)})
	case len(rest) == 3 && rest[0] == "users" && rest[2] == "approve" && r.Method == http.MethodPost:
		var body struct {
			Role string `json:"role"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.ApproveUser(r.Context(), rest[1], session.UserID, body.Role); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case len(rest) == 3 && rest[0] == "users" && rest[2] == "reject" && r.Method == http.MethodPost:
		if err := s.service.RejectUser(r.Context(), rest[1]); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	case len(rest) == 2 && rest[0] == "users" && r.Method == http.MethodPatch:
		s.handleAdminUpdateUser(w, r, rest[1])
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleAdminUpdateUser(w http.ResponseWriter, r *http.Request, uid string) {
	var body struct {
		Role   *string `json:"role"`
		Status *string `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	if body.Role == nil && body.Status == nil {
		writeErr(w, errValidation("Nothing to update"))
		return
	}
	if body.Role != nil {
		if err := s.service.UpdateUserRole(r.Context(), uid, *body.Role); err != nil {
			writeErr(w, err)
			return
		}
	}
	if body.Status != nil {
		if err := s.service.UpdateUserStatus(r.Context(), uid, store.ApprovalStatus(*body.Status)); err != nil {
			writeErr(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func authorFromSession(session Session) store.VersionAuthor {
	return store.VersionAuthor{
		UserID:      session.UserID,
		Email:       session.Email,
		DisplayName: session.DisplayName,
	}
}

func sessionPayload(session Session) map[string]any {
	return map[string]any{
		"token":        session.Token,
		"refreshToken": session.RefreshToken,
		"userId":       session.UserID,
		"email":        session.Email,
		"displayName":  session.DisplayName,
		"role":         session.Role,
		"status":       session.Status,
		"expiresAt":    session.ExpiresAt,
	}
}

func documentPayload(doc store.Document) map[string]any {
	return map[string]any{
		"id":             doc.ID,
		"title":          doc.Title,
		"content":        doc.Content,
		"userId":         doc.OwnerID,
		"collaborators":  doc.Collaborators,
		"currentVersion": doc.CurrentVersion,
		"createdAt":      doc.CreatedAt,
		"updatedAt":      doc.UpdatedAt,
	}
}

func documentPayloads(docs []store.Document) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, documentPayload(doc))
	}
	return out
}

// versionPayload includes content only on single-version reads; history
// listings stay light.
func versionPayload(v store.Version, withContent bool) map[string]any {
	payload := map[string]any{
		"id":            v.ID,
		"documentId":    v.DocumentID,
		"versionNumber": v.VersionNumber,
		"title":         v.Title,
		"createdAt":     v.CreatedAt,
		"createdBy":     v.CreatedBy,
	}
	if withContent {
		payload["content"] = v.Content
	}
	return payload
}

func userPayloads(users []store.AppUser) []map[string]any {
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		payload := map[string]any{
			"uid":             u.UID,
			"email":           u.Email,
			"displayName":     u.DisplayName,
			"role":            u.Role,
			"roleDisplayName": RoleDisplayName(u.Role),
			"status":          u.Status,
			"createdAt":       u.CreatedAt,
			"updatedAt":       u.UpdatedAt,
		}
		if u.ApprovedBy != "" {
			payload["approvedBy"] = u.ApprovedBy
		}
		if u.ApprovedAt != nil {
			payload["approvedAt"] = u.ApprovedAt
		}
		out = append(out, payload)
	}
	return out
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

// writeErr maps service-layer errors onto the response envelope.
func writeErr(w http.ResponseWriter, err error) {
	status, code, message, details := mapError(err)
	writeError(w, status, code, message, details)
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
