package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	return NewHTTPServer(newTestService(t), "*")
}

func doJSON(t *testing.T, server *HTTPServer, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("parse response %q: %v", rr.Body.String(), err)
	}
	return payload
}

// signUpHTTP registers through the API and returns the session payload.
func signUpHTTP(t *testing.T, server *HTTPServer, email string) map[string]any {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"correct horse","confirmPassword":"correct horse","displayName":%q}`, email, email)
	rr := doJSON(t, server, http.MethodPost, "/api/auth/signup", "", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup %s: %d body=%s", email, rr.Code, rr.Body.String())
	}
	return decodeJSON(t, rr)
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)
	rr := doJSON(t, server, http.MethodGet, "/api/health", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("health = %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}

func TestDocumentRoutesRequireAuth(t *testing.T) {
	server := newTestServer(t)

	rr := doJSON(t, server, http.MethodGet, "/api/documents", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d, want 401", rr.Code)
	}
	rr = doJSON(t, server, http.MethodGet, "/api/documents", "not-a-token", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token = %d, want 401", rr.Code)
	}
}

func TestDocumentLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(t)
	owner := signUpHTTP(t, server, "owner@example.com") // bootstrap admin
	token := owner["token"].(string)

	rr := doJSON(t, server, http.MethodPost, "/api/documents", token, `{"title":"Plan","content":"# Plan"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create = %d body=%s", rr.Code, rr.Body.String())
	}
	docID := decodeJSON(t, rr)["id"].(string)

	rr = doJSON(t, server, http.MethodGet, "/api/documents/"+docID, token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("get = %d", rr.Code)
	}
	payload := decodeJSON(t, rr)
	if payload["viewerRole"] != "owner" || payload["canEdit"] != true || payload["canShare"] != true {
		t.Fatalf("owner payload = %v", payload)
	}

	// A versioned save lands at 2 (creation minted #1).
	rr = doJSON(t, server, http.MethodPatch, "/api/documents/"+docID, token, `{"content":"# Plan v2"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch = %d body=%s", rr.Code, rr.Body.String())
	}
	if n := decodeJSON(t, rr)["versionNumber"].(float64); n != 2 {
		t.Fatalf("versionNumber = %v, want 2", n)
	}

	rr = doJSON(t, server, http.MethodGet, "/api/documents/"+docID+"/versions", token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("versions = %d", rr.Code)
	}
	versions := decodeJSON(t, rr)["versions"].([]any)
	if len(versions) != 2 {
		t.Fatalf("len(versions) = %d, want 2", len(versions))
	}

	rr = doJSON(t, server, http.MethodDelete, "/api/documents/"+docID, token, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete = %d", rr.Code)
	}
	rr = doJSON(t, server, http.MethodGet, "/api/documents/"+docID, token, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d, want 404", rr.Code)
	}
}

func TestCollaboratorAccessOverHTTP(t *testing.T) {
	server := newTestServer(t)
	owner := signUpHTTP(t, server, "owner@example.com") // bootstrap admin
	ownerToken := owner["token"].(string)
	guest := signUpHTTP(t, server, "guest@example.com")
	guestToken := guest["token"].(string)

	rr := doJSON(t, server, http.MethodPost, "/api/documents", ownerToken, `{"title":"Secret"}`)
	docID := decodeJSON(t, rr)["id"].(string)

	// Not shared yet: guest gets forbidden.
	rr = doJSON(t, server, http.MethodGet, "/api/documents/"+docID, guestToken, "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("stranger get = %d, want 403", rr.Code)
	}
	if payload := decodeJSON(t, rr); payload["code"] != "FORBIDDEN" {
		t.Fatalf("code = %v", payload["code"])
	}

	// Guest cannot grant themselves access.
	rr = doJSON(t, server, http.MethodPost, "/api/documents/"+docID+"/collaborators", guestToken, `{"email":"guest@example.com","role":"editor"}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("self-grant = %d, want 403", rr.Code)
	}

	rr = doJSON(t, server, http.MethodPost, "/api/documents/"+docID+"/collaborators", ownerToken, `{"email":"guest@example.com","role":"viewer"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("share = %d body=%s", rr.Code, rr.Body.String())
	}

	// Viewer can read but not write.
	rr = doJSON(t, server, http.MethodGet, "/api/documents/"+docID, guestToken, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("viewer get = %d", rr.Code)
	}
	payload := decodeJSON(t, rr)
	if payload["viewerRole"] != "viewer" || payload["canEdit"] != false {
		t.Fatalf("viewer payload = %v", payload)
	}
	rr = doJSON(t, server, http.MethodPatch, "/api/documents/"+docID, guestToken, `{"content":"defaced"}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("viewer patch = %d, want 403", rr.Code)
	}
	rr = doJSON(t, server, http.MethodDelete, "/api/documents/"+docID, guestToken, "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("viewer delete = %d, want 403", rr.Code)
	}

	// Shared listing picks the document up for the guest.
	rr = doJSON(t, server, http.MethodGet, "/api/documents/shared", guestToken, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("shared = %d", rr.Code)
	}
	shared := decodeJSON(t, rr)["documents"].([]any)
	if len(shared) != 1 {
		t.Fatalf("shared = %v", shared)
	}
}

func TestPendingUserCannotCreateDocuments(t *testing.T) {
	server := newTestServer(t)
	signUpHTTP(t, server, "admin@example.com") // bootstrap admin
	pending := signUpHTTP(t, server, "pending@example.com")
	token := pending["token"].(string)

	rr := doJSON(t, server, http.MethodPost, "/api/documents", token, `{"title":"Nope"}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("pending create = %d, want 403", rr.Code)
	}
}

func TestAdminRoutes(t *testing.T) {
	server := newTestServer(t)
	admin := signUpHTTP(t, server, "admin@example.com")
	adminToken := admin["token"].(string)
	member := signUpHTTP(t, server, "member@example.com")
	memberToken := member["token"].(string)
	memberID := member["userId"].(string)

	// Non-admin is shut out.
	rr := doJSON(t, server, http.MethodGet, "/api/admin/users", memberToken, "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("member admin list = %d, want 403", rr.Code)
	}

	rr = doJSON(t, server, http.MethodGet, "/api/admin/users/pending", adminToken, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("pending list = %d", rr.Code)
	}
	if users := decodeJSON(t, rr)["users"].([]any); len(users) != 1 {
		t.Fatalf("pending users = %v", users)
	}

	rr = doJSON(t, server, http.MethodPost, "/api/admin/users/"+memberID+"/approve", adminToken, `{"role":"owner"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("approve = %d body=%s", rr.Code, rr.Body.String())
	}

	// The member can create documents now.
	rr = doJSON(t, server, http.MethodPost, "/api/documents", memberToken, `{"title":"Mine"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("approved create = %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPatch, "/api/admin/users/"+memberID, adminToken, `{"role":"editor"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("role patch = %d", rr.Code)
	}
	rr = doJSON(t, server, http.MethodPatch, "/api/admin/users/"+memberID, adminToken, `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty patch = %d, want 400", rr.Code)
	}
}
