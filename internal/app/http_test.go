package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Amorabdelaziz/inovation-traker/internal/store"
)

func newTestServer(t *testing.T, fs *fakeStore) (*HTTPServer, *Service) {
	t.Helper()
	svc := newTestService(fs)
	return NewHTTPServer(svc, "*"), svc
}

func doRequest(t *testing.T, server *HTTPServer, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)
	return recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v (%s)", err, recorder.Body.String())
	}
	return payload
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t, &fakeStore{})
	recorder := doRequest(t, server, http.MethodGet, "/api/health", "", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
}

func TestIdeasRequireAuthentication(t *testing.T) {
	server, _ := newTestServer(t, &fakeStore{})
	recorder := doRequest(t, server, http.MethodGet, "/api/ideas", "", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
	payload := decodeResponse(t, recorder)
	if payload["code"] != "UNAUTHORIZED" {
		t.Errorf("code = %v", payload["code"])
	}
}

func TestSessionEndpointWithoutToken(t *testing.T) {
	server, _ := newTestServer(t, &fakeStore{})
	recorder := doRequest(t, server, http.MethodGet, "/api/session", "", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	payload := decodeResponse(t, recorder)
	if payload["authenticated"] != false {
		t.Errorf("authenticated = %v", payload["authenticated"])
	}
}

func TestListIdeasWithValidToken(t *testing.T) {
	fs := &fakeStore{
		getUserByIDFn: func(_ context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, DisplayName: "Alice", Role: "submitter"}, nil
		},
	}
	server, svc := newTestServer(t, fs)

	session, err := svc.CreateSession(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	recorder := doRequest(t, server, http.MethodGet, "/api/ideas", session.Token, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", recorder.Code, recorder.Body.String())
	}
	payload := decodeResponse(t, recorder)
	if _, ok := payload["ideas"]; !ok {
		t.Errorf("missing ideas key: %v", payload)
	}
}

func TestVoteRouteRejectsInvalidType(t *testing.T) {
	fs := &fakeStore{
		getUserByIDFn: func(_ context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, DisplayName: "Alice", Role: "submitter"}, nil
		},
	}
	server, svc := newTestServer(t, fs)

	session, err := svc.CreateSession(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	recorder := doRequest(t, server, http.MethodPost, "/api/ideas/idea_1/vote", session.Token, `{"voteType":"sideways"}`)
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", recorder.Code)
	}
	payload := decodeResponse(t, recorder)
	if payload["code"] != "VALIDATION_ERROR" {
		t.Errorf("code = %v", payload["code"])
	}
}

func TestStatusRouteDeniesSubmitters(t *testing.T) {
	fs := &fakeStore{
		getUserByIDFn: func(_ context.Context, userID string) (store.User, error) {
			return store.User{ID: userID, DisplayName: "Bob", Role: "submitter"}, nil
		},
	}
	server, svc := newTestServer(t, fs)

	session, err := svc.CreateSession(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	recorder := doRequest(t, server, http.MethodPost, "/api/ideas/idea_1/status", session.Token, `{"status":"approved"}`)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", recorder.Code)
	}
}

func TestTamperedTokenIsUnauthorized(t *testing.T) {
	fs := &fakeStore{}
	server, svc := newTestServer(t, fs)

	session, err := svc.CreateSession(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	recorder := doRequest(t, server, http.MethodGet, "/api/ideas", session.Token+"x", "")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", recorder.Code)
	}
}
