package ginserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestCreateServiceNormalizesSuccess(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"svc-1","category":"retail"}`))
	}))
	defer upstream.Close()
	gateway := newGateway(t, upstream.URL)

	rec := doAuthed(gateway, http.MethodPost, "/api/create-service", `{"data":{"category":"retail"}}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	var result struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Success {
		t.Error("expected success envelope")
	}
	if result.Data["id"] != "svc-1" {
		t.Errorf("backend data not carried: %v", result.Data)
	}
}

func TestCreateServiceNormalizesBackendError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"revenue proof missing"}`))
	}))
	defer upstream.Close()
	gateway := newGateway(t, upstream.URL)

	rec := doAuthed(gateway, http.MethodPost, "/api/create-service", `{"data":{"category":"retail"}}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 relayed, got %d", rec.Code)
	}
	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Success {
		t.Error("expected failure envelope")
	}
	if result.Message != "revenue proof missing" {
		t.Errorf("backend message not carried, got %q", result.Message)
	}
}

func TestCreateServiceBodyTokenWins(t *testing.T) {
	var seenAuth string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"svc-1"}`))
	}))
	defer upstream.Close()
	gateway := newGateway(t, upstream.URL)

	rec := doAuthed(gateway, http.MethodPost, "/api/create-service", `{"token":"body-token","data":{"category":"retail"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if seenAuth != "Bearer body-token" {
		t.Errorf("body token should be used, backend saw %q", seenAuth)
	}
}

func TestCreateServiceRequiresAuth(t *testing.T) {
	var backendCalls int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&backendCalls, 1)
	}))
	defer upstream.Close()
	gateway := newGateway(t, upstream.URL)

	req := httptest.NewRequest(http.MethodPost, "/api/create-service", strings.NewReader(`{"data":{"category":"retail"}}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	gateway.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if atomic.LoadInt64(&backendCalls) != 0 {
		t.Error("backend should not be called without a token")
	}
}

func TestCreateServiceIdempotencyReplay(t *testing.T) {
	var backendCalls int64
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&backendCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"svc-1"}`))
	}))
	defer upstream.Close()
	gateway := newGateway(t, upstream.URL)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/create-service", strings.NewReader(`{"data":{"category":"retail"}}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer tok")
		req.Header.Set("Idempotency-Key", "wizard-submit-1")
		rec := httptest.NewRecorder()
		gateway.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	second := send()

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("expected both 201, got %d and %d", first.Code, second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("replay should return the original body: %s vs %s", first.Body.String(), second.Body.String())
	}
	if calls := atomic.LoadInt64(&backendCalls); calls != 1 {
		t.Errorf("backend should be called once, was called %d times", calls)
	}
}

func TestVerifyServiceRelaysDecision(t *testing.T) {
	var forwarded map[string]any
	var path string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&forwarded)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"svc-1","verified":true}`))
	}))
	defer upstream.Close()
	gateway := newGateway(t, upstream.URL)

	rec := doAuthed(gateway, http.MethodPost, "/api/admin/services/svc-1/verify", `{"approved":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if path != "/admin/services/svc-1/verify" {
		t.Errorf("unexpected backend path %q", path)
	}
	if forwarded["approved"] != true {
		t.Errorf("decision not forwarded: %v", forwarded)
	}
}

func TestCreateServiceBackendDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()
	gateway := newGateway(t, upstream.URL)

	rec := doAuthed(gateway, http.MethodPost, "/api/create-service", `{"data":{"category":"retail"}}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", rec.Code)
	}
	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Success || result.Message == "" {
		t.Errorf("expected failure envelope with message, got %+v", result)
	}
}
