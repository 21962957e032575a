package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bizbay/internal/app/dto"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestResponseMessage(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"nope"}`, "nope"},
		{"error field", `{"error":"denied"}`, "denied"},
		{"message wins", `{"message":"a","error":"b"}`, "a"},
		{"empty body", ``, "fallback"},
		{"not json", `<html>`, "fallback"},
		{"no fields", `{"status":500}`, "fallback"},
	}
	for _, tc := range cases {
		resp := &Response{Status: 500, Body: []byte(tc.body)}
		if got := resp.Message("fallback"); got != tc.want {
			t.Errorf("%s: got %q want %q", tc.name, got, tc.want)
		}
	}
}

func TestDoForwardsTokenAndRelaysStatus(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"message":"odd"}`))
	}))
	defer upstream.Close()

	client, err := New(Config{BaseURL: upstream.URL}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := client.Conversations(context.Background(), "tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Status != http.StatusTeapot {
		t.Errorf("status %d", resp.Status)
	}
	if resp.OK() {
		t.Error("418 must not report OK")
	}
}

func TestCreateConversationBody(t *testing.T) {
	var body string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	client, err := New(Config{BaseURL: upstream.URL}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.CreateConversation(context.Background(), "tok", dto.CreateConversationRequest{SellerID: "u2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != `{"sellerId":"u2"}` {
		t.Errorf("serviceId must be omitted when empty, body %s", body)
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	client, err := New(Config{
		BaseURL:         upstream.URL,
		Timeout:         time.Second,
		BreakerMaxFails: 2,
		BreakerCooldown: time.Minute,
	}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := client.UnreadCount(context.Background(), "tok"); !errors.Is(err, ErrUnavailable) {
			t.Fatalf("call %d: expected ErrUnavailable, got %v", i, err)
		}
	}
	// breaker should now short-circuit without dialing
	if _, err := client.UnreadCount(context.Background(), "tok"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("open breaker: expected ErrUnavailable, got %v", err)
	}
}
