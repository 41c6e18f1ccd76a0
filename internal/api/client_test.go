package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"roadwatch/internal/config"
	"roadwatch/internal/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return NewClient(config.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5}, logger.Discard()), &captured
}

func TestLogin_SendsEmailPasswordJSON(t *testing.T) {
	var body map[string]string
	c, captured := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"success":true,"token":"T1","user":{"id":"u1","username":"alice"}}`))
	})

	res, err := c.Login(context.Background(), "/auth/citizen/login", "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "T1" || res.UserID != "u1" || res.Username != "alice" {
		t.Fatalf("result = %+v", res)
	}
	if body["email"] != "alice" || body["password"] != "pw" {
		t.Fatalf("request body = %v, want email+password", body)
	}
	if captured.Header.Get("Content-Type") != "application/json" {
		t.Fatalf("content type = %q", captured.Header.Get("Content-Type"))
	}
	if captured.Header.Get("X-Request-ID") == "" {
		t.Fatalf("request ID header missing")
	}
}

func TestLogin_SuccessWithoutUserRecord(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"token":"T1"}`))
	})
	res, err := c.Login(context.Background(), "/auth/citizen/login", "alice", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "T1" || res.UserID != "" || res.Username != "" {
		t.Fatalf("result = %+v", res)
	}
}

func TestLogin_ApplicationLevelFailure(t *testing.T) {
	// HTTP 200 but success=false is still a rejection.
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"account disabled"}`))
	})
	_, err := c.Login(context.Background(), "/auth/citizen/login", "alice", "pw")
	var rejected *RejectedError
	if !errors.As(err, &rejected) || rejected.Message != "account disabled" {
		t.Fatalf("err = %v, want RejectedError(account disabled)", err)
	}
}

func TestLogin_StatusDerivedMessage(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})
	_, err := c.Login(context.Background(), "/auth/citizen/login", "alice", "pw")
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("err = %v, want RejectedError", err)
	}
	if rejected.Status != http.StatusBadGateway || rejected.Message != "server error: 502" {
		t.Fatalf("rejected = %+v", rejected)
	}
}

func TestLogin_MalformedSuccessBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	})
	_, err := c.Login(context.Background(), "/auth/citizen/login", "alice", "pw")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestListComplaints_BearerAuth(t *testing.T) {
	c, captured := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"complaints":[]}}`))
	})
	out, err := c.ListComplaints(context.Background(), "tok", PathComplaints)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty list, got %d", len(out))
	}
	if captured.Header.Get("Authorization") != "Bearer tok" {
		t.Fatalf("authorization = %q", captured.Header.Get("Authorization"))
	}
}

func TestListComplaints_MalformedBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[1,2,3]`))
	})
	if _, err := c.ListComplaints(context.Background(), "tok", PathComplaints); !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("err = %v, want ErrMalformedResponse", err)
	}
}

func TestListComplaints_Rejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"token expired"}`))
	})
	_, err := c.ListComplaints(context.Background(), "tok", PathMyComplaints)
	var rejected *RejectedError
	if !errors.As(err, &rejected) || rejected.Message != "token expired" {
		t.Fatalf("err = %v, want RejectedError(token expired)", err)
	}
}

func TestParsedCreatedAt(t *testing.T) {
	cases := map[string]bool{
		"2024-01-15T10:00:00Z":        false,
		"2024-01-15T10:00:00.123456Z": false,
		"2024-01-15":                  false,
		"last tuesday":                true,
		"":                            true,
	}
	for raw, wantZero := range cases {
		got := Complaint{CreatedAt: raw}.ParsedCreatedAt()
		if got.IsZero() != wantZero {
			t.Fatalf("ParsedCreatedAt(%q).IsZero() = %v, want %v", raw, got.IsZero(), wantZero)
		}
	}
}
