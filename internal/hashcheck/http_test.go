package hashcheck

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"pwned/internal/checker"
	"pwned/internal/digest"
)

func newTestServer(t *testing.T, counter Counter) *httptest.Server {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t))
	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		RegisterRoutes(r, NewService(counter, logger), logger)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestHashEndpoint(t *testing.T) {
	hash := digest.SHA1Hex("hunter2")
	srv := newTestServer(t, &stubCounter{counts: map[string]int{hash: 3}})

	status, body := post(t, srv.URL+"/api/check/hash", `{"hash":"`+hash+`"}`)
	if status != http.StatusOK || strings.TrimSpace(body) != `{"prefix":"f3bbb","found":true,"count":3}` {
		t.Fatalf("unexpected response: %d %s", status, body)
	}

	status, body = post(t, srv.URL+"/api/check/hash", `{"hash":"`+digest.SHA1Hex("other")+`"}`)
	if status != http.StatusOK || !strings.Contains(body, `"found":false`) || strings.Contains(body, "count") {
		t.Fatalf("unexpected not-found response: %d %s", status, body)
	}
}

func TestHashEndpointRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, &stubCounter{})

	status, body := post(t, srv.URL+"/api/check/hash", `{"hash":"nothex"}`)
	if status != http.StatusBadRequest || strings.TrimSpace(body) != "Invalid SHA1 hash" {
		t.Fatalf("unexpected response: %d %q", status, body)
	}
	status, body = post(t, srv.URL+"/api/check/hash", `{`)
	if status != http.StatusBadRequest || strings.TrimSpace(body) != "Invalid request body" {
		t.Fatalf("unexpected response: %d %q", status, body)
	}
	status, body = post(t, srv.URL+"/api/check/password", `{"password":""}`)
	if status != http.StatusBadRequest || strings.TrimSpace(body) != "Password not provided" {
		t.Fatalf("unexpected response: %d %q", status, body)
	}

	resp, err := http.Get(srv.URL + "/api/check/hash")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestPasswordEndpoint(t *testing.T) {
	srv := newTestServer(t, &stubCounter{counts: map[string]int{digest.SHA1Hex("password"): 10}})
	status, body := post(t, srv.URL+"/api/check/password", `{"password":"password"}`)
	if status != http.StatusOK || !strings.Contains(body, `"count":10`) {
		t.Fatalf("unexpected response: %d %s", status, body)
	}
}

// The checker and the service agree on the wire contract.
func TestCheckerAgainstService(t *testing.T) {
	hash := digest.SHA1Hex("hunter2")
	srv := newTestServer(t, &stubCounter{counts: map[string]int{hash: 3}})
	c := checker.New(digest.SHA1{}, checker.NewHTTPLookup(srv.URL, srv.Client(), zerolog.Nop()))

	st := c.Check(context.Background(), "hunter2")
	if st.Severity != checker.SeverityWarning || st.Message != "⚠️ Warning: This password has been found in 3 data breaches!" {
		t.Fatalf("unexpected state: %+v", st)
	}
	st = c.Check(context.Background(), strings.Repeat("a", 40))
	if st.Severity != checker.SeveritySuccess {
		t.Fatalf("unexpected state: %+v", st)
	}

	failing := newTestServer(t, &stubCounter{err: errors.New("HTTP 429: 429 Too Many Requests")})
	c = checker.New(digest.SHA1{}, checker.NewHTTPLookup(failing.URL, failing.Client(), zerolog.Nop()))
	st = c.Check(context.Background(), "hunter2")
	if st.Severity != checker.SeverityError || st.Message != "Error: HTTP 429: 429 Too Many Requests" {
		t.Fatalf("unexpected state: %+v", st)
	}
}
