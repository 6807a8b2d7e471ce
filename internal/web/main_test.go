package web

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/config"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/directory"
	"github.com/hydra-ldap-bridge/hydra-ldap-bridge/internal/hydra"
)

func newTestService(t *testing.T, basePath string) *Service {
	t.Helper()

	cfg := &config.Config{
		Title: "Example Bridge",
		Webserver: config.Webserver{
			Port:         8080,
			ShutDownTime: 1,
			BasePath:     basePath,
		},
		OAuth: config.OAuth{
			AttrsMap:  map[string]string{"cn": "name"},
			ClaimsMap: map[string]string{"name": "profile"},
		},
	}

	// The admin API and the directory are never reached by these tests.
	hydraClient, err := hydra.New("http://127.0.0.1:1")
	if err != nil {
		t.Fatalf("hydra.New failed: %v", err)
	}

	dir, err := directory.New(&directory.Config{URL: "ldap://127.0.0.1:1", Timeout: 1})
	if err != nil {
		t.Fatalf("directory.New failed: %v", err)
	}

	return New(cfg, hydraClient, dir)
}

func performGet(t *testing.T, s *Service, target string) *http.Response {
	t.Helper()

	resp, err := s.App.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestService(t, "/")

	resp := performGet(t, s, "/health/live")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected live probe 200, got %d", resp.StatusCode)
	}

	resp = performGet(t, s, "/health/ready")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ready probe 200, got %d", resp.StatusCode)
	}

	// During shutdown drain the readiness probe must fail.
	s.alive.Store(false)

	resp = performGet(t, s, "/health/ready")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected ready probe 503 while draining, got %d", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestService(t, "/")

	resp := performGet(t, s, "/metrics")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "go_goroutines") {
		t.Fatalf("expected prometheus exposition output")
	}
}

func TestNotFoundRendersErrorPage(t *testing.T) {
	s := newTestService(t, "/")

	resp := performGet(t, s, "/no-such-page")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "404") {
		t.Fatalf("expected rendered 404 page, got %q", string(body))
	}
}

func TestLoginRouteRegisteredUnderBasePath(t *testing.T) {
	s := newTestService(t, "/auth")

	// A registered route without a challenge answers 404 through the handler,
	// not through fiber's router, so the page renders as HTML.
	resp := performGet(t, s, "/auth/login")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 without a challenge, got %d", resp.StatusCode)
	}
}

func TestStaticFilesServed(t *testing.T) {
	s := newTestService(t, "/")

	resp := performGet(t, s, "/static/style.css")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for embedded stylesheet, got %d", resp.StatusCode)
	}
}
