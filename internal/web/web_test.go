package web

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/janvolk/upkeep/internal/db"
)

const testJWTSecret = "test-secret"

// setupWebServer starts the page router with a fresh database and returns a
// client that carries the session cookie of a registered user.
func setupWebServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	database := db.NewTestDB(t)
	router, err := NewRouter(database, testJWTSecret)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	resp, err := client.PostForm(server.URL+"/register", url.Values{
		"email":    {"owner@example.com"},
		"password": {"password123"},
	})
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register flow ended with %d", resp.StatusCode)
	}

	return server, client
}

func TestUnauthenticatedRedirectsToLogin(t *testing.T) {
	database := db.NewTestDB(t)
	router, err := NewRouter(database, testJWTSecret)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("expected 303 redirect, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestDashboardPageRenders(t *testing.T) {
	server, client := setupWebServer(t)

	resp, err := client.Get(server.URL + "/")
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Pending tasks") {
		t.Error("dashboard page missing stats section")
	}
}

func TestTaskCSVExport(t *testing.T) {
	server, client := setupWebServer(t)

	resp, _ := client.PostForm(server.URL+"/assets", url.Values{
		"name": {"Furnace"},
		"type": {"appliance"},
	})
	resp.Body.Close()

	resp, _ = client.PostForm(server.URL+"/tasks", url.Values{
		"title":    {"Replace filter"},
		"asset_id": {"1"},
		"due_date": {"2026-10-01"},
		"cost":     {"29.99"},
	})
	resp.Body.Close()

	resp, err := client.Get(server.URL + "/tasks/export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("expected text/csv content type, got %q", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Title,Asset,Due,Status") {
		t.Errorf("unexpected header row: %q", lines[0])
	}
	row := lines[1]
	for _, want := range []string{"Replace filter", "Furnace", "2026-10-01", "pending", "29.99"} {
		if !strings.Contains(row, want) {
			t.Errorf("export row missing %q: %q", want, row)
		}
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	server, _ := setupWebServer(t)

	resp, err := http.PostForm(server.URL+"/login", url.Values{
		"email":    {"owner@example.com"},
		"password": {"wrong-password"},
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Incorrect email or password") {
		t.Error("expected login error message on the page")
	}
	for _, c := range resp.Cookies() {
		if c.Name == "token" && c.Value != "" {
			t.Error("no session cookie should be set on failed login")
		}
	}
}
