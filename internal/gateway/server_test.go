package gateway

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nextlevelbuilder/thermovote/internal/config"
)

func newTestServer() *httptest.Server {
	s := NewServer(config.GatewayConfig{Host: "127.0.0.1", Port: 0})
	return httptest.NewServer(s.Handler())
}

func get(t *testing.T, url string) (int, string, http.Header) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body), resp.Header
}

func TestActionScriptWarmer(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	status, body, hdr := get(t, srv.URL+"/action-script/warmer")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if ct := hdr.Get("Content-Type"); ct != "application/xml" {
		t.Errorf("Content-Type = %q, want application/xml", ct)
	}
	if !strings.Contains(body, "<Speak") || !strings.Contains(body, "too cold") {
		t.Errorf("warmer script body missing expected content:\n%s", body)
	}
}

func TestActionScriptCooler(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	status, body, _ := get(t, srv.URL+"/action-script/cooler")
	if status != http.StatusOK || !strings.Contains(body, "too hot") {
		t.Errorf("cooler script: status=%d body=%q", status, body)
	}
}

// Unrecognized intents must still answer with a valid script: the telephony
// provider has no fallback if this endpoint errors.
func TestActionScriptUnknownIntent(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	for _, path := range []string{"/action-script/garbage", "/action-script/", "/action-script/none"} {
		status, body, _ := get(t, srv.URL+path)
		if status != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, status)
		}
		if !strings.Contains(body, "temperature control") {
			t.Errorf("GET %s should serve the generic script, got:\n%s", path, body)
		}
	}
}

func TestActionScriptPost(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/action-script/warmer", "application/x-www-form-urlencoded", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("POST status = %d, want 200", resp.StatusCode)
	}
}

func TestActionScriptMethodNotAllowed(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/action-script/warmer", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("DELETE status = %d, want 405", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	status, body, hdr := get(t, srv.URL+"/health")
	if status != http.StatusOK {
		t.Fatalf("health status = %d, want 200", status)
	}
	if ct := hdr.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("health body = %q", body)
	}
}
