package api

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:3000", true},
		{"http://localhost", true},
		{"http://127.0.0.1:5173", true},
		{"https://studio.app.heimdex.co", true},
		{"https://cut-room.app.heimdex.co:443", true},
		{"http://dev.app.heimdex.local:3000", true},
		{"https://a.app.heimdex.co", true},

		{"", false},
		{"https://evil.com", false},
		{"https://app.heimdex.co", false},
		{"https://studio.app.heimdex.co.evil.com", false},
		{"https://-bad.app.heimdex.co", false},
		{"https://bad-.app.heimdex.co", false},
		{"http://192.168.1.1:3000", false},
		{"ftp://localhost:3000", false},
		{"http://localhost:not-a-port", false},
		{"http://localhost:3000/timeline", false},
	}

	for _, tt := range tests {
		if got := isAllowedOrigin(tt.origin); got != tt.want {
			t.Errorf("isAllowedOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
		}
	}
}

func TestIsLoopbackRemoteAddr(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"127.0.0.1:12345", true},
		{"[::1]:12345", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"[::1]", true},
		{"8.8.8.8:12345", false},
		{"10.0.0.1:3000", false},
		{"not-an-ip:1234", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isLoopbackRemoteAddr(tt.addr); got != tt.want {
			t.Errorf("isLoopbackRemoteAddr(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}

func headerList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func TestCORSAllowlist(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		origin     string
		wantCode   int
		wantACAO   string
		wantCalled bool
	}{
		{"allowed get", http.MethodGet, "http://localhost:3000", http.StatusOK, "http://localhost:3000", true},
		{"allowed subdomain", http.MethodGet, "https://studio.app.heimdex.local", http.StatusOK, "https://studio.app.heimdex.local", true},
		{"denied get is still served", http.MethodGet, "https://evil.com", http.StatusOK, "", true},
		{"no origin", http.MethodGet, "", http.StatusOK, "", true},
		{"allowed preflight", http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "http://localhost:3000", false},
		{"denied preflight", http.MethodOptions, "https://evil.com", http.StatusForbidden, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := CORSAllowlist()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(tt.method, "/project", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantCode)
			}
			if called != tt.wantCalled {
				t.Fatalf("handler called = %v, want %v", called, tt.wantCalled)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tt.wantACAO {
				t.Errorf("ACAO = %q, want %q", got, tt.wantACAO)
			}
		})
	}
}

func TestCORSAllowlist_PreflightHeaders(t *testing.T) {
	handler := CORSAllowlist()(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodOptions, "/scenes/abc/media", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "range,authorization")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	checks := []struct {
		header string
		want   []string
	}{
		{"Access-Control-Allow-Headers", []string{"Range", "Content-Type", "Authorization", "X-Heimdex-Request-Id"}},
		{"Access-Control-Expose-Headers", []string{"Content-Range", "Accept-Ranges", "Content-Length", "Content-Disposition", "X-Request-ID"}},
		{"Access-Control-Allow-Methods", []string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE"}},
	}
	for _, c := range checks {
		got := headerList(rr.Header().Get(c.header))
		for _, w := range c.want {
			if !slices.Contains(got, w) {
				t.Errorf("%s = %v, missing %q", c.header, got, w)
			}
		}
	}
}

func TestCORSAllowlist_VaryIsAdditive(t *testing.T) {
	handler := CORSAllowlist()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	rr.Header().Set("Vary", "Accept-Encoding")
	handler.ServeHTTP(rr, req)

	vary := rr.Header().Values("Vary")
	if !slices.Contains(vary, "Accept-Encoding") || !slices.Contains(vary, "Origin") {
		t.Fatalf("Vary = %v, want Accept-Encoding and Origin", vary)
	}
}

func TestLoopbackGuard(t *testing.T) {
	tests := []struct {
		remote string
		want   int
	}{
		{"127.0.0.1:12345", http.StatusOK},
		{"[::1]:12345", http.StatusOK},
		{"8.8.8.8:12345", http.StatusForbidden},
	}

	for _, tt := range tests {
		handler := LoopbackGuard()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		req := httptest.NewRequest(http.MethodPost, "/export", nil)
		req.RemoteAddr = tt.remote
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != tt.want {
			t.Fatalf("remote %s: status = %d, want %d", tt.remote, rr.Code, tt.want)
		}
		if tt.want == http.StatusForbidden {
			if body := decodeJSONBody(t, rr); body["code"] != "FORBIDDEN" {
				t.Errorf("remote %s: code = %v, want FORBIDDEN", tt.remote, body["code"])
			}
		}
	}
}

func TestExportRoute_RejectsRemoteClient(t *testing.T) {
	router := NewRouter(testConfig(testEditor(t, nil)))

	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader(`{"format":"edl","output_dir":"/tmp"}`))
	req.RemoteAddr = "10.1.2.3:4444"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestHealthRoute_CORS(t *testing.T) {
	router := NewRouter(testConfig(testEditor(t, nil)))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("ACAO = %q", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(RequestIDKey).(string)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Heimdex-Request-Id", "caller-42")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if seen != "caller-42" || rr.Header().Get("X-Request-ID") != "caller-42" {
		t.Fatalf("request id = %q header = %q, want caller-42", seen, rr.Header().Get("X-Request-ID"))
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Heimdex-Request-Id", strings.Repeat("x", 65))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if len(seen) != 8 {
		t.Fatalf("request id for oversized header = %q, want a generated 8 character id", seen)
	}

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if len(seen) != 8 {
		t.Fatalf("generated request id = %q, want 8 characters", seen)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := RecoveryMiddleware(testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if body := decodeJSONBody(t, rr); body["code"] != "INTERNAL_ERROR" {
		t.Fatalf("body = %v", body)
	}
}
