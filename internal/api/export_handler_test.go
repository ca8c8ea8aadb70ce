package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/heimdex/heimdex-editor/internal/editor"
	exportpkg "github.com/heimdex/heimdex-editor/internal/export"
)

func newExportRequest(t *testing.T, req exportpkg.Request) *http.Request {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("json.Marshal error: %v", err)
	}
	httpReq := httptest.NewRequest(http.MethodPost, "/export", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.RemoteAddr = "127.0.0.1:41000"
	return httpReq
}

func exportTestEditor(t *testing.T) *editor.Service {
	t.Helper()
	svc := testEditor(t, nil)
	if _, err := svc.AddVideo(editor.VideoInput{Source: "/media/alpha.mp4", Duration: 8}); err != nil {
		t.Fatalf("AddVideo() error = %v", err)
	}
	return svc
}

func TestExport_EDLHappyPath(t *testing.T) {
	outDir := t.TempDir()
	cfg := testConfig(exportTestEditor(t))

	rr := httptest.NewRecorder()
	exportHandler(cfg).ServeHTTP(rr, newExportRequest(t, exportpkg.Request{
		Format:    "edl",
		OutputDir: outDir,
		Name:      "Project One",
		FrameRate: 30,
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body = %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp exportpkg.Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response unmarshal error: %v", err)
	}
	if resp.ClipCount != 1 || resp.Format != "edl" {
		t.Fatalf("response = %+v, want one edl clip", resp)
	}

	content, err := os.ReadFile(resp.OutputPath)
	if err != nil {
		t.Fatalf("failed reading output EDL: %v", err)
	}
	if !bytes.Contains(content, []byte("* MEDIA PATH:  /media/alpha.mp4")) {
		t.Fatalf("written EDL missing media path: %q", string(content))
	}
	if !bytes.Contains(content, []byte("TITLE: Project One")) {
		t.Fatalf("written EDL missing title: %q", string(content))
	}
}

func TestExport_YAMLDocument(t *testing.T) {
	outDir := t.TempDir()
	cfg := testConfig(exportTestEditor(t))

	rr := httptest.NewRecorder()
	exportHandler(cfg).ServeHTTP(rr, newExportRequest(t, exportpkg.Request{
		Format:    "yaml",
		OutputDir: outDir,
	}))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body = %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	var resp exportpkg.Response
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response unmarshal error: %v", err)
	}
	if !strings.HasSuffix(resp.OutputPath, "Untitled.yaml") {
		t.Fatalf("output path = %q, want the project title as file name", resp.OutputPath)
	}

	data, err := os.ReadFile(resp.OutputPath)
	if err != nil {
		t.Fatalf("failed reading output document: %v", err)
	}
	snap, err := exportpkg.UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("UnmarshalDocument() error = %v", err)
	}
	if len(snap.Videos) != 1 || snap.Videos[0].Source != "/media/alpha.mp4" {
		t.Fatalf("document videos = %+v", snap.Videos)
	}
}

func TestExport_EmptyProject(t *testing.T) {
	cfg := testConfig(testEditor(t, nil))

	rr := httptest.NewRecorder()
	exportHandler(cfg).ServeHTTP(rr, newExportRequest(t, exportpkg.Request{
		Format:    "edl",
		OutputDir: t.TempDir(),
	}))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusUnprocessableEntity)
	}
}

func TestExport_RequestErrors(t *testing.T) {
	tests := []struct {
		name string
		req  exportpkg.Request
	}{
		{"invalid format", exportpkg.Request{Format: "xml", OutputDir: "/tmp"}},
		{"missing output dir", exportpkg.Request{Format: "edl"}},
		{"relative output dir", exportpkg.Request{Format: "edl", OutputDir: "exports"}},
		{"path traversal", exportpkg.Request{Format: "edl", OutputDir: "/tmp/../etc"}},
	}
	cfg := testConfig(exportTestEditor(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			exportHandler(cfg).ServeHTTP(rr, newExportRequest(t, tt.req))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestExportRoute_PreflightAllowsPost(t *testing.T) {
	router := NewRouter(testConfig(testEditor(t, nil)))

	req := httptest.NewRequest(http.MethodOptions, "/export", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNoContent)
	}
	allowMethods := rr.Header().Get("Access-Control-Allow-Methods")
	if !strings.Contains(allowMethods, "POST") {
		t.Fatalf("Access-Control-Allow-Methods = %q, want to include POST", allowMethods)
	}
}
