package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/heimdex/heimdex-editor/internal/timeline"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestHTTPClient_Summary(t *testing.T) {
	var receivedAuth string
	var received SummaryRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/summary" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if r.Header.Get("X-Heimdex-Request-Id") == "" {
			t.Error("missing request id header")
		}
		receivedAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&received)

		json.NewEncoder(w).Encode(SummaryResponse{Summary: "zoom in on the speaker"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-token", 5*time.Second, testLogger())
	resp, err := client.Summary(context.Background(), SummaryRequest{Input: "zoom speaker"})
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if resp.Summary != "zoom in on the speaker" {
		t.Fatalf("summary = %q", resp.Summary)
	}
	if receivedAuth != "Bearer test-token" {
		t.Fatalf("auth header = %q", receivedAuth)
	}
	if received.Input != "zoom speaker" {
		t.Fatalf("input = %q", received.Input)
	}
}

func TestHTTPClient_Suggestions(t *testing.T) {
	var received SuggestionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/suggestions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		json.NewEncoder(w).Encode(SuggestionResponse{
			RequestParameters: ResponseParameters{EditOperation: "zoom"},
			Edits:             []Edit{{Start: 1, Finish: 3, Offset: 1}},
		})
	}))
	defer server.Close()

	p := timeline.NewProject(timeline.DefaultMetadata())
	p.SetEditOperation(0, timeline.KindText)
	p.SetTextCommand(0, "add a title")
	p.AddActiveEdit(0, 0, 2)
	req, ok := BuildRequest(p, 0)
	if !ok {
		t.Fatal("BuildRequest() ok = false")
	}

	client := NewHTTPClient(server.URL, "", 5*time.Second, testLogger())
	resp, err := client.Suggestions(context.Background(), req)
	if err != nil {
		t.Fatalf("Suggestions() error = %v", err)
	}
	if resp.RequestParameters.EditOperation != "zoom" || len(resp.Edits) != 1 {
		t.Fatalf("response = %+v", resp)
	}
	if received.RequestParameters.Text != "add a title" || !received.RequestParameters.HasText {
		t.Fatalf("request parameters = %+v", received.RequestParameters)
	}
	if len(received.Edits) != 1 || received.Edits[0].Finish != 2 {
		t.Fatalf("edits = %+v", received.Edits)
	}
	if len(received.EditOperations) != 7 {
		t.Fatalf("edit operations = %v", received.EditOperations)
	}
	if got := received.EditParameterOptions["type"]; !reflect.DeepEqual(got, []string{"rectangle", "circle", "star"}) {
		t.Fatalf("editParameterOptions[type] = %v", got)
	}
	if len(received.EditParameterOptions) != 4 {
		t.Fatalf("editParameterOptions = %v", received.EditParameterOptions)
	}
}

func TestHTTPClient_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", 5*time.Second, testLogger())
	_, err := client.Summary(context.Background(), SummaryRequest{Input: "x"})

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %T: %v", err, err)
	}
	if reqErr.StatusCode != http.StatusBadGateway || !reqErr.IsRetryable() {
		t.Fatalf("error = %+v", reqErr)
	}
}

func TestHTTPClient_ClientErrorNotRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "bad", 5*time.Second, testLogger())
	_, err := client.Suggestions(context.Background(), SuggestionRequest{})

	var reqErr *RequestError
	if !errors.As(err, &reqErr) || reqErr.IsRetryable() {
		t.Fatalf("expected permanent RequestError, got %v", err)
	}
}

func TestHTTPClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", 20*time.Millisecond, testLogger())
	if _, err := client.Summary(context.Background(), SummaryRequest{}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestEditPatch(t *testing.T) {
	e := Edit{Start: 2, Finish: 5, Offset: 2, Params: map[string]any{"content": "Hello"}}

	p := timeline.NewProject(timeline.DefaultMetadata())
	in := p.CurrentIntent()
	scenes := p.SetSuggestions(in.ID, timeline.KindText, []timeline.Patch{e.Patch()})

	s := scenes[0]
	if s.Start != 2 || s.Finish != 5 || s.Width != 200 || s.Params["content"] != "Hello" {
		t.Fatalf("scene = %+v", s)
	}
	if back := EditFromScene(s); back.Finish != 5 || back.Params["content"] != "Hello" {
		t.Fatalf("EditFromScene() = %+v", back)
	}
}

func TestStubClient(t *testing.T) {
	c := NewStubClient(testLogger())

	sum, err := c.Summary(context.Background(), SummaryRequest{Input: "cut silences"})
	if err != nil || sum.Summary != "cut silences" {
		t.Fatalf("Summary() = %+v, %v", sum, err)
	}
	resp, err := c.Suggestions(context.Background(), SuggestionRequest{})
	if err != nil || len(resp.Edits) != 0 {
		t.Fatalf("Suggestions() = %+v, %v", resp, err)
	}
}
