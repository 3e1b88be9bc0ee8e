package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

var ctx = context.Background()

func TestFeedbackListRequest(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /feedback": `[{"id":"abcd1234-0000","anonymous_id":"aaa","answers":["4","fine"],"submitted_at":"2026-08-29T10:00:00Z"}]`,
	})

	resp, err := ts.client().get(ctx, "/feedback?limit=20")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	var records []struct {
		ID      string   `json:"id"`
		Answers []string `json:"answers"`
	}
	if err := decodeJSON(resp, &records); err != nil {
		t.Fatalf("decodeJSON: %v", err)
	}
	if len(records) != 1 || records[0].ID != "abcd1234-0000" {
		t.Errorf("records = %+v", records)
	}

	req := ts.requests[0]
	if req.Auth != "Bearer test-token" {
		t.Errorf("auth header = %q", req.Auth)
	}
	if req.Path != "/feedback?limit=20" {
		t.Errorf("path = %q", req.Path)
	}
}

func TestFeedbackExportStream(t *testing.T) {
	jsonl := `{"id":"a"}` + "\n" + `{"id":"b"}` + "\n"
	ts := newTestServer(t, map[string]string{
		"GET /feedback/export": jsonl,
	})

	resp, err := ts.client().get(ctx, "/feedback/export")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if buf.String() != jsonl {
		t.Errorf("export body = %q, want %q", buf.String(), jsonl)
	}
}

func TestDecodeJSONErrorBody(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.client().get(ctx, "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	var v any
	err = decodeJSON(resp, &v)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("err = %v, want status in message", err)
	}
}

func TestStatsDecoding(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /stats": `{"count":7}`,
	})

	resp, err := ts.client().get(ctx, "/stats")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	var stats map[string]int
	if err := decodeJSON(resp, &stats); err != nil {
		t.Fatalf("decodeJSON: %v", err)
	}
	if stats["count"] != 7 {
		t.Errorf("count = %d, want 7", stats["count"])
	}
}

func TestRootCommandRejectsUnknown(t *testing.T) {
	defer rootCmd.SetArgs(nil)

	rootCmd.SetArgs([]string{"no-such-command"})
	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected error for unknown command")
	}
}
