package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordedCall struct {
	Path string
	Body map[string]any
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, call recordedCall)) (*Client, *[]recordedCall) {
	t.Helper()

	var calls []recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&body)
		}
		call := recordedCall{Path: r.URL.Path, Body: body}
		calls = append(calls, call)
		handler(w, call)
	}))
	t.Cleanup(srv.Close)

	return NewWithBaseURL(srv.URL, "TEST-TOKEN"), &calls
}

func TestGetMe(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ recordedCall) {
		w.Write([]byte(`{"ok":true,"result":{"id":99,"first_name":"feedbot","username":"feed_bot"}}`))
	})

	me, err := c.GetMe(context.Background())
	if err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	if me.ID != 99 || me.Username != "feed_bot" {
		t.Errorf("me = %+v", me)
	}
	if got := (*calls)[0].Path; got != "/botTEST-TOKEN/getMe" {
		t.Errorf("path = %q, want token-scoped getMe", got)
	}
}

func TestGetUpdatesRequestShape(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ recordedCall) {
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":7,"message":{"message_id":1,"from":{"id":5},"chat":{"id":5,"type":"private"},"date":1756400000,"text":"/start"}}
		]}`))
	})

	updates, err := c.GetUpdates(context.Background(), 7, 30)
	if err != nil {
		t.Fatalf("GetUpdates: %v", err)
	}
	if len(updates) != 1 {
		t.Fatalf("len(updates) = %d, want 1", len(updates))
	}
	if updates[0].UpdateID != 7 || updates[0].Message.Text != "/start" {
		t.Errorf("update = %+v", updates[0])
	}

	body := (*calls)[0].Body
	if body["offset"] != float64(7) {
		t.Errorf("offset = %v, want 7", body["offset"])
	}
	if body["timeout"] != float64(30) {
		t.Errorf("timeout = %v, want 30", body["timeout"])
	}
}

func TestSendMessage(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ recordedCall) {
		w.Write([]byte(`{"ok":true,"result":{}}`))
	})

	if err := c.SendMessage(context.Background(), 42, "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	body := (*calls)[0].Body
	if body["chat_id"] != float64(42) {
		t.Errorf("chat_id = %v, want 42", body["chat_id"])
	}
	if body["text"] != "hello" {
		t.Errorf("text = %v", body["text"])
	}
}

func TestSendMessageRejectsOversized(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ recordedCall) {
		w.Write([]byte(`{"ok":true,"result":{}}`))
	})

	err := c.SendMessage(context.Background(), 42, strings.Repeat("a", MaxMessageLen+1))
	if err == nil {
		t.Fatal("expected error for oversized message")
	}
	if len(*calls) != 0 {
		t.Error("oversized message was sent to the API")
	}
}

func TestAPIErrorSurfaces(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ recordedCall) {
		w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked by the user"}`))
	})

	err := c.SendMessage(context.Background(), 42, "hello")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Code != 403 {
		t.Errorf("code = %d, want 403", apiErr.Code)
	}
	if !strings.Contains(apiErr.Error(), "blocked") {
		t.Errorf("error text = %q", apiErr.Error())
	}
}

func TestMessageCommand(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"/start", "start"},
		{"/start@feed_bot", "start"},
		{"/CANCEL", "cancel"},
		{"/retrieve now", "retrieve"},
		{"plain answer", ""},
		{"", ""},
	}
	for _, tt := range tests {
		m := &Message{Text: tt.text}
		if got := m.Command(); got != tt.want {
			t.Errorf("Command(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
