package telegram

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-telegram/bot"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{
		BaseURL:   srv.URL,
		Token:     "123:abc",
		ChatID:    "-100500",
		ParseMode: "HTML",
		Timeout:   2 * time.Second,
	})
}

func TestSendMessage(t *testing.T) {
	var chatID, text, parseMode string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot123:abc/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		chatID, text, parseMode = r.FormValue("chat_id"), r.FormValue("text"), r.FormValue("parse_mode")
		io.WriteString(w, `{"ok":true,"result":{"message_id":77}}`)
	})

	id, err := c.SendMessage(context.Background(), "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if id != 77 {
		t.Fatalf("want message id 77, got %d", id)
	}
	if chatID != "-100500" || text != "hello" || parseMode != "HTML" {
		t.Fatalf("unexpected payload chat_id=%q text=%q parse_mode=%q", chatID, text, parseMode)
	}
}

func TestSendMessageAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	})

	_, err := c.SendMessage(context.Background(), "hello")
	if !errors.Is(err, bot.ErrorBadRequest) {
		t.Fatalf("want ErrorBadRequest, got %v", err)
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("description missing from %v", err)
	}
}

func TestSendMessageNonJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	})

	if _, err := c.SendMessage(context.Background(), "hello"); err == nil {
		t.Fatal("want an error for a non-JSON reply")
	}
}

func TestSendMessageTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewClient(Options{BaseURL: srv.URL, Token: "123:abc", ChatID: "1", Timeout: 50 * time.Millisecond})
	_, err := c.SendMessage(context.Background(), "hello")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
	if strings.Contains(err.Error(), "123:abc") {
		t.Fatalf("error leaks bot token: %v", err)
	}
}

func TestSendNotConfigured(t *testing.T) {
	for _, opts := range []Options{{Token: "123:abc"}, {ChatID: "1"}, {Token: "  ", ChatID: "1"}} {
		c := NewClient(opts)
		if c.Configured() {
			t.Errorf("%+v: should not be configured", opts)
		}
		if _, err := c.SendMessage(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("want ErrNotConfigured, got %v", err)
		}
		if _, err := c.SendDocument(context.Background(), Document{}); !errors.Is(err, ErrNotConfigured) {
			t.Fatalf("want ErrNotConfigured, got %v", err)
		}
	}
}

func TestSendDocument(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot123:abc/sendDocument" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			return
		}
		if v := r.FormValue("chat_id"); v != "-100500" {
			t.Errorf("chat_id = %q", v)
		}
		if v := r.FormValue("caption"); v != "📎 caption" {
			t.Errorf("caption = %q", v)
		}
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Errorf("document part: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != `scan "1".pdf` || string(data) != "%PDF-1.4" {
			t.Errorf("unexpected file %q %q", header.Filename, data)
		}
		io.WriteString(w, `{"ok":true,"result":{"message_id":78}}`)
	})

	id, err := c.SendDocument(context.Background(), Document{
		FileName:    `scan "1".pdf`,
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.4"),
		Caption:     "📎 caption",
	})
	if err != nil {
		t.Fatalf("send document: %v", err)
	}
	if id != 78 {
		t.Fatalf("want message id 78, got %d", id)
	}
}

func TestDocumentName(t *testing.T) {
	tests := []struct {
		doc  Document
		want string
	}{
		{Document{FileName: "scan.pdf", ContentType: "image/png"}, "scan.pdf"},
		{Document{FileName: "scan", ContentType: "application/pdf"}, "scan.pdf"},
		{Document{FileName: "photo", ContentType: "image/jpeg"}, "photo.jpg"},
		{Document{FileName: "notes"}, "notes"},
		{Document{ContentType: "image/png"}, "file.png"},
	}
	for _, tt := range tests {
		if got := documentName(tt.doc); got != tt.want {
			t.Errorf("documentName(%+v) = %q, want %q", tt.doc, got, tt.want)
		}
	}
}
