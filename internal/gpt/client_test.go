package gpt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/subba5076/Pizza-Delivery-agent/internal/domain"
	"github.com/subba5076/Pizza-Delivery-agent/internal/logger"
)

func testLogger() *logger.Logger { return logger.New(logger.LevelOff, nil) }

func TestClientChatAzureHeader(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") != "secret" {
			t.Errorf("api-key header = %q", r.Header.Get("api-key"))
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("unexpected Authorization header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Ciao!"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", testLogger(), WithMaxTokens(42), WithTemperature(0.2))
	reply, err := c.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "Ciao!" {
		t.Errorf("reply = %q", reply)
	}
	if got.MaxTokens != 42 || got.Temperature != 0.2 {
		t.Errorf("payload options not applied: %+v", got)
	}
	if got.Model != "" {
		t.Errorf("model should be omitted for azure, got %q", got.Model)
	}
}

func TestClientChatBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		var p chatRequest
		json.NewDecoder(r.Body).Decode(&p)
		if p.Model != "gpt-4o-mini" {
			t.Errorf("model = %q", p.Model)
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k", testLogger(), WithBearerAuth(), WithModel("gpt-4o-mini"))
	if _, err := c.Chat(context.Background(), nil); err != nil {
		t.Fatalf("Chat: %v", err)
	}
}

func TestClientChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		want    string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, true, ""},
		{"unauthorized", http.StatusUnauthorized, `nope`, true, ""},
		{"no choices", http.StatusOK, `{"choices":[]}`, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			reply, err := NewClient(srv.URL, "k", testLogger()).Chat(context.Background(), nil)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrGeneratorUnavailable) {
					t.Fatalf("err = %v, want ErrGeneratorUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if reply != tt.want {
				t.Errorf("reply = %q, want %q", reply, tt.want)
			}
		})
	}
}

func TestClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "k", testLogger()).Chat(context.Background(), nil)
	if !errors.Is(err, domain.ErrGeneratorUnavailable) {
		t.Fatalf("err = %v, want ErrGeneratorUnavailable", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate(strings.Repeat("a", 20), 10); got != "aaaaaaa..." {
		t.Errorf("truncate long = %q", got)
	}
}
