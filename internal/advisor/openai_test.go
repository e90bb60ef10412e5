package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smartfinance/internal/core"
)

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

func fakeOpenAI(t *testing.T, content string, got *chatRequest) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		if got != nil {
			_ = json.Unmarshal(body, got)
		}
		w.Header().Set("Content-Type", "application/json")
		choices := "[]"
		if content != "" {
			b, _ := json.Marshal(content)
			choices = `[{"index":0,"message":{"role":"assistant","content":` + string(b) + `},"finish_reason":"stop"}]`
		}
		_, _ = io.WriteString(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":`+choices+`}`)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestOpenAIProviderChat(t *testing.T) {
	var req chatRequest
	ts := fakeOpenAI(t, "Ahorra $400 al mes.", &req)
	p, err := NewOpenAIProvider("sk-test", "", ts.URL+"/v1")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	c := NewContext(&core.Budget{Income: 3000, FixedExpenses: 1000}, []core.CategoryTotal{{Category: "Ocio", Total: 10}})
	got, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "¿Cuánto ahorro?"}}, c)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if got != "Ahorra $400 al mes." {
		t.Errorf("reply = %q", got)
	}
	if req.Model != DefaultModel {
		t.Errorf("model = %q", req.Model)
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != RoleSystem || req.Messages[1].Content != "¿Cuánto ahorro?" {
		t.Fatalf("messages = %+v", req.Messages)
	}
	sys := req.Messages[0].Content
	if !strings.HasPrefix(sys, "Eres un asesor financiero. Contexto: {") ||
		!strings.Contains(sys, `"income":3000`) || !strings.Contains(sys, `"category":"Ocio"`) {
		t.Errorf("system prompt = %q", sys)
	}
}

func TestOpenAIProviderEmptyChoice(t *testing.T) {
	ts := fakeOpenAI(t, "", nil)
	p, _ := NewOpenAIProvider("sk-test", "gpt-test", ts.URL+"/v1")
	got, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hola"}}, nil)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if got != noReply {
		t.Errorf("reply = %q, want %q", got, noReply)
	}
}

func TestOpenAIProviderHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"error":{"message":"boom","type":"server_error"}}`)
	}))
	defer ts.Close()

	p, _ := NewOpenAIProvider("sk-test", "", ts.URL+"/v1")
	if _, err := p.Chat(context.Background(), []Message{{Role: RoleUser, Content: "hola"}}, nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewProvider(t *testing.T) {
	if p, err := NewProvider(Config{}); err != nil {
		t.Fatalf("default: %v", err)
	} else if _, ok := p.(RuleProvider); !ok {
		t.Errorf("default provider = %T", p)
	}
	if _, err := NewProvider(Config{Kind: "openai"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("openai without key err = %v", err)
	}
	if p, err := NewProvider(Config{Kind: "OpenAI", OpenAIKey: "sk"}); err != nil {
		t.Errorf("openai: %v", err)
	} else if _, ok := p.(*OpenAIProvider); !ok {
		t.Errorf("provider = %T", p)
	}
	if _, err := NewProvider(Config{Kind: "claude"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}
