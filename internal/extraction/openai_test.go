package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/adurasov/nutricode/internal/model"
)

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"rate limit", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"server error", &openai.APIError{HTTPStatusCode: http.StatusInternalServerError}, true},
		{"bad gateway", &openai.APIError{HTTPStatusCode: http.StatusBadGateway}, true},
		{"unauthorized", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, false},
		{"forbidden", &openai.APIError{HTTPStatusCode: http.StatusForbidden}, false},
		{"bad request", &openai.APIError{HTTPStatusCode: http.StatusBadRequest}, false},
		{"deadline", context.DeadlineExceeded, true},
		{"connection reset", errors.New("read tcp: connection reset"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyAPIError(tt.err)
			if IsRetryable(got) != tt.retryable {
				t.Errorf("retryable = %v, want %v (%v)", IsRetryable(got), tt.retryable, got)
			}
		})
	}
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(model.ExtractionConfig{}, nil)
	if err == nil {
		t.Error("expected error without API key")
	}
}

func TestNewProvider_Factory(t *testing.T) {
	if _, err := NewProvider(model.ExtractionConfig{Provider: ""}, nil); err == nil {
		t.Error("expected error for empty provider")
	}
	if _, err := NewProvider(model.ExtractionConfig{Provider: "carrier-pigeon"}, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
	p, err := NewProvider(model.ExtractionConfig{Provider: "openai", APIKey: "test"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("expected openai, got %q", p.Name())
	}
}

type staticLookup struct{}

func (staticLookup) Resolve(_ string, m model.IngredientMention) model.ResolvedIngredient {
	return model.ResolvedIngredient{
		Mention:       m,
		CanonicalName: "GLUCOSAMINE",
		Category:      "JOINT HEALTH",
		Subcategory:   "GLUCOSAMINE",
		Strategy:      model.MatchExact,
		Confidence:    1.0,
	}
}

func TestExecuteTool(t *testing.T) {
	p, err := NewOpenAIProvider(model.ExtractionConfig{APIKey: "test"}, staticLookup{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := openai.ToolCall{
		ID: "call-1",
		Function: openai.FunctionCall{
			Name:      lookupToolName,
			Arguments: `{"ingredient_name": "glucosamine"}`,
		},
	}
	msg := p.executeTool("Glucosamine 1500mg", call)

	if msg.Role != openai.ChatMessageRoleTool || msg.ToolCallID != "call-1" {
		t.Errorf("unexpected tool message envelope: %+v", msg)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(msg.Content), &payload); err != nil {
		t.Fatalf("tool reply is not JSON: %v", err)
	}
	if payload["ingredient"] != "GLUCOSAMINE" {
		t.Errorf("expected GLUCOSAMINE, got %v", payload["ingredient"])
	}
	if payload["found"] != true {
		t.Errorf("expected found=true, got %v", payload["found"])
	}
}

func TestExecuteTool_BadInput(t *testing.T) {
	p, err := NewOpenAIProvider(model.ExtractionConfig{APIKey: "test"}, staticLookup{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []openai.ToolCall{
		{ID: "c1", Function: openai.FunctionCall{Name: "unknown_tool", Arguments: `{}`}},
		{ID: "c2", Function: openai.FunctionCall{Name: lookupToolName, Arguments: `not json`}},
		{ID: "c3", Function: openai.FunctionCall{Name: lookupToolName, Arguments: `{"ingredient_name": ""}`}},
	}
	for _, call := range tests {
		msg := p.executeTool("title", call)
		if !strings.Contains(msg.Content, "error") {
			t.Errorf("call %s: expected error reply, got %q", call.ID, msg.Content)
		}
	}
}

func TestCacheKey_DistinguishesBrand(t *testing.T) {
	a := cacheKey(Request{Title: "Vitamin C", Brand: "Acme"})
	b := cacheKey(Request{Title: "Vitamin C", Brand: "Other"})
	c := cacheKey(Request{Title: "Vitamin C", Brand: "Acme"})
	if a == b {
		t.Error("different brands must key differently")
	}
	if a != c {
		t.Error("identical requests must share a key")
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt(Request{Title: "Vitamin C 500mg", Brand: "Acme", RawCategory: "vitamins"})
	for _, want := range []string{"Vitamin C 500mg", "Acme", "vitamins"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
