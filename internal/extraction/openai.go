package extraction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	openai "github.com/sashabaranov/go-openai"

	"github.com/adurasov/nutricode/internal/model"
)

// conversationState tracks the bounded tool-calling loop. The loop always
// terminates: either the service returns a final payload or the round
// budget runs out.
type conversationState int

const (
	awaitingExtraction conversationState = iota
	awaitingToolResult
	conversationComplete
)

const lookupToolName = "lookup_ingredient"

// lookupToolParams is the function-calling parameter schema for the local
// ingredient lookup tool.
const lookupToolParams = `{
  "type": "object",
  "properties": {
    "ingredient_name": {
      "type": "string",
      "description": "The ingredient name to look up, e.g. 'echinacea' or 'vitamin c'. Handles typos and word-order variations."
    }
  },
  "required": ["ingredient_name"]
}`

// OpenAIProvider implements Provider on the OpenAI chat completions API
// with structured outputs and local function calling.
type OpenAIProvider struct {
	client        *openai.Client
	cfg           model.ExtractionConfig
	lookup        IngredientLookup
	maxToolRounds int

	// Identical titles recur across feeds; responses are cached so a
	// resumed run does not pay for them twice.
	cache *gocache.Cache
}

// NewOpenAIProvider creates the OpenAI-backed extraction provider.
func NewOpenAIProvider(cfg model.ExtractionConfig, lookup IngredientLookup) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	rounds := cfg.MaxToolRounds
	if rounds <= 0 {
		rounds = 8
	}

	return &OpenAIProvider{
		client:        openai.NewClientWithConfig(clientConfig),
		cfg:           cfg,
		lookup:        lookup,
		maxToolRounds: rounds,
		cache:         gocache.New(time.Hour, 2*time.Hour),
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return "openai" }

// IsAvailable checks the API key by listing models.
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Extract runs one extraction conversation, executing requested
// ingredient lookups locally between rounds.
func (p *OpenAIProvider) Extract(ctx context.Context, req Request) (*model.Extraction, error) {
	key := cacheKey(req)
	if cached, ok := p.cache.Get(key); ok {
		ext := cached.(model.Extraction)
		return &ext, nil
	}

	timeout := time.Duration(p.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{
			Role:    openai.ChatMessageRoleSystem,
			Content: "You are a supplement classification expert. Extract structured attributes from product titles. Only extract information present in the title. Use the lookup_ingredient tool for every ingredient you identify.",
		},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: buildPrompt(req),
		},
	}

	state := awaitingExtraction
	var final openai.ChatCompletionMessage

	for round := 0; state != conversationComplete; round++ {
		if round > p.maxToolRounds {
			return nil, permanent("tool loop", fmt.Errorf("exceeded %d tool rounds", p.maxToolRounds))
		}

		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    p.modelName(),
			Messages: messages,
			Tools:    []openai.Tool{lookupTool()},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:   "supplement_attributes",
					Schema: json.RawMessage(responseSchema),
					Strict: true,
				},
			},
		})
		if err != nil {
			return nil, classifyAPIError(err)
		}
		if len(resp.Choices) == 0 {
			return nil, retryable("chat completion", fmt.Errorf("empty choices"))
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			state = conversationComplete
			final = msg
			continue
		}

		state = awaitingToolResult
		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			messages = append(messages, p.executeTool(req.Title, call))
		}
		state = awaitingExtraction
	}

	ext, err := parseResponse([]byte(strings.TrimSpace(final.Content)))
	if err != nil {
		return nil, err
	}

	p.cache.Set(key, *ext, gocache.DefaultExpiration)
	return ext, nil
}

// executeTool runs one requested lookup locally and wraps the result as a
// tool message. Lookups are pure reads; a bad argument is reported back to
// the service instead of failing the record.
func (p *OpenAIProvider) executeTool(title string, call openai.ToolCall) openai.ChatCompletionMessage {
	reply := func(payload any) openai.ChatCompletionMessage {
		content, err := json.Marshal(payload)
		if err != nil {
			content = []byte(`{"error":"marshal tool result"}`)
		}
		return openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    string(content),
			ToolCallID: call.ID,
		}
	}

	if call.Function.Name != lookupToolName {
		return reply(map[string]string{"error": "unknown tool: " + call.Function.Name})
	}

	var args struct {
		IngredientName string `json:"ingredient_name"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil || args.IngredientName == "" {
		return reply(map[string]string{"error": "invalid arguments for lookup_ingredient"})
	}

	resolved := p.lookup.Resolve(title, model.IngredientMention{RawName: args.IngredientName})
	return reply(map[string]any{
		"found":          resolved.Found(),
		"ingredient":     resolved.CanonicalName,
		"category":       resolved.Category,
		"subcategory":    resolved.Subcategory,
		"match_strategy": resolved.Strategy,
		"confidence":     resolved.Confidence,
	})
}

func (p *OpenAIProvider) modelName() string {
	if p.cfg.Model != "" {
		return p.cfg.Model
	}
	return openai.GPT4oMini
}

func lookupTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        lookupToolName,
			Description: "Look up an ingredient in the reference database to find its canonical name, category and subcategory.",
			Parameters:  json.RawMessage(lookupToolParams),
		},
	}
}

func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Extract supplement attributes (age group, gender, form, organic, count, unit, size, potency) and the ordered list of ingredient mentions with their character positions from this product.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", req.Title)
	if req.Brand != "" {
		fmt.Fprintf(&b, "Brand: %s\n", req.Brand)
	}
	if req.RawCategory != "" {
		fmt.Fprintf(&b, "Listed category: %s\n", req.RawCategory)
	}
	return b.String()
}

// classifyAPIError sorts transport failures into retryable and permanent.
// Rate limits, timeouts and server errors retry; auth failures do not.
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return retryable("rate limit", err)
		case apiErr.HTTPStatusCode >= 500:
			return retryable("server error", err)
		case apiErr.HTTPStatusCode == http.StatusUnauthorized, apiErr.HTTPStatusCode == http.StatusForbidden:
			return permanent("auth", err)
		}
		return permanent("chat completion", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return retryable("timeout", err)
	}
	// Connection-level failures without a status are treated as transient.
	return retryable("transport", err)
}

func cacheKey(req Request) string {
	hash := sha256.Sum256([]byte(req.Title + "\x00" + req.Brand))
	return "extract:v1:" + hex.EncodeToString(hash[:])
}
