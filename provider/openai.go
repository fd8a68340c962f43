package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/ZaguanLabs/gointl"
	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements AIProvider using OpenAI's chat completions API,
// or any server that speaks it.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string  // OpenAI API key
	Model       string  // Model to use (default: "gpt-4o-mini")
	Temperature float32 // Temperature for generation (default: 0.2)
	BaseURL     string  // Custom base URL (optional)
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}
}

// Translate translates a batch of UI strings.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: p.buildUserMessage(req)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &gointl.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &gointl.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return p.parseResponse(resp.Choices[0].Message.Content, len(req.Texts))
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = "en"
	}

	sourceName := gointl.GetLanguageName(sourceLang)
	targetName := gointl.GetLanguageName(req.TargetLang)

	contextText := "The strings belong to the user interface of a software product."
	if req.Context != "" {
		contextText = fmt.Sprintf("The strings belong to the user interface of: %s.", req.Context)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `# Role
You localize user interface strings from %s to %s as a native speaker would write them.

# Context
%s

# Register
%s

# Rules
- Keep each string about as long as the source; labels and buttons must stay short.
- Placeholders look like {name} or { name }. Copy every placeholder unchanged, never translate, add or drop one.
- Keep HTML tags, URLs and email addresses unchanged.
- Preserve leading and trailing whitespace and line breaks.
- Each item may carry its translation key (e.g. "checkout.pay_button"). Use it only to understand where the string appears.`,
		sourceName, targetName, contextText, gointl.GetStyleDescription(req.Style))

	if hint := gointl.GetLocaleClarification(req.TargetLang); hint != "" {
		fmt.Fprintf(&b, "\n- %s", hint)
	}

	if len(req.Glossary) > 0 {
		b.WriteString("\n\n# Glossary\nUse these translations for the following phrases:")
		phrases := make([]string, 0, len(req.Glossary))
		for phrase := range req.Glossary {
			phrases = append(phrases, phrase)
		}
		sort.Strings(phrases)
		for _, phrase := range phrases {
			fmt.Fprintf(&b, "\n- %q → %s", phrase, req.Glossary[phrase])
		}
	}

	if len(req.ExcludedTerms) > 0 {
		b.WriteString("\n\n# Exclusions\nKeep these terms exactly as written:\n- ")
		b.WriteString(strings.Join(req.ExcludedTerms, "\n- "))
	}

	b.WriteString(`

# Format
Return a JSON object with a single key "translations" holding an array of strings in the same order as the input.
Example: { "translations": ["first", "second"] }`)

	return b.String()
}

type promptItem struct {
	Key  string `json:"key,omitempty"`
	Text string `json:"text"`
}

func (p *OpenAIProvider) buildUserMessage(req TranslateRequest) string {
	hasKeys := false
	for _, key := range req.TextContexts {
		if key != "" {
			hasKeys = true
			break
		}
	}

	if !hasKeys {
		data, _ := json.Marshal(req.Texts)
		return string(data)
	}

	items := make([]promptItem, len(req.Texts))
	for i, text := range req.Texts {
		items[i].Text = text
		if i < len(req.TextContexts) {
			items[i].Key = req.TextContexts[i]
		}
	}

	data, _ := json.Marshal(map[string][]promptItem{"items": items})
	return string(data)
}

func (p *OpenAIProvider) parseResponse(content string, expectedCount int) ([]string, error) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &object); err == nil {
		var translations []string
		if err := json.Unmarshal(object["translations"], &translations); err == nil {
			return checkCount(translations, expectedCount)
		}

		// Some models pick their own key
		keys := make([]string, 0, len(object))
		for key := range object {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := json.Unmarshal(object[key], &translations); err == nil {
				return checkCount(translations, expectedCount)
			}
		}
	}

	var direct []string
	if err := json.Unmarshal([]byte(content), &direct); err == nil {
		return checkCount(direct, expectedCount)
	}

	return nil, &gointl.ProviderError{
		Message:   "invalid response format from OpenAI",
		Retryable: false,
	}
}

func checkCount(result []string, expectedCount int) ([]string, error) {
	if len(result) != expectedCount {
		return nil, &gointl.CountMismatchError{
			Expected: expectedCount,
			Got:      len(result),
		}
	}
	return result, nil
}

// isRetryableError reports whether an API failure is worth another attempt:
// rate limiting, server errors and transport failures are; auth and validation errors are not.
func isRetryableError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	// No HTTP response at all: connection reset, DNS and the like
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// Verify OpenAIProvider implements AIProvider
var _ AIProvider = (*OpenAIProvider)(nil)
