package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GeminiBackend bruker ResponseSchema slik at svaret kommer som ren JSON.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

func NewGeminiBackend(ctx context.Context, apiKey, model string, httpOptions genai.HTTPOptions) (*GeminiBackend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOptions,
	})
	if err != nil {
		return nil, fmt.Errorf("kunne ikke opprette Gemini-klient: %w", err)
	}
	return &GeminiBackend{client: client, model: model}, nil
}

func (b *GeminiBackend) Extract(ctx context.Context, req Request) (Response, error) {
	schema, err := toGenaiSchema(req.Schema)
	if err != nil {
		return Response{}, err
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.System, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(req.User), cfg)
	if err != nil {
		return Response{}, fmt.Errorf("kall mot Gemini feilet: %w", err)
	}

	var out Response
	if resp.UsageMetadata != nil {
		out.InputTokens = int64(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int64(resp.UsageMetadata.CandidatesTokenCount)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		out.Refusal = fmt.Sprintf("blokkert: %s", resp.PromptFeedback.BlockReason)
		return out, nil
	}
	if len(resp.Candidates) == 0 {
		return out, errors.New("svaret fra Gemini manglet kandidater")
	}
	switch reason := resp.Candidates[0].FinishReason; reason {
	case genai.FinishReasonSafety, genai.FinishReasonProhibitedContent, genai.FinishReasonBlocklist, genai.FinishReasonRecitation:
		out.Refusal = fmt.Sprintf("avsluttet: %s", reason)
		return out, nil
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return out, ErrEmptyPayload
	}
	out.Payload = []byte(text)
	return out, nil
}

// toGenaiSchema oversetter et JSON-skjema til genai sitt format. Ukjente nøkler ignoreres.
func toGenaiSchema(m map[string]any) (*genai.Schema, error) {
	if len(m) == 0 {
		return nil, nil
	}

	schema := &genai.Schema{}
	if t, ok := m["type"].(string); ok {
		switch strings.ToLower(t) {
		case "object":
			schema.Type = genai.TypeObject
		case "array":
			schema.Type = genai.TypeArray
		case "string":
			schema.Type = genai.TypeString
		case "number":
			schema.Type = genai.TypeNumber
		case "integer":
			schema.Type = genai.TypeInteger
		case "boolean":
			schema.Type = genai.TypeBoolean
		default:
			return nil, fmt.Errorf("ukjent skjematype %q", t)
		}
	}

	if desc, ok := m["description"].(string); ok {
		schema.Description = desc
	}
	schema.Required = stringList(m["required"])
	if v, ok := m["minimum"].(float64); ok {
		schema.Minimum = &v
	}
	if v, ok := m["maximum"].(float64); ok {
		schema.Maximum = &v
	}

	if items, ok := m["items"].(map[string]any); ok {
		s, err := toGenaiSchema(items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		schema.Items = s
	}

	if props, ok := m["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, raw := range props {
			prop, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			s, err := toGenaiSchema(prop)
			if err != nil {
				return nil, fmt.Errorf("egenskap %s: %w", name, err)
			}
			schema.Properties[name] = s
		}
	}
	return schema, nil
}
