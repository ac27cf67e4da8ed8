package extraction

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicBackend tvinger modellen til å kalle ett verktøy hvis input er skjemaet vi ber om.
type AnthropicBackend struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropicBackend(apiKey, model string, maxTokens int64, opts ...option.RequestOption) *AnthropicBackend {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &AnthropicBackend{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (b *AnthropicBackend) Extract(ctx context.Context, req Request) (Response, error) {
	tool := anthropic.ToolParam{
		Name:        req.Name,
		Description: anthropic.String(req.Description),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: req.Schema["properties"],
			Required:   stringList(req.Schema["required"]),
		},
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: b.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: req.System}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
		Tools:      []anthropic.ToolUnionParam{{OfTool: &tool}},
		ToolChoice: anthropic.ToolChoiceParamOfTool(req.Name),
	}

	msg, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return Response{}, fmt.Errorf("kall mot Anthropic feilet: %w", err)
	}

	out := Response{
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}
	if msg.StopReason == "refusal" {
		out.Refusal = refusalText(msg)
		return out, nil
	}

	for _, block := range msg.Content {
		if block.Type == "tool_use" && block.Name == req.Name {
			out.Payload = block.Input
			return out, nil
		}
	}
	return out, fmt.Errorf("svaret fra Anthropic manglet verktøykall %q (stop_reason=%s)", req.Name, msg.StopReason)
}

func refusalText(msg *anthropic.Message) string {
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text
		}
	}
	return "refusal"
}
