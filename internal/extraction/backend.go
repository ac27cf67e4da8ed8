package extraction

import (
	"context"
	"fmt"

	"github.com/jonmartinstorm/reposjekk/internal/config"
	"google.golang.org/genai"
)

// NewBackend velger leverandør ut fra konfigurasjonen.
func NewBackend(ctx context.Context, cfg config.Config) (Backend, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicBackend(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens), nil
	case config.ProviderGemini:
		return NewGeminiBackend(ctx, cfg.GeminiAPIKey, cfg.Model, genai.HTTPOptions{})
	default:
		return nil, fmt.Errorf("ukjent provider %q", cfg.Provider)
	}
}
