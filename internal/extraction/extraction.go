// Package extraction sender innhold til en språkmodell og får tilbake en typet, validert post.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/jonmartinstorm/reposjekk/internal/config"
	"golang.org/x/time/rate"
)

type Outcome int

const (
	Failed Outcome = iota
	Success
	Refused
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Refused:
		return "refused"
	default:
		return "failed"
	}
}

// Request er én strukturert forespørsel. Name blir verktøynavnet hos leverandører som bruker tool use.
type Request struct {
	Name        string
	Description string
	System      string
	User        string
	Schema      map[string]any
}

// Response er rå JSON fra modellen. Refusal er satt når modellen nektet.
type Response struct {
	Payload      json.RawMessage
	Refusal      string
	InputTokens  int64
	OutputTokens int64
}

type Backend interface {
	Extract(ctx context.Context, req Request) (Response, error)
}

// Result er utfallet av en ekstraksjon. Value er kun gyldig når Outcome er Success.
type Result[T any] struct {
	Outcome Outcome
	Value   T
	Refusal string
	Err     error
	Cost    float64
}

func (r Result[T]) OK() bool {
	return r.Outcome == Success
}

var ErrEmptyPayload = errors.New("tomt svar fra modellen")

type Client struct {
	backend   Backend
	model     string
	price     config.Price
	charLimit int
	limiter   *rate.Limiter
	validate  *validator.Validate
}

func NewClient(backend Backend, cfg config.Config) *Client {
	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(cfg.RequestsPerMinute) / 60)
	}
	return &Client{
		backend:   backend,
		model:     cfg.Model,
		price:     cfg.PriceFor(cfg.Model),
		charLimit: cfg.CharLimit,
		limiter:   rate.NewLimiter(limit, 1),
		validate:  validator.New(),
	}
}

func (c *Client) Model() string {
	return c.model
}

// Truncate kutter innhold til tegngrensen og logger en advarsel når det skjer.
func (c *Client) Truncate(label, content string) string {
	out, cut := Truncate(content, c.charLimit)
	if cut {
		slog.Warn("Innholdet overskrider tegngrensen og blir kuttet", "fil", label, "grense", c.charLimit)
	}
	return out
}

// Truncate teller tegn, ikke bytes.
func Truncate(content string, limit int) (string, bool) {
	if limit <= 0 {
		return content, false
	}
	n := 0
	for i := range content {
		if n == limit {
			return content[:i], true
		}
		n++
	}
	return content, false
}

// Cost er kostnaden i USD for antall tokens med modellens pris.
func (c *Client) Cost(inputTokens, outputTokens int64) float64 {
	return float64(inputTokens)*c.price.InputPerMillion/1e6 +
		float64(outputTokens)*c.price.OutputPerMillion/1e6
}

// Extract kjører forespørselen og tolker svaret som T. Feil gir alltid Failed med kostnad 0.
func Extract[T any](ctx context.Context, c *Client, label string, req Request) Result[T] {
	var res Result[T]

	if req.Schema == nil {
		schema, err := SchemaFor[T]()
		if err != nil {
			return failed[T](label, err)
		}
		req.Schema = schema
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return failed[T](label, err)
	}

	resp, err := c.backend.Extract(ctx, req)
	if err != nil {
		return failed[T](label, err)
	}

	if resp.Refusal != "" {
		slog.Info("Modellen nektet å analysere", "fil", label, "refusal", resp.Refusal)
		res.Outcome = Refused
		res.Refusal = resp.Refusal
		res.Cost = c.Cost(resp.InputTokens, resp.OutputTokens)
		return res
	}

	if len(resp.Payload) == 0 {
		return failed[T](label, ErrEmptyPayload)
	}
	if err := json.Unmarshal(resp.Payload, &res.Value); err != nil {
		return failed[T](label, fmt.Errorf("ugyldig JSON fra modellen: %w", err))
	}
	if err := c.validate.Struct(res.Value); err != nil {
		return failed[T](label, fmt.Errorf("svaret bryter skjemaet: %w", err))
	}

	res.Outcome = Success
	res.Cost = c.Cost(resp.InputTokens, resp.OutputTokens)
	slog.Debug("Ekstraksjon fullført", "fil", label,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"kostnad", res.Cost)
	return res
}

func failed[T any](label string, err error) Result[T] {
	slog.Error("Ekstraksjon feilet", "fil", label, "error", err)
	return Result[T]{Outcome: Failed, Err: err}
}
