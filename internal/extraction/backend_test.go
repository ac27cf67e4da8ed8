package extraction_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/jonmartinstorm/reposjekk/internal/extraction"
	"github.com/jonmartinstorm/reposjekk/internal/models"
	"google.golang.org/genai"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func readmeRequest() extraction.Request {
	schema, err := extraction.SchemaFor[models.ReadmeAnalysis]()
	Expect(err).NotTo(HaveOccurred())
	return extraction.Request{
		Name:        "readme_analysis",
		Description: "Analyse av README",
		System:      "sys",
		User:        "# demo",
		Schema:      schema,
	}
}

var _ = Describe("AnthropicBackend", func() {
	var (
		srv  *httptest.Server
		body map[string]any
		resp string
	)

	newBackend := func() *extraction.AnthropicBackend {
		return extraction.NewAnthropicBackend("test-key", "claude-haiku-4-5", 1024,
			option.WithBaseURL(srv.URL),
			option.WithMaxRetries(0))
	}

	BeforeEach(func() {
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, resp)
		}))
		DeferCleanup(srv.Close)
	})

	It("sender verktøy med skjema og leser verktøykallet", func() {
		resp = `{"id":"msg_1","type":"message","role":"assistant","model":"claude-haiku-4-5",
			"content":[{"type":"tool_use","id":"toolu_1","name":"readme_analysis","input":{"project_name":"demo","setup_completeness":2,"readme_quality":3}}],
			"stop_reason":"tool_use","usage":{"input_tokens":12,"output_tokens":7}}`

		out, err := newBackend().Extract(context.Background(), readmeRequest())
		Expect(err).NotTo(HaveOccurred())
		Expect(out.InputTokens).To(Equal(int64(12)))
		Expect(out.OutputTokens).To(Equal(int64(7)))
		Expect(string(out.Payload)).To(ContainSubstring(`"project_name":"demo"`))

		Expect(body["tool_choice"]).To(HaveKeyWithValue("name", "readme_analysis"))
		tools := body["tools"].([]any)
		Expect(tools).To(HaveLen(1))
		schema := tools[0].(map[string]any)["input_schema"].(map[string]any)
		Expect(schema["properties"]).To(HaveKey("setup_steps"))
	})

	It("rapporterer refusal", func() {
		resp = `{"id":"msg_2","type":"message","role":"assistant","model":"claude-haiku-4-5",
			"content":[{"type":"text","text":"Kan ikke hjelpe med dette"}],
			"stop_reason":"refusal","usage":{"input_tokens":5,"output_tokens":1}}`

		out, err := newBackend().Extract(context.Background(), readmeRequest())
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Refusal).To(Equal("Kan ikke hjelpe med dette"))
		Expect(out.Payload).To(BeEmpty())
	})

	It("feiler når verktøykallet mangler", func() {
		resp = `{"id":"msg_3","type":"message","role":"assistant","model":"claude-haiku-4-5",
			"content":[{"type":"text","text":"hei"}],
			"stop_reason":"end_turn","usage":{"input_tokens":5,"output_tokens":1}}`

		_, err := newBackend().Extract(context.Background(), readmeRequest())
		Expect(err).To(MatchError(ContainSubstring("manglet verktøykall")))
	})
})

var _ = Describe("GeminiBackend", func() {
	var (
		srv  *httptest.Server
		body map[string]any
		resp string
	)

	newBackend := func() *extraction.GeminiBackend {
		b, err := extraction.NewGeminiBackend(context.Background(), "test-key", "gemini-2.5-flash",
			genai.HTTPOptions{BaseURL: srv.URL + "/"})
		Expect(err).NotTo(HaveOccurred())
		return b
	}

	BeforeEach(func() {
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, resp)
		}))
		DeferCleanup(srv.Close)
	})

	It("ber om JSON med skjema og leser teksten", func() {
		resp = `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"project_name\":\"demo\"}"}]},"finishReason":"STOP"}],
			"usageMetadata":{"promptTokenCount":20,"candidatesTokenCount":4}}`

		out, err := newBackend().Extract(context.Background(), readmeRequest())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out.Payload)).To(Equal(`{"project_name":"demo"}`))
		Expect(out.InputTokens).To(Equal(int64(20)))
		Expect(out.OutputTokens).To(Equal(int64(4)))

		gen := body["generationConfig"].(map[string]any)
		Expect(gen["responseMimeType"]).To(Equal("application/json"))
		Expect(gen["responseSchema"]).To(HaveKey("properties"))
	})

	It("tolker blokkert prompt som refusal", func() {
		resp = `{"promptFeedback":{"blockReason":"SAFETY"},"usageMetadata":{"promptTokenCount":3}}`

		out, err := newBackend().Extract(context.Background(), readmeRequest())
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Refusal).To(ContainSubstring("SAFETY"))
	})

	It("tolker sikkerhetsstopp som refusal", func() {
		resp = `{"candidates":[{"finishReason":"SAFETY"}]}`

		out, err := newBackend().Extract(context.Background(), readmeRequest())
		Expect(err).NotTo(HaveOccurred())
		Expect(out.Refusal).To(ContainSubstring("SAFETY"))
	})
})
