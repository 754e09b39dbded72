package report

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/wonny/marketsnap/internal/contracts"
	"github.com/wonny/marketsnap/pkg/config"
	"github.com/wonny/marketsnap/pkg/logger"
)

const systemPrompt = `You are a financial analyst writing a concise markdown
briefing about one company over a short analysis window.

Rules:
- Use ONLY the JSON snapshot you are given. Never invent numbers.
- Lead with the company's cumulative return and how it compares to its
  sector and market benchmarks.
- Percentages: multiply raw ratios by 100 and round to two decimals.
- For every entry in missing_sources, state explicitly that the
  corresponding comparison or section is unavailable. Never guess at
  missing data.
- Mention interpolated points only if more than a third of a series is
  interpolated.
- Output plain markdown, no code fences around the whole document.`

// GeminiGenerator renders snapshot briefings through the Gemini API
type GeminiGenerator struct {
	apiKey string
	model  string
	logger *logger.Logger
}

var _ contracts.ReportGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a generator from config. The API key is
// validated lazily so offline runs can still construct the pipeline.
func NewGeminiGenerator(cfg *config.Config, log *logger.Logger) *GeminiGenerator {
	model := cfg.Gemini.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiGenerator{
		apiKey: cfg.Gemini.APIKey,
		model:  model,
		logger: log.WithField("module", "report"),
	}
}

// Generate renders the markdown narrative for a snapshot
func (g *GeminiGenerator) Generate(ctx context.Context, snapshot *contracts.Snapshot) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini api key is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create genai client: %w", err)
	}

	prompt, err := BuildPrompt(snapshot)
	if err != nil {
		return "", err
	}

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0)),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		},
	}

	result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned an empty report for run %s", snapshot.RunID)
	}

	g.logger.WithFields(map[string]interface{}{
		"run_id": snapshot.RunID,
		"ticker": snapshot.Window.Ticker,
		"chars":  len(text),
	}).Info("Generated snapshot report")

	return text, nil
}
