package augment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultPerplexityURL = "https://api.perplexity.ai/chat/completions"

// Queries containing any of these ask for information that documents
// and the static knowledge base cannot have.
var realTimeIndicators = []string{
	"latest", "recent", "current", "news", "today", "now", "update",
	"what happened", "breaking", "stock price", "weather", "score",
	"result", "when did", "who won",
}

// Perplexity calls the sonar chat-completions API for real-time web
// answers.
type Perplexity struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewPerplexity(apiKey, baseURL string) *Perplexity {
	if baseURL == "" {
		baseURL = defaultPerplexityURL
	}
	return &Perplexity{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   "sonar",
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *Perplexity) IsAvailable() bool {
	return strings.TrimSpace(p.apiKey) != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	MaxTokens           int           `json:"max_tokens"`
	Temperature         float64       `json:"temperature"`
	TopP                float64       `json:"top_p"`
	SearchRecencyFilter string        `json:"search_recency_filter"`
	Stream              bool          `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}

func (p *Perplexity) searchWeb(ctx context.Context, query string) (string, []string, error) {
	reqBody := chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: "Be precise and concise. Provide accurate, up-to-date information with clear explanations."},
			{Role: "user", Content: query},
		},
		MaxTokens:           500,
		Temperature:         0.2,
		TopP:                0.9,
		SearchRecencyFilter: "month",
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("web search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", nil, fmt.Errorf("web search status %d: %s", resp.StatusCode, body)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", nil, fmt.Errorf("decoding web search response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", nil, fmt.Errorf("web search returned no choices")
	}

	return out.Choices[0].Message.Content, out.Citations, nil
}

// NeedsRealTime reports whether the query asks for information that
// only a live search can answer.
func NeedsRealTime(query string) bool {
	q := strings.ToLower(query)
	for _, ind := range realTimeIndicators {
		if strings.Contains(q, ind) {
			return true
		}
	}
	return false
}

// Enhance merges a web answer above the document context. Callers
// fall back to the knowledge provider when it errors.
func (p *Perplexity) Enhance(ctx context.Context, query, body string) (string, []string, error) {
	if !p.IsAvailable() {
		return "", nil, fmt.Errorf("perplexity api key not configured")
	}

	answer, citations, err := p.searchWeb(ctx, query)
	if err != nil {
		slog.WarnContext(ctx, "web search failed", "error", err)
		return "", nil, err
	}

	var enhanced string
	if len(body) > 50 {
		enhanced = fmt.Sprintf("**Latest Information from Web:**\n%s\n\n**From Your Documents:**\n%s", answer, body)
	} else {
		enhanced = fmt.Sprintf("**Latest Information:**\n%s", answer)
	}

	labels := make([]string, 0, len(citations)+1)
	labels = append(labels, "Web Search (Perplexity)")
	labels = append(labels, citations...)
	return enhanced, labels, nil
}
