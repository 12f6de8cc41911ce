package augment

import (
	"context"
	"log/slog"
)

// Composite routes to web search for real-time queries when a key is
// configured, and to the static knowledge base otherwise. Web errors
// fall through to knowledge, so Enhance effectively never fails.
type Composite struct {
	web       *Perplexity
	knowledge *Knowledge
}

func NewComposite(web *Perplexity, knowledge *Knowledge) *Composite {
	return &Composite{web: web, knowledge: knowledge}
}

func (c *Composite) Enhance(ctx context.Context, query, body string) (string, []string, error) {
	if c.web != nil && c.web.IsAvailable() && (NeedsRealTime(query) || body == "") {
		enhanced, labels, err := c.web.Enhance(ctx, query, body)
		if err == nil {
			return enhanced, labels, nil
		}
		slog.WarnContext(ctx, "web augmentation failed, falling back to knowledge base", "error", err)
	}
	return c.knowledge.Enhance(ctx, query, body)
}
