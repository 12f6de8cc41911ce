// Package assemble merges document context, recent conversation turns
// and augmentation into the single context block fed to the generator.
package assemble

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ogelo/backend/internal/store"
)

// Context is the assembled result. Sources are ordered the way they
// were collected: documents first, then conversation, then
// augmentation. The UI shows them in this order.
type Context struct {
	Body    string   `json:"body"`
	Sources []string `json:"sources"`
}

type Retriever interface {
	RelevantContext(ctx context.Context, query string) (string, []string)
}

type HistoryStore interface {
	RecentConversations(ctx context.Context, limit int) ([]store.ConversationTurn, error)
}

// Augmenter rewrites the body and contributes extra source labels.
type Augmenter interface {
	Enhance(ctx context.Context, query, body string) (string, []string, error)
}

type Assembler struct {
	retriever Retriever
	history   HistoryStore
	augmenter Augmenter

	historyLimit   int
	userChars      int
	assistantChars int
	maxChars       int
}

func New(r Retriever, h HistoryStore, a Augmenter, historyLimit, userChars, assistantChars, maxChars int) *Assembler {
	return &Assembler{
		retriever:      r,
		history:        h,
		augmenter:      a,
		historyLimit:   historyLimit,
		userChars:      userChars,
		assistantChars: assistantChars,
		maxChars:       maxChars,
	}
}

// Assemble never fails: every collaborator error degrades to whatever
// was collected before it. A history fetch failure drops the history
// section; an augmentation failure keeps the pre-augmentation body.
func (a *Assembler) Assemble(ctx context.Context, query string, includeHistory bool) Context {
	body, sources := a.retriever.RelevantContext(ctx, query)

	if includeHistory && a.history != nil && a.historyLimit > 0 {
		if section := a.historySection(ctx); section != "" {
			if body != "" {
				body += "\n\n"
			}
			body += section
			sources = append(sources, "Recent conversations")
		}
	}

	if a.augmenter != nil {
		enhanced, labels, err := a.augmenter.Enhance(ctx, query, body)
		if err != nil {
			slog.WarnContext(ctx, "augmentation failed, using document context only", "error", err)
		} else {
			body = enhanced
			sources = append(sources, labels...)
		}
	}

	if a.maxChars > 0 {
		body = truncate(body, a.maxChars)
	}

	return Context{Body: body, Sources: sources}
}

func (a *Assembler) historySection(ctx context.Context) string {
	turns, err := a.history.RecentConversations(ctx, a.historyLimit)
	if err != nil {
		slog.WarnContext(ctx, "history fetch failed, continuing without it", "error", err)
		return ""
	}
	if len(turns) == 0 {
		return ""
	}

	lines := make([]string, 0, len(turns)*2)
	for _, t := range turns {
		lines = append(lines,
			fmt.Sprintf("Previous Q: %s", truncate(t.UserMessage, a.userChars)),
			fmt.Sprintf("Previous A: %s", truncate(t.AssistantResponse, a.assistantChars)),
		)
	}
	return strings.Join(lines, "\n")
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
