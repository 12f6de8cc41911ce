// Package chat implements the question-answer exchange: assemble
// context, generate a reply, persist the turn.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ogelo/backend/internal/assemble"
	"ogelo/backend/internal/store"
)

type Assembler interface {
	Assemble(ctx context.Context, query string, includeHistory bool) assemble.Context
}

type Generator interface {
	Generate(ctx context.Context, userInput, contextBody string, history []store.ConversationTurn) string
}

type ConversationStore interface {
	StoreConversation(ctx context.Context, userMessage, assistantResponse, contextUsed string) error
	RecentConversations(ctx context.Context, limit int) ([]store.ConversationTurn, error)
}

type Service struct {
	assembler    Assembler
	generator    Generator
	turns        ConversationStore
	historyLimit int
}

func NewService(a Assembler, g Generator, t ConversationStore, historyLimit int) *Service {
	return &Service{assembler: a, generator: g, turns: t, historyLimit: historyLimit}
}

// Exchange answers one user message. The reply is produced even when
// persisting the turn fails; history just won't include this turn.
func (s *Service) Exchange(ctx context.Context, message string) (string, []string, error) {
	if strings.TrimSpace(message) == "" {
		return "", nil, fmt.Errorf("message must not be empty")
	}

	asm := s.assembler.Assemble(ctx, message, true)

	// History failure degrades to a historyless prompt.
	var history []store.ConversationTurn
	if s.historyLimit > 0 {
		turns, err := s.turns.RecentConversations(ctx, s.historyLimit)
		if err != nil {
			slog.WarnContext(ctx, "history fetch failed, generating without it", "error", err)
		} else {
			history = turns
		}
	}

	response := s.generator.Generate(ctx, message, asm.Body, history)

	if err := s.turns.StoreConversation(ctx, message, response, asm.Body); err != nil {
		slog.WarnContext(ctx, "storing conversation failed", "error", err)
	}

	return response, asm.Sources, nil
}
