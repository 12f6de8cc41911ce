// Package generate produces the assistant's reply from the assembled
// context. A learned backend answers when configured; a deterministic
// rule set is the always-available fallback.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ogelo/backend/internal/store"
)

// LearnedGenerator is the optional model-backed text seam.
type LearnedGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	learned LearnedGenerator
}

func NewService(learned LearnedGenerator) *Service {
	return &Service{learned: learned}
}

// Generate never fails the request: a learned-backend error falls
// back to the rule-based answer built from the context alone.
func (s *Service) Generate(ctx context.Context, userInput, contextBody string, history []store.ConversationTurn) string {
	if s.learned != nil {
		answer, err := s.learned.GenerateText(ctx, buildPrompt(userInput, contextBody, history))
		if err == nil && strings.TrimSpace(answer) != "" {
			return answer
		}
		slog.WarnContext(ctx, "learned generation failed, using rule-based fallback", "error", err)
	}
	return ruleBasedResponse(userInput, contextBody)
}

func buildPrompt(userInput, contextBody string, history []store.ConversationTurn) string {
	var parts []string
	parts = append(parts, "You are Ogelo, a helpful assistant that answers using the provided document context and cites sources. Be precise, structured and concise.")

	if len(history) > 0 {
		parts = append(parts, "\nRecent conversation:")
		for i := len(history) - 1; i >= 0; i-- {
			t := history[i]
			parts = append(parts,
				fmt.Sprintf("User: %s", t.UserMessage),
				fmt.Sprintf("Assistant: %s", t.AssistantResponse),
			)
		}
	}

	if strings.TrimSpace(contextBody) != "" {
		parts = append(parts, fmt.Sprintf("\nDocument information:\n%s", contextBody))
	}

	parts = append(parts, fmt.Sprintf("\nUser: %s", userInput), "Assistant:")
	return strings.Join(parts, "\n")
}

// Markers written by the augmentation step; a body carrying one is
// already a complete answer.
var knowledgeMarkers = []string{
	"**Machine Learning", "**Renewable Energy", "**Climate Change",
	"**Software Development", "**Data Science", "**Business &",
	"**Health &", "**Education &", "**Latest Information", "**Answer",
}

func ruleBasedResponse(userInput, contextBody string) string {
	lower := strings.ToLower(userInput)

	// Padded so short greetings match as whole words only.
	padded := " " + lower + " "
	isQuestion := containsAny(lower, "what", "how", "why", "explain", "describe", "tell me")

	switch {
	case containsAny(padded, " hello ", " hi ", " hey ", " hello!", " hi!", " hey!") && !isQuestion:
		return "Hello! I'm Ogelo, your intelligent RAG assistant. I can provide comprehensive answers by combining information from your documents with my knowledge base. What would you like to explore today?"

	case containsAny(lower, "help", "what can you do"):
		return `I provide answers by combining multiple sources with citations:

- **Document Analysis**: search through your uploaded files (PDF, text, CSV, HTML)
- **Knowledge Integration**: combine document info with my knowledge base
- **Context Awareness**: remember our recent conversation
- **Web Research**: access current information when configured

Try asking questions about your documents, or ask me to explain a topic.`

	case containsAny(lower, "thank"):
		return "You're welcome! Feel free to ask follow-up questions or explore new topics."
	}

	if strings.TrimSpace(contextBody) != "" {
		for _, marker := range knowledgeMarkers {
			if strings.Contains(contextBody, marker) {
				return contextBody
			}
		}
		snippet := contextBody
		if len(snippet) > 500 {
			snippet = snippet[:500]
		}
		return fmt.Sprintf("Based on available information: %s\n\n**Sources:** Available documents and knowledge base", snippet)
	}

	return fmt.Sprintf("I don't have documents covering %q yet. Upload relevant files and I'll answer from them, or ask about a general topic from my knowledge base.", userInput)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
