package generate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ogelo/backend/internal/store"
)

type stubLearned struct {
	answer string
	err    error
}

func (s *stubLearned) GenerateText(ctx context.Context, prompt string) (string, error) {
	return s.answer, s.err
}

func TestGenerate_UsesLearnedBackend(t *testing.T) {
	svc := NewService(&stubLearned{answer: "model answer"})
	got := svc.Generate(context.Background(), "what is solar power", "ctx", nil)
	assert.Equal(t, "model answer", got)
}

func TestGenerate_LearnedFailureFallsBack(t *testing.T) {
	svc := NewService(&stubLearned{err: errors.New("quota exceeded")})
	got := svc.Generate(context.Background(), "hello", "", nil)
	assert.Contains(t, got, "Ogelo")
}

func TestGenerate_EmptyLearnedAnswerFallsBack(t *testing.T) {
	svc := NewService(&stubLearned{answer: "   "})
	got := svc.Generate(context.Background(), "thanks", "", nil)
	assert.Contains(t, got, "welcome")
}

func TestRuleBasedResponse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		context string
		want    string
	}{
		{"Greeting", "hi", "", "Ogelo"},
		{"Greeting With Punctuation", "hello! anyone there", "", "Ogelo"},
		{"Help", "help", "", "Document Analysis"},
		{"Thanks", "thanks a lot", "", "welcome"},
		{"Context Grounded", "what is in my files", "From a.txt: solar data", "Based on available information"},
		{"No Context", "quantum tunneling", "", "don't have documents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ruleBasedResponse(tt.input, tt.context)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestRuleBasedResponse_GreetingInsideQuestionNotMatched(t *testing.T) {
	got := ruleBasedResponse("hi, what is machine learning", "")
	assert.NotContains(t, got, "What would you like to explore")
}

func TestRuleBasedResponse_KnowledgeBodyReturnedVerbatim(t *testing.T) {
	body := "**Machine Learning & AI**\n\ndetails here"
	got := ruleBasedResponse("explain machine learning", body)
	assert.Equal(t, body, got)
}

func TestRuleBasedResponse_LongContextTruncated(t *testing.T) {
	body := strings.Repeat("x", 800)
	got := ruleBasedResponse("describe this", body)
	assert.Contains(t, got, strings.Repeat("x", 500))
	assert.NotContains(t, got, strings.Repeat("x", 501))
}

func TestBuildPrompt(t *testing.T) {
	history := []store.ConversationTurn{
		{UserMessage: "newest question", AssistantResponse: "newest answer"},
		{UserMessage: "older question", AssistantResponse: "older answer"},
	}

	prompt := buildPrompt("current question", "From a.txt: facts", history)

	assert.Contains(t, prompt, "Recent conversation:")
	assert.Contains(t, prompt, "Document information:\nFrom a.txt: facts")
	assert.Contains(t, prompt, "User: current question")
	assert.True(t, strings.HasSuffix(prompt, "Assistant:"))
	// Oldest turn first so the dialogue reads chronologically.
	assert.Less(t, strings.Index(prompt, "older question"), strings.Index(prompt, "newest question"))
}
