package assemble_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"ogelo/backend/internal/assemble"
	"ogelo/backend/internal/store"
)

type MockRetriever struct{ mock.Mock }

func (m *MockRetriever) RelevantContext(ctx context.Context, query string) (string, []string) {
	args := m.Called(ctx, query)
	return args.String(0), args.Get(1).([]string)
}

type MockHistory struct{ mock.Mock }

func (m *MockHistory) RecentConversations(ctx context.Context, limit int) ([]store.ConversationTurn, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.ConversationTurn), args.Error(1)
}

type MockAugmenter struct{ mock.Mock }

func (m *MockAugmenter) Enhance(ctx context.Context, query, body string) (string, []string, error) {
	args := m.Called(ctx, query, body)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]string), args.Error(2)
}

func newAssembler(r *MockRetriever, h *MockHistory, a *MockAugmenter) *assemble.Assembler {
	var aug assemble.Augmenter
	if a != nil {
		aug = a
	}
	var hist assemble.HistoryStore
	if h != nil {
		hist = h
	}
	return assemble.New(r, hist, aug, 2, 100, 150, 4000)
}

func TestAssemble_DocumentsOnly(t *testing.T) {
	r := new(MockRetriever)
	r.On("RelevantContext", mock.Anything, "q").
		Return("From a.txt: solar power", []string{"a.txt (similarity: 0.90)"})

	got := newAssembler(r, nil, nil).Assemble(context.Background(), "q", false)

	assert.Equal(t, "From a.txt: solar power", got.Body)
	assert.Equal(t, []string{"a.txt (similarity: 0.90)"}, got.Sources)
}

func TestAssemble_HistoryAppendedAfterDocuments(t *testing.T) {
	r := new(MockRetriever)
	h := new(MockHistory)

	r.On("RelevantContext", mock.Anything, "q").
		Return("From a.txt: solar power", []string{"a.txt (similarity: 0.90)"})
	h.On("RecentConversations", mock.Anything, 2).
		Return([]store.ConversationTurn{
			{UserMessage: "what is wind power", AssistantResponse: "wind turbines generate electricity"},
			{UserMessage: "hello", AssistantResponse: "hi there"},
		}, nil)

	got := newAssembler(r, h, nil).Assemble(context.Background(), "q", true)

	assert.Contains(t, got.Body, "From a.txt: solar power")
	assert.Contains(t, got.Body, "Previous Q: what is wind power")
	assert.Contains(t, got.Body, "Previous A: wind turbines generate electricity")
	assert.Less(t, strings.Index(got.Body, "From a.txt"), strings.Index(got.Body, "Previous Q"))
	assert.Equal(t, []string{"a.txt (similarity: 0.90)", "Recent conversations"}, got.Sources)
	assert.Equal(t, 1, strings.Count(strings.Join(got.Sources, "|"), "Recent conversations"))
}

func TestAssemble_HistoryTruncation(t *testing.T) {
	r := new(MockRetriever)
	h := new(MockHistory)

	longQ := strings.Repeat("q", 120)
	longA := strings.Repeat("a", 200)

	r.On("RelevantContext", mock.Anything, "q").Return("", []string{})
	h.On("RecentConversations", mock.Anything, 2).
		Return([]store.ConversationTurn{{UserMessage: longQ, AssistantResponse: longA}}, nil)

	got := newAssembler(r, h, nil).Assemble(context.Background(), "q", true)

	assert.Contains(t, got.Body, strings.Repeat("q", 100)+"...")
	assert.NotContains(t, got.Body, strings.Repeat("q", 101))
	assert.Contains(t, got.Body, strings.Repeat("a", 150)+"...")
}

func TestAssemble_IncludeHistoryFalseSkipsFetch(t *testing.T) {
	r := new(MockRetriever)
	h := new(MockHistory)

	r.On("RelevantContext", mock.Anything, "q").Return("body", []string{})

	got := newAssembler(r, h, nil).Assemble(context.Background(), "q", false)

	assert.Equal(t, "body", got.Body)
	h.AssertNotCalled(t, "RecentConversations")
}

func TestAssemble_HistoryFetchFailureIsNonFatal(t *testing.T) {
	r := new(MockRetriever)
	h := new(MockHistory)

	r.On("RelevantContext", mock.Anything, "q").
		Return("From a.txt: text", []string{"a.txt (similarity: 0.80)"})
	h.On("RecentConversations", mock.Anything, 2).
		Return(nil, errors.New("database locked"))

	got := newAssembler(r, h, nil).Assemble(context.Background(), "q", true)

	assert.Equal(t, "From a.txt: text", got.Body)
	assert.Equal(t, []string{"a.txt (similarity: 0.80)"}, got.Sources)
}

func TestAssemble_AugmentationLabelsAppendLast(t *testing.T) {
	r := new(MockRetriever)
	h := new(MockHistory)
	a := new(MockAugmenter)

	r.On("RelevantContext", mock.Anything, "q").
		Return("From a.txt: text", []string{"a.txt (similarity: 0.80)"})
	h.On("RecentConversations", mock.Anything, 2).
		Return([]store.ConversationTurn{{UserMessage: "hi", AssistantResponse: "hello"}}, nil)
	a.On("Enhance", mock.Anything, "q", mock.Anything).
		Return("enhanced body", []string{"Internal Knowledge Base"}, nil)

	got := newAssembler(r, h, a).Assemble(context.Background(), "q", true)

	assert.Equal(t, "enhanced body", got.Body)
	assert.Equal(t, []string{"a.txt (similarity: 0.80)", "Recent conversations", "Internal Knowledge Base"}, got.Sources)
}

func TestAssemble_AugmentationFailureKeepsPriorBody(t *testing.T) {
	r := new(MockRetriever)
	a := new(MockAugmenter)

	r.On("RelevantContext", mock.Anything, "q").
		Return("From a.txt: text", []string{"a.txt (similarity: 0.80)"})
	a.On("Enhance", mock.Anything, "q", "From a.txt: text").
		Return("", nil, errors.New("upstream timeout"))

	got := newAssembler(r, nil, a).Assemble(context.Background(), "q", true)

	assert.Equal(t, "From a.txt: text", got.Body)
	assert.Equal(t, []string{"a.txt (similarity: 0.80)"}, got.Sources)
}

func TestAssemble_BodyCapped(t *testing.T) {
	r := new(MockRetriever)
	r.On("RelevantContext", mock.Anything, "q").
		Return(strings.Repeat("x", 5000), []string{})

	got := newAssembler(r, nil, nil).Assemble(context.Background(), "q", false)

	assert.Len(t, got.Body, 4003) // 4000 chars plus ellipsis
}
