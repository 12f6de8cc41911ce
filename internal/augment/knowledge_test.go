package augment

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledge_TopicalSnippet(t *testing.T) {
	k := NewKnowledge()
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"Machine Learning", "how does machine learning work", "Machine Learning & AI"},
		{"Renewable Energy", "tell me about solar panels", "Renewable Energy"},
		{"Climate", "what causes climate change", "Climate Change"},
		{"Software", "best practices in programming", "Software Development"},
		{"Data Science", "explain data analysis workflows", "Data Science"},
		{"Business", "marketing strategy basics", "Business & Economics"},
		{"Health", "how does healthcare work", "Health & Medical Sciences"},
		{"Education", "modern teaching methods", "Education & Learning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enhanced, labels, err := k.Enhance(ctx, tt.query, "")
			require.NoError(t, err)
			assert.Contains(t, enhanced, tt.want)
			assert.Equal(t, []string{"Internal Knowledge Base"}, labels)
		})
	}
}

func TestKnowledge_AIDoesNotMatchInsideWords(t *testing.T) {
	k := NewKnowledge()

	enhanced, _, err := k.Enhance(context.Background(), "how do I repair a chair", "")
	require.NoError(t, err)
	assert.NotContains(t, enhanced, "Machine Learning & AI")
}

func TestKnowledge_DocumentContextAppended(t *testing.T) {
	k := NewKnowledge()

	body := "From energy.txt: solar output doubled last year"
	enhanced, labels, err := k.Enhance(context.Background(), "solar power", body)
	require.NoError(t, err)

	assert.Contains(t, enhanced, "Renewable Energy")
	assert.Contains(t, enhanced, "**From Your Documents:**")
	assert.Contains(t, enhanced, "solar output doubled")
	assert.Equal(t, []string{"User Documents", "Internal Knowledge Base"}, labels)
}

func TestKnowledge_LongDocumentContextCapped(t *testing.T) {
	k := NewKnowledge()

	body := "From big.txt: " + strings.Repeat("x", 1000)
	enhanced, _, err := k.Enhance(context.Background(), "solar power", body)
	require.NoError(t, err)

	idx := strings.Index(enhanced, "**From Your Documents:**")
	require.GreaterOrEqual(t, idx, 0)
	assert.LessOrEqual(t, len(enhanced[idx:]), len("**From Your Documents:**\n")+docContextBudget)
}

func TestKnowledge_DocumentsOnlyAnswer(t *testing.T) {
	k := NewKnowledge()

	body := "From recipe.txt: bread needs yeast"
	enhanced, labels, err := k.Enhance(context.Background(), "how do I bake bread", body)
	require.NoError(t, err)

	assert.Contains(t, enhanced, "**Answer Based on Your Documents:**")
	assert.Contains(t, enhanced, "bread needs yeast")
	assert.Equal(t, []string{"User Documents", "Internal Knowledge Base"}, labels)
}

func TestKnowledge_NoMatchNoContext(t *testing.T) {
	k := NewKnowledge()

	enhanced, labels, err := k.Enhance(context.Background(), "zzz unrelated", "")
	require.NoError(t, err)

	assert.Contains(t, enhanced, "**Answer:**")
	assert.Equal(t, []string{"Internal Knowledge Base"}, labels)
}
