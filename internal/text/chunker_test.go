package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	t.Run("Short Text Single Chunk", func(t *testing.T) {
		chunks := Split("  hello world  ", 500, 50)
		assert.Equal(t, []string{"hello world"}, chunks)
	})

	t.Run("Blank Text", func(t *testing.T) {
		assert.Empty(t, Split("   ", 500, 50))
		assert.Empty(t, Split("", 500, 50))
	})

	t.Run("Sentence Boundary Snap", func(t *testing.T) {
		text := "First sentence ends here. Second sentence is a bit longer and continues on."
		chunks := Split(text, 30, 0)
		assert.Equal(t, "First sentence ends here.", chunks[0])
	})

	t.Run("Word Boundary Snap", func(t *testing.T) {
		text := "alpha beta gamma delta epsilon zeta eta theta"
		chunks := Split(text, 20, 0)
		for _, c := range chunks {
			// No chunk should cut a word when spaces are available.
			assert.False(t, strings.HasPrefix(c, " "))
			assert.False(t, strings.HasSuffix(c, " "))
		}
		assert.Equal(t, "alpha beta gamma", chunks[0])
	})

	t.Run("Mid Word Cut Without Boundaries", func(t *testing.T) {
		text := strings.Repeat("a", 25)
		chunks := Split(text, 10, 0)
		assert.Equal(t, []string{"aaaaaaaaaa", "aaaaaaaaaa", "aaaaa"}, chunks)
	})

	t.Run("Zero Overlap Covers Text", func(t *testing.T) {
		text := strings.Repeat("x", 97)
		chunks := Split(text, 10, 0)
		assert.Equal(t, text, strings.Join(chunks, ""))
	})

	t.Run("Overlap Repeats Tail", func(t *testing.T) {
		text := strings.Repeat("b", 30)
		chunks := Split(text, 10, 3)
		// Each chunk after the first starts 3 bytes before the
		// previous end.
		assert.Equal(t, "bbbbbbbbbb", chunks[0])
		total := 0
		for _, c := range chunks {
			total += len(c)
		}
		assert.GreaterOrEqual(t, total, len(text))
	})

	t.Run("Overlap Equal To Size Terminates", func(t *testing.T) {
		text := strings.Repeat("c", 100)
		chunks := Split(text, 10, 10)
		assert.NotEmpty(t, chunks)
		for _, c := range chunks {
			assert.NotEmpty(t, c)
		}
	})

	t.Run("Overlap Larger Than Size Terminates", func(t *testing.T) {
		text := strings.Repeat("d e f ", 50)
		chunks := Split(text, 10, 50)
		assert.NotEmpty(t, chunks)
		for _, c := range chunks {
			assert.NotEmpty(t, c)
		}
	})

	t.Run("All Chunks Within Size", func(t *testing.T) {
		text := strings.Repeat("some words. more words here and there. ", 40)
		for _, c := range Split(text, 100, 20) {
			assert.LessOrEqual(t, len(c), 100)
			assert.NotEmpty(t, c)
		}
	})

	t.Run("Invalid Size", func(t *testing.T) {
		assert.Nil(t, Split("text", 0, 0))
	})
}

func TestClean(t *testing.T) {
	assert.Equal(t, "a b c", Clean("  a\n\tb\r\n  c  "))
	assert.Equal(t, "", Clean(" \n\t "))
	assert.Equal(t, "unchanged", Clean("unchanged"))
}
