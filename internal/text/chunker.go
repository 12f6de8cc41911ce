package text

import (
	"strings"
)

// Split cuts raw text into overlapping chunks of at most size bytes.
// Boundaries prefer the last sentence-terminating period inside the
// window, then the last space; a mid-word cut is accepted when the
// window contains neither. Chunks are trimmed and empty ones dropped.
//
// The scan always advances: when overlap would move the next start at
// or before the current one, the next chunk begins at the current end
// instead, so the function terminates for any overlap, including
// overlap >= size.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}

	if len(text) <= size {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var chunks []string
	start := 0

	for start < len(text) {
		end := start + size
		if end < len(text) {
			window := text[start:end]
			if i := strings.LastIndexByte(window, '.'); i > 0 {
				end = start + i + 1
			} else if j := strings.LastIndexByte(window, ' '); j > 0 {
				end = start + j
			}
		} else {
			end = len(text)
		}

		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// Clean normalises whitespace in extracted text, flattening newlines,
// carriage returns and tabs left behind by PDF and HTML extraction.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
