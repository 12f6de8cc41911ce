// Package extract turns uploaded files into plain text for chunking.
package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]*>`)
)

// FromFile extracts plain text by file extension. It never returns an
// error: unreadable or unsupported input yields an empty string, which
// upstream rejects as a document with no text content.
func FromFile(name string, r io.Reader) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return readAll(r)
	case ".csv":
		return fromCSV(r)
	case ".pdf":
		return fromPDF(r)
	case ".html", ".htm":
		return fromHTML(r)
	default:
		slog.Warn("unsupported file type", "name", name)
		return ""
	}
}

func readAll(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil {
		slog.Warn("reading upload failed", "error", err)
		return ""
	}
	return string(data)
}

// fromCSV renders each record as "header: value" lines so column
// meaning survives into the chunk text.
func fromCSV(r io.Reader) string {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		slog.Warn("parsing csv failed", "error", err)
		return ""
	}
	if len(records) < 2 {
		if len(records) == 1 {
			return strings.Join(records[0], " ")
		}
		return ""
	}

	header := records[0]
	var b strings.Builder
	for _, row := range records[1:] {
		var pairs []string
		for i, val := range row {
			if i < len(header) {
				pairs = append(pairs, fmt.Sprintf("%s: %s", header[i], val))
			} else {
				pairs = append(pairs, val)
			}
		}
		b.WriteString(strings.Join(pairs, ", "))
		b.WriteString("\n")
	}
	return b.String()
}

func fromPDF(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil {
		slog.Warn("reading pdf failed", "error", err)
		return ""
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		slog.Warn("opening pdf failed", "error", err)
		return ""
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("extracting pdf page failed", "page", i, "error", err)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String()
}

func fromHTML(r io.Reader) string {
	raw := readAll(r)
	if raw == "" {
		return ""
	}

	text := scriptRe.ReplaceAllString(raw, " ")
	text = styleRe.ReplaceAllString(text, " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}
