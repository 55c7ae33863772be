// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes a finished post for people and for collaborators that
// cannot render typographic punctuation. The post body is opaque UTF-8 text.
package export

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/pdiddy/blogsmith/pkg/types"
)

// Document is one post ready for export.
type Document struct {
	Topic string
	Body  string
}

// asciiPunctuation maps typographic glyphs to plain ASCII. Every replacement
// is pure ASCII, so applying it twice equals applying it once.
var asciiPunctuation = strings.NewReplacer(
	"—", "-", // em dash
	"–", "-", // en dash
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"…", "...",
)

// NormalizePunctuation replaces em/en dashes, curly quotes and the ellipsis
// glyph with ASCII equivalents.
func NormalizePunctuation(s string) string {
	return asciiPunctuation.Replace(s)
}

// markdown converts GitHub-flavoured markdown to HTML.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ParseFormat validates a format name. Empty selects markdown.
func ParseFormat(s string) (types.ExportFormat, error) {
	switch f := types.ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return types.FormatMarkdown, nil
	case types.FormatMarkdown, types.FormatText, types.FormatHTML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use markdown, text, or html", s)
	}
}

// Extension returns the file extension for format, without the dot.
func Extension(format types.ExportFormat) string {
	switch format {
	case types.FormatText:
		return "txt"
	case types.FormatHTML:
		return "html"
	default:
		return "md"
	}
}

// ContentType returns the MIME type for format.
func ContentType(format types.ExportFormat) string {
	switch format {
	case types.FormatText:
		return "text/plain; charset=utf-8"
	case types.FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// FileName derives a download name from the topic: spaces become
// underscores, path and shell-hostile characters are dropped, and the result
// ends in _blog.<ext>.
func FileName(topic string, format types.ExportFormat) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == ' ':
			return '_'
		case r == '-' || r == '_' || r == '.':
			return r
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		default:
			return -1
		}
	}, strings.TrimSpace(topic))
	name = strings.Trim(name, "._")
	if name == "" {
		name = "post"
	}
	return name + "_blog." + Extension(format)
}

// Write renders doc in format to w.
func Write(w io.Writer, doc Document, format types.ExportFormat) error {
	switch format {
	case types.FormatMarkdown, "":
		_, err := io.WriteString(w, ensureNewline(doc.Body))
		return err
	case types.FormatText:
		var b strings.Builder
		if doc.Topic != "" {
			b.WriteString(NormalizePunctuation(doc.Topic))
			b.WriteString("\n\n")
		}
		b.WriteString(ensureNewline(NormalizePunctuation(doc.Body)))
		_, err := io.WriteString(w, b.String())
		return err
	case types.FormatHTML:
		return writeHTML(w, doc)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteFile writes doc into dir under FileName and returns the path written.
func WriteFile(dir string, doc Document, format types.ExportFormat) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, FileName(doc.Topic, format))

	var buf bytes.Buffer
	if err := Write(&buf, doc, format); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func writeHTML(w io.Writer, doc Document) error {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(doc.Body), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}
	title := html.EscapeString(doc.Topic)
	_, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<article>
%s</article>
</body>
</html>
`, title, body.String())
	return err
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
