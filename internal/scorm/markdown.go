package scorm

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// NewMarkdown returns the converter used for the completion panel. Raw
// HTML in the source is dropped.
func NewMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
}

// RenderMarkdown converts src to an HTML fragment.
func RenderMarkdown(md goldmark.Markdown, src string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// HashCode returns the lowercase hex SHA-256 digest of code.
func HashCode(code string) (string, error) {
	h := sha256.New()
	if _, err := h.Write([]byte(code)); err != nil {
		return "", fmt.Errorf("hashing completion code: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
