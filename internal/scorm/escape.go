package scorm

import (
	"bytes"
	"encoding/json"
	"html"
	"regexp"
	"strings"
)

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML replaces the five XML special characters with entities.
func EscapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

// EscapeHTML escapes text for HTML element content and quoted attributes.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

var scriptCloseRe = regexp.MustCompile(`(?i)</(script)`)

// TemplateLiteral escapes s so it can sit between backticks in a script
// block and evaluate back to s. Closing script tags and comment openers
// are broken up so the HTML parser never leaves the script block.
func TemplateLiteral(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '`':
			b.WriteString("\\`")
		case '$':
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteString(`\$`)
			} else {
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	out := scriptCloseRe.ReplaceAllString(b.String(), `<\/$1`)
	return strings.ReplaceAll(out, "<!--", `<\!--`)
}

// JSString returns s as a double-quoted JavaScript string literal that is
// safe inside a script block.
func JSString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	// Encode escapes <, > and & so "</script>" cannot close the block.
	if err := enc.Encode(s); err != nil {
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

var cssColorRe = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|(rgb|rgba|hsl|hsla)\(\s*[0-9.,%\s/a-z-]+\)|[a-zA-Z]{3,20})$`)

// CSSColor returns c when it looks like a CSS color value, def otherwise.
func CSSColor(c, def string) string {
	c = strings.TrimSpace(c)
	if c == "" || !cssColorRe.MatchString(c) {
		return def
	}
	return c
}
