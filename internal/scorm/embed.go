package scorm

import (
	"net/url"
	"strings"
)

// EmbedMode is how the page loads the embedded content into its frame.
type EmbedMode string

const (
	EmbedNone   EmbedMode = "none"
	EmbedURL    EmbedMode = "url"
	EmbedMarkup EmbedMode = "markup"
)

// ParseEmbedTarget decides how s is embedded. Anything that parses as an
// absolute URL is navigated to; everything else is written as markup.
func ParseEmbedTarget(s string) EmbedMode {
	if strings.TrimSpace(s) == "" {
		return EmbedNone
	}
	if isAbsoluteURL(s) {
		return EmbedURL
	}
	return EmbedMarkup
}

func isAbsoluteURL(s string) bool {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, " \t\r\n<>") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.Host != ""
	case "javascript", "vbscript":
		return false
	default:
		// data:, blob:, mailto: and friends have no host.
		return u.Opaque != "" || u.Host != ""
	}
}
