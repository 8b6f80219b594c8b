package packager

import (
	"strings"
	"unicode"

	"github.com/realjck/scorm-iframe-packager/internal/scorm"
)

// FileName returns the download name for cfg: the title with characters
// that are unsafe in file names replaced, plus ".zip".
func FileName(cfg scorm.PackageConfig) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '"' || r == '<' || r == '>' || r == '|':
			return '-'
		case unicode.IsControl(r):
			return '-'
		}
		return r
	}, strings.TrimSpace(cfg.Title))

	name = strings.Trim(name, ". ")
	if name == "" {
		name = scorm.DefaultArchiveName
	}
	return name + ".zip"
}
