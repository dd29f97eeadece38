// Package content holds the copy template model used when assembling
// client-facing report text.
package content

import (
	"regexp"
	"time"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// CopyTemplate is one named block of report copy with {{name}} placeholders.
type CopyTemplate struct {
	Name      string
	Content   string
	UpdatedAt time.Time
}

// Render substitutes placeholders from vars. Unknown placeholders are left
// verbatim so a missing variable is visible in the output rather than
// silently dropped.
func (t *CopyTemplate) Render(vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(t.Content, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := vars[key]; ok {
			return v
		}
		return m
	})
}
