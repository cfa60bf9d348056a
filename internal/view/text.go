// Package view renders read models into HTML fragments. Everything here is
// pure: no I/O beyond the writer handed to a component.
package view

import (
	"regexp"
	"strings"

	"github.com/okian/skillview/internal/domain/model"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// Escape makes server text safe to place in markup or attribute values.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

// DateLayout is how upload dates are shown.
const DateLayout = "Jan 2, 2006"

// FormatDate renders ts for display; the zero time renders as "".
func FormatDate(ts model.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(DateLayout)
}

// DefaultCodeLanguage is assumed for fenced blocks without a tag.
const DefaultCodeLanguage = "java"

var (
	fencedBlock = regexp.MustCompile("```(\\w+)?\\n([\\s\\S]*?)```")
	inlineCode  = regexp.MustCompile("`([^`]+)`")
)

// FormatQuestionText converts the lightweight markup of a quiz question to
// HTML. Fenced blocks become highlighted code, inline backticks become
// <code>, and newlines outside fenced blocks become <br>. All text is
// escaped.
func FormatQuestionText(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	last := 0
	for _, m := range fencedBlock.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(formatPlain(text[last:m[0]]))

		lang := DefaultCodeLanguage
		if m[2] >= 0 {
			lang = text[m[2]:m[3]]
		}
		b.WriteString(`<pre><code class="language-`)
		b.WriteString(lang)
		b.WriteString(`">`)
		b.WriteString(Escape(strings.TrimSpace(text[m[4]:m[5]])))
		b.WriteString(`</code></pre>`)
		last = m[1]
	}
	b.WriteString(formatPlain(text[last:]))
	return b.String()
}

func formatPlain(s string) string {
	if s == "" {
		return ""
	}
	s = inlineCode.ReplaceAllString(Escape(s), "<code>$1</code>")
	return strings.ReplaceAll(s, "\n", "<br>")
}
