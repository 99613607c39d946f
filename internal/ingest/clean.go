package ingest

import (
	"regexp"
	"strings"
)

// htmlEntities maps the entities that appear in the research markup to plain
// text. Order matters: &amp; must decode first so double-encoded entities
// resolve in one pass.
var htmlEntities = []struct{ entity, replacement string }{
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&bull;", " - "},
	{"&ndash;", "-"},
	{"&mdash;", " — "},
	{"&rarr;", "->"},
	{"&larr;", "<-"},
	{"&uarr;", "^"},
	{"&darr;", "v"},
	{"&ge;", ">="},
	{"&le;", "<="},
	{"&#9650;", "^"},
	{"&#9660;", "v"},
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// cleanHTML decodes the known entities, strips any remaining tag syntax and
// collapses whitespace runs to a single space.
func cleanHTML(text string) string {
	if text == "" {
		return ""
	}
	for _, e := range htmlEntities {
		text = strings.ReplaceAll(text, e.entity, e.replacement)
	}
	text = tagPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
