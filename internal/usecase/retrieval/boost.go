package retrieval

import (
	"strings"

	"github.com/continuum-intelligence/researchd/internal/domain"
)

// Boost multipliers. Alignment and section boosts compound multiplicatively
// when both hit the same passage.
const (
	tierBoost      = 1.5
	directionBoost = 1.3
	sectionBoost   = 1.4
)

// directionAliases resolves caller-supplied direction tokens to the tag
// vocabulary used by the chunker.
var directionAliases = map[string]string{
	"bullish": "upside",
	"bull":    "upside",
	"bearish": "downside",
	"bear":    "downside",
}

// sectionHints maps query keywords (substring match, case-insensitive) to
// the sections they should pull forward.
var sectionHints = map[string][]string{
	"bull":       {"hypothesis", "verdict", "narrative"},
	"bear":       {"hypothesis", "verdict", "narrative"},
	"upside":     {"hypothesis", "verdict", "narrative"},
	"downside":   {"hypothesis", "verdict", "narrative"},
	"thesis":     {"hypothesis", "verdict", "narrative"},
	"hypothesis": {"hypothesis"},
	"risk":       {"tripwire", "discriminator", "hypothesis", "evidence"},
	"catalyst":   {"tripwire", "discriminator"},
	"tripwire":   {"tripwire"},
	"evidence":   {"evidence"},
	"regulatory": {"evidence"},
	"competitor": {"evidence"},
	"valuation":  {"identity", "reference", "narrative"},
	"price":      {"technical", "identity", "reference"},
	"technical":  {"technical"},
	"chart":      {"technical"},
	"metric":     {"identity", "reference", "overview"},
	"financial":  {"identity", "reference"},
	"dividend":   {"identity", "reference"},
	"margin":     {"evidence", "hypothesis", "identity"},
	"gap":        {"gaps"},
	"unknown":    {"gaps"},
	"narrative":  {"narrative"},
	"overview":   {"overview"},
	"summary":    {"verdict", "overview", "narrative"},
	"fresh":      {"freshness"},
}

// applyAlignmentBoost boosts passages matching a thesis alignment hint. A
// tier token (t1..t4) boosts passages tagged with that tier by 1.5x; a
// direction token boosts its resolved direction tag by 1.3x. Anything else
// passes through unchanged. Boosted passages are copies; the input slice and
// its passages are never mutated.
func applyAlignmentBoost(passages []domain.Passage, alignment string) []domain.Passage {
	if alignment == "" {
		return passages
	}
	alignment = strings.ToLower(strings.TrimSpace(alignment))

	switch alignment {
	case "t1", "t2", "t3", "t4":
		return boostTagged(passages, alignment, tierBoost)
	}

	direction, ok := directionAliases[alignment]
	if !ok {
		direction = alignment
	}
	switch direction {
	case "upside", "downside", "neutral":
		return boostTagged(passages, direction, directionBoost)
	}
	return passages
}

func boostTagged(passages []domain.Passage, tag string, factor float64) []domain.Passage {
	boosted := make([]domain.Passage, len(passages))
	for i, p := range passages {
		if p.HasTag(tag) {
			boosted[i] = p.WithWeight(p.Weight * factor)
		} else {
			boosted[i] = p
		}
	}
	return boosted
}

// applySectionBoost scans the query for section hint keywords and boosts
// passages in the union of matched sections by 1.4x (copy-on-boost).
func applySectionBoost(passages []domain.Passage, query string) []domain.Passage {
	sections := matchedSections(query)
	if len(sections) == 0 {
		return passages
	}
	boosted := make([]domain.Passage, len(passages))
	for i, p := range passages {
		if _, hit := sections[p.Section]; hit {
			boosted[i] = p.WithWeight(p.Weight * sectionBoost)
		} else {
			boosted[i] = p
		}
	}
	return boosted
}

// matchedSections returns the union of target sections for every hint
// keyword appearing in the query.
func matchedSections(query string) map[string]struct{} {
	queryLower := strings.ToLower(query)
	sections := make(map[string]struct{})
	for keyword, targets := range sectionHints {
		if strings.Contains(queryLower, keyword) {
			for _, s := range targets {
				sections[s] = struct{}{}
			}
		}
	}
	return sections
}
