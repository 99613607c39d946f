package ingest

import "regexp"

// stockPattern matches per-ticker research object assignments embedded in the
// source document: STOCK_DATA.WOW = { ... }. Tickers are 2-5 uppercase letters.
var stockPattern = regexp.MustCompile(`STOCK_DATA\.([A-Z]{2,5})\s*=\s*\{`)

// Named cross-ticker blocks carried alongside the per-ticker objects.
const (
	referenceBlockName = "REFERENCE_DATA"
	freshnessBlockName = "FRESHNESS_DATA"
)

// BalancedBlock returns the substring of text spanning the balanced {...}
// block whose opening brace sits at start. Braces inside string literals are
// ignored, and a backslash inside a string consumes the following character,
// so escaped quotes cannot end the string early. Returns "" when start does
// not point at '{' or the block never closes.
func BalancedBlock(text string, start int) string {
	if start >= len(text) || text[start] != '{' {
		return ""
	}
	depth := 0
	inString := false
	var quote byte
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			if ch == '\\' && i+1 < len(text) {
				i++
				continue
			}
			if ch == quote {
				inString = false
			}
			continue
		}
		switch ch {
		case '\'', '"':
			inString = true
			quote = ch
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// tickerBlock is one extracted per-ticker object literal, in document order.
type tickerBlock struct {
	ticker  string
	literal string
}

// stockBlocks scans the document for STOCK_DATA.SYMBOL assignments and
// extracts each balanced object literal. Blocks that never balance are
// skipped. Order follows first appearance in the document; a repeated ticker
// keeps its original position but the later literal wins.
func stockBlocks(doc string) []tickerBlock {
	var blocks []tickerBlock
	seen := make(map[string]int)
	for _, m := range stockPattern.FindAllStringSubmatchIndex(doc, -1) {
		ticker := doc[m[2]:m[3]]
		literal := BalancedBlock(doc, m[1]-1)
		if literal == "" {
			continue
		}
		if i, ok := seen[ticker]; ok {
			blocks[i].literal = literal
			continue
		}
		seen[ticker] = len(blocks)
		blocks = append(blocks, tickerBlock{ticker: ticker, literal: literal})
	}
	return blocks
}

// namedBlock extracts the balanced literal assigned to `const NAME = {...}`.
// Returns "" when the constant is absent or unbalanced.
func namedBlock(doc, name string) string {
	pattern := regexp.MustCompile(`const\s+` + name + `\s*=\s*\{`)
	m := pattern.FindStringIndex(doc)
	if m == nil {
		return ""
	}
	return BalancedBlock(doc, m[1]-1)
}
