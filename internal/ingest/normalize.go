package ingest

import (
	"encoding/json"
	"fmt"
)

// Normalize converts an informal object literal (unquoted keys, single-quoted
// strings, comments, trailing commas, undefined values) into strict JSON.
//
// A single forward pass tracks whether the cursor sits in code, a string
// literal, or a comment, so comment stripping and key quoting never corrupt
// string contents (a quoted value containing "//" passes through intact).
// Returns an error when the result still fails to parse as JSON; callers
// drop the offending block and continue.
func Normalize(literal string) ([]byte, error) {
	out := normalizeLiteral(literal)
	if !json.Valid(out) {
		return nil, fmt.Errorf("normalized literal is not valid JSON")
	}
	return out, nil
}

func normalizeLiteral(src string) []byte {
	out := make([]byte, 0, len(src))

	// lastSig is the last significant (non-whitespace) byte emitted in code
	// state; nlSince records a newline emitted after it. Together they decide
	// whether a bare identifier sits in key position: keys only follow '{',
	// ',' or a line break.
	var lastSig byte
	nlSince := false

	writeCode := func(b byte) {
		out = append(out, b)
		if b == '\n' {
			nlSince = true
		} else if !isSpace(b) {
			lastSig = b
			nlSince = false
		}
	}

	i := 0
	for i < len(src) {
		ch := src[i]
		switch {
		case ch == '/' && i+1 < len(src) && src[i+1] == '/':
			// Line comment: drop to end of line, keep the newline.
			i += 2
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case ch == '/' && i+1 < len(src) && src[i+1] == '*':
			// Block comment: drop through the closing marker.
			i += 2
			for i+1 < len(src) && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			if i+1 < len(src) {
				i += 2
			} else {
				i = len(src)
			}

		case ch == '"':
			var str string
			str, i = copyDoubleQuoted(src, i)
			out = append(out, str...)
			lastSig = '"'
			nlSince = false

		case ch == '\'':
			var str string
			str, i = convertSingleQuoted(src, i)
			out = append(out, str...)
			lastSig = '"'
			nlSince = false

		case ch == '}' || ch == ']':
			out = trimTrailingComma(out)
			writeCode(ch)
			i++

		case isIdentStart(ch):
			start := i
			for i < len(src) && isIdentChar(src[i]) {
				i++
			}
			ident := src[start:i]

			// Peek past horizontal whitespace for a ':' marking key position.
			j := i
			for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
				j++
			}
			keyContext := lastSig == '{' || lastSig == ',' || nlSince
			if keyContext && j < len(src) && src[j] == ':' {
				out = append(out, '"')
				out = append(out, ident...)
				out = append(out, '"', ':')
				lastSig = ':'
				nlSince = false
				i = j + 1
				continue
			}

			// Value position: map the undefined token to null.
			if ident == "undefined" {
				ident = "null"
			}
			out = append(out, ident...)
			lastSig = ident[len(ident)-1]
			nlSince = false

		default:
			writeCode(ch)
			i++
		}
	}

	return out
}

// copyDoubleQuoted copies an already-double-quoted string verbatim,
// preserving its internal escapes. Returns the string and the index past it.
func copyDoubleQuoted(src string, start int) (string, int) {
	i := start + 1
	for i < len(src) {
		if src[i] == '\\' && i+1 < len(src) {
			i += 2
			continue
		}
		if src[i] == '"' {
			return src[start : i+1], i + 1
		}
		i++
	}
	return src[start:], len(src)
}

// convertSingleQuoted rewrites a single-quoted string as a double-quoted JSON
// string. An escaped single quote becomes a bare quote, an embedded unescaped
// double quote gains an escape, backslash and \n/\t/\r escapes are preserved,
// and any other escape passes through untouched.
func convertSingleQuoted(src string, start int) (string, int) {
	buf := make([]byte, 0, len(src)-start)
	buf = append(buf, '"')
	i := start + 1
	for i < len(src) && src[i] != '\'' {
		switch {
		case src[i] == '\\' && i+1 < len(src):
			esc := src[i+1]
			switch esc {
			case '\'':
				buf = append(buf, '\'')
			case '"':
				buf = append(buf, '\\', '"')
			case '\\':
				buf = append(buf, '\\', '\\')
			case 'n', 't', 'r':
				buf = append(buf, '\\', esc)
			default:
				buf = append(buf, '\\', esc)
			}
			i += 2
		case src[i] == '"':
			buf = append(buf, '\\', '"')
			i++
		default:
			buf = append(buf, src[i])
			i++
		}
	}
	if i < len(src) {
		i++ // closing quote
	}
	buf = append(buf, '"')
	return string(buf), i
}

// trimTrailingComma removes a comma (plus any whitespace after it) hanging
// before a closing brace or bracket.
func trimTrailingComma(out []byte) []byte {
	i := len(out) - 1
	for i >= 0 && isSpace(out[i]) {
		i--
	}
	if i >= 0 && out[i] == ',' {
		return append(out[:i], out[i+1:]...)
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
