package services

import (
	"errors"
	"strings"
)

// ErrNoJSONFound means the text contained no complete brace-delimited
// object. A found-but-unparsable object is a separate failure reported by
// the caller's json.Unmarshal.
var ErrNoJSONFound = errors.New("no JSON object found in text")

// ExtractJSONObject returns the first balanced brace-delimited substring of
// text. The model wraps its JSON in prose often enough that this cannot be
// a plain regex: quoted strings and escapes are honored so braces inside
// string values do not end the scan.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", ErrNoJSONFound
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSONFound
}
