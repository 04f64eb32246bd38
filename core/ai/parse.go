package ai

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var fenceRegex = regexp.MustCompile("```(?:json|JSON)?\\s*\\n?")

// StripFences removes markdown code fences around a model reply.
func StripFences(text string) string {
	return strings.TrimSpace(fenceRegex.ReplaceAllString(text, ""))
}

// ExtractJSON returns the first balanced JSON value opened by `open` ('{' or '[') found in text.
// Brackets inside JSON strings are ignored. When no balanced value exists, it falls back to the
// span between the first `open` and the last matching closer, then to the whole text.
func ExtractJSON(text string, open byte) string {
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	start := strings.IndexByte(text, open)
	if start < 0 {
		return text
	}

	depth := 0
	inString, escaped := false, false
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
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}

	if end := strings.LastIndexByte(text, closer); end > start {
		return text[start : end+1]
	}
	return text[start:]
}

// DecodeReply repairs a model reply (fences, surrounding prose) and decodes the JSON value into v.
func DecodeReply(reply string, open byte, v interface{}) error {
	text := ExtractJSON(StripFences(reply), open)
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return errors.Wrap(err, "decoding model reply")
	}
	return nil
}
