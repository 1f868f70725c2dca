package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Validator checks a decoded document.
type Validator[T any] func(T) error

// ExtractJSON decodes the first JSON object in a model reply into T. Code
// fences and surrounding prose are ignored, and two common model mistakes are
// repaired before decoding: comments and numbers written as ".5".
func ExtractJSON[T any](raw string, validate Validator[T]) (T, error) {
	var zero T

	block := firstObject(raw)
	if block == "" {
		return zero, fmt.Errorf("%w: no JSON object in reply", ErrInvalidOutput)
	}

	var out T
	if err := json.Unmarshal([]byte(sanitize(block)), &out); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	if validate != nil {
		if err := validate(out); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %w", ErrInvalidOutput, err)
		}
	}
	return out, nil
}

// firstObject returns the first balanced {...} block, skipping fence lines.
func firstObject(s string) string {
	var kept []string
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		kept = append(kept, line)
	}
	s = strings.Join(kept, "\n")

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	var sc stringScanner
	for i := start; i < len(s); i++ {
		if sc.step(s[i]) {
			continue
		}
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// sanitize drops // and /* */ comments and prefixes bare leading decimal
// points with a zero, leaving string contents untouched.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	var sc stringScanner
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.step(c) {
			b.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				for i+1 < len(s) && s[i+1] != '\n' {
					i++
				}
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end < 0 {
					i = len(s)
				} else {
					i += end + 3
				}
				continue
			}
		}
		if c == '.' && i+1 < len(s) && isDigit(s[i+1]) && startsNumber(lastSignificant(b.String())) {
			b.WriteByte('0')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// stringScanner tracks whether a byte stream is inside a JSON string.
type stringScanner struct {
	inString bool
	escaped  bool
}

// step consumes c and reports whether it belongs to a string literal,
// including the quotes themselves.
func (s *stringScanner) step(c byte) bool {
	switch {
	case s.escaped:
		s.escaped = false
		return true
	case s.inString && c == '\\':
		s.escaped = true
		return true
	case c == '"':
		s.inString = !s.inString
		return true
	}
	return s.inString
}

func lastSignificant(s string) byte {
	t := strings.TrimRight(s, " \t\r\n")
	if t == "" {
		return 0
	}
	return t[len(t)-1]
}

func startsNumber(prev byte) bool {
	switch prev {
	case 0, ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
