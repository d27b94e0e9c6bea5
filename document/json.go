package document

import (
	"github.com/arnodel/yq/internal/scanner"
	"github.com/arnodel/yq/token"
)

// AppendJSON appends the compact JSON encoding of d to buf.
func (d Document) AppendJSON(buf []byte) []byte {
	switch d.kind {
	case Null:
		return append(buf, "null"...)
	case Boolean, Number:
		return append(buf, d.scalar...)
	case String:
		return append(buf, token.QuoteString(d.scalar)...)
	case Object:
		buf = append(buf, '{')
		for i, m := range d.members {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = append(buf, token.QuoteString(m.Key)...)
			buf = append(buf, ':')
			buf = m.Value.AppendJSON(buf)
		}
		return append(buf, '}')
	case Array:
		buf = append(buf, '[')
		for i, item := range d.items {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf = item.AppendJSON(buf)
		}
		return append(buf, ']')
	default:
		panic("invalid document kind")
	}
}

// IsNumberLiteral reports whether s is a valid JSON number.
func IsNumberLiteral(s string) bool {
	i := 0
	n := len(s)
	if i < n && s[i] == '-' {
		i++
	}
	switch {
	case i < n && s[i] == '0':
		i++
	case i < n && s[i] >= '1' && s[i] <= '9':
		for i < n && scanner.IsDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < n && s[i] == '.' {
		i++
		start := i
		for i < n && scanner.IsDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		start := i
		for i < n && scanner.IsDigit(s[i]) {
			i++
		}
		if i == start {
			return false
		}
	}
	return i == n
}
