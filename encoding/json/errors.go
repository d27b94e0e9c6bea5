package json

import "fmt"

// A SyntaxError describes invalid JSON input.  Line and Col are 1-based, Offset
// is the 0-based byte offset of the offending byte.
type SyntaxError struct {
	Msg    string
	Offset int64
	Line   int
	Col    int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at L%d,C%d: %s", e.Line, e.Col, e.Msg)
}
