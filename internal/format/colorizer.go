package format

import "github.com/arnodel/yq/document"

// A Colorizer surrounds scalars with ANSI escape codes.  A nil *Colorizer
// prints scalars verbatim.
type Colorizer struct {
	KeyColorCode []byte

	// Indexed by document.Kind, for Null, Boolean, Number and String.
	ScalarColorCodes [4][]byte

	ResetCode []byte
}

// PrintScalar prints the literal of a scalar of the given kind.
func (c *Colorizer) PrintScalar(p Printer, kind document.Kind, literal []byte) {
	var code []byte
	if c != nil && int(kind) < len(c.ScalarColorCodes) {
		code = c.ScalarColorCodes[kind]
	}
	c.print(p, code, literal)
}

// PrintKey prints the literal of an object key.
func (c *Colorizer) PrintKey(p Printer, literal []byte) {
	var code []byte
	if c != nil {
		code = c.KeyColorCode
	}
	c.print(p, code, literal)
}

func (c *Colorizer) print(p Printer, code, literal []byte) {
	if len(code) == 0 {
		p.PrintBytes(literal)
		return
	}
	p.PrintBytes(code)
	p.PrintBytes(literal)
	p.PrintBytes(c.ResetCode)
}

// Some color ANSI codes
var (
	Reset = []byte("\033[0m")

	Red     = []byte("\033[31m")
	Green   = []byte("\033[32m")
	Yellow  = []byte("\033[33m")
	Blue    = []byte("\033[34m")
	White   = []byte("\033[37m")
	DimGray = []byte("\033[37;2m")

	BrightBlue = []byte("\033[34;1m")
)

// DefaultColorizer is used for coloured JSON output.
var DefaultColorizer = Colorizer{
	ScalarColorCodes: [4][]byte{DimGray, Yellow, White, Green},
	KeyColorCode:     BrightBlue,
	ResetCode:        Reset,
}
