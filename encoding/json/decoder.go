package json

import (
	"fmt"
	"io"

	"github.com/arnodel/yq/internal/scanner"
	"github.com/arnodel/yq/token"
)

// A Decoder reads a JSON text stream, i.e. any number of JSON values separated
// by optional whitespace, and turns it into tokens.
type Decoder struct {
	scanr *scanner.Scanner
}

// NewDecoder sets up a new Decoder instance to read from the given input.
func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{scanr: scanner.NewScanner(in)}
}

// Decode reads the next JSON value of the stream and writes its tokens to
// out.  It returns io.EOF when there are no more values.  Invalid input
// results in a *SyntaxError; in that case some tokens of the incomplete value
// may already have been written to out.
func (d *Decoder) Decode(out token.WriteStream) error {
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	if b == scanner.EOF && d.scanr.AtEOF() {
		return io.EOF
	}
	return d.parseValue(out)
}

// Offset returns the number of input bytes consumed so far.
func (d *Decoder) Offset() int64 {
	return d.scanr.Offset()
}

func (d *Decoder) parseValue(out token.WriteStream) error {
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	switch b {
	case '"':
		s, err := parseString(d.scanr)
		if err != nil {
			return err
		}
		out.Put(s)
		return nil
	case '[':
		return d.parseArray(out)
	case '{':
		return d.parseObject(out)
	case 't':
		return d.parseLiteral(out, trueBytes, token.TrueScalar)
	case 'f':
		return d.parseLiteral(out, falseBytes, token.FalseScalar)
	case 'n':
		return d.parseLiteral(out, nullBytes, token.NullScalar)
	default:
		if b == '-' || scanner.IsDigit(b) {
			n, err := parseNumber(d.scanr)
			if err != nil {
				return err
			}
			if err := expectDelimiter(d.scanr); err != nil {
				return err
			}
			out.Put(n)
			return nil
		}
		return unexpectedByte(d.scanr, "expected value, got")
	}
}

func (d *Decoder) parseLiteral(out token.WriteStream, expected []byte, tok *token.Scalar) error {
	for _, xb := range expected {
		if err := expectByte(d.scanr, xb); err != nil {
			return err
		}
	}
	if err := expectDelimiter(d.scanr); err != nil {
		return err
	}
	out.Put(tok)
	return nil
}

func (d *Decoder) parseArray(out token.WriteStream) error {
	var b byte
	var err error
	err = expectByte(d.scanr, '[')
	if err != nil {
		return err
	}
	out.Put(&token.StartArray{})
	b, err = d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	if b == ']' {
		d.scanr.Read()
		out.Put(&token.EndArray{})
		return nil
	}
	for {
		err = d.parseValue(out)
		if err != nil {
			return err
		}
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		switch b {
		case ']':
			d.scanr.Read()
			out.Put(&token.EndArray{})
			return nil
		case ',':
			d.scanr.Read()
		default:
			return unexpectedByte(d.scanr, "expected ']' or ',', got")
		}
	}
}

func (d *Decoder) parseObject(out token.WriteStream) error {
	var b byte
	err := expectByte(d.scanr, '{')
	if err != nil {
		return err
	}
	out.Put(&token.StartObject{})
	b, err = d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return err
	}
	if b == '}' {
		d.scanr.Read()
		out.Put(&token.EndObject{})
		return nil
	}
	for {
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		if b != '"' {
			return unexpectedByte(d.scanr, "expected string key, got")
		}
		key, err := parseString(d.scanr)
		if err != nil {
			return err
		}
		key.TypeAndFlags |= token.KeyMask
		out.Put(key)
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		if b != ':' {
			return unexpectedByte(d.scanr, "expected ':', got")
		}
		d.scanr.Read()
		err = d.parseValue(out)
		if err != nil {
			return err
		}
		b, err = d.scanr.SkipSpaceAndPeek()
		if err != nil {
			return err
		}
		switch b {
		case '}':
			d.scanr.Read()
			out.Put(&token.EndObject{})
			return nil
		case ',':
			d.scanr.Read()
		default:
			return unexpectedByte(d.scanr, "expected '}' or ',', got")
		}
	}
}

func expectByte(scanr *scanner.Scanner, xb byte) error {
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	if b != xb {
		scanr.Back()
		return unexpectedByte(scanr, "expected %q, got", xb)
	}
	return nil
}

// expectDelimiter checks that a number or literal is not immediately followed
// by something that would make it part of a larger invalid token, e.g. "01" or
// "nulltrue".
func expectDelimiter(scanr *scanner.Scanner) error {
	b, err := scanr.Peek()
	if err != nil {
		return err
	}
	if scanr.AtEOF() || isDelimiter(b) {
		return nil
	}
	return unexpectedByte(scanr, "expected delimiter, got")
}

func isDelimiter(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', ',', ':', '[', ']', '{', '}', '"':
		return true
	}
	return false
}

// unexpectedByte builds a *SyntaxError located at the current position,
// describing the byte found there.
func unexpectedByte(scanr *scanner.Scanner, expected string, args ...interface{}) error {
	pos := scanr.CurrentPos()
	offset := scanr.Offset()
	b, err := scanr.Read()
	if err != nil {
		return err
	}
	found := "<EOF>"
	if !scanr.AtEOF() {
		found = fmt.Sprintf("%q", b)
	}
	return &SyntaxError{
		Msg:    fmt.Sprintf(expected, args...) + ": " + found,
		Offset: offset,
		Line:   pos.Line + 1,
		Col:    pos.Col + 1,
	}
}

func parseString(scanr *scanner.Scanner) (*token.Scalar, error) {
	scanr.StartToken()
	err := expectByte(scanr, '"')
	if err != nil {
		scanr.AbortToken()
		return nil, err
	}
	isUnescaped := true
	for {
		b, err := scanr.Read()
		if err != nil {
			scanr.AbortToken()
			return nil, err
		}
		switch {
		case b == '\\':
			isUnescaped = false
			x, err := scanr.Read()
			if err != nil {
				scanr.AbortToken()
				return nil, err
			}
			switch x {
			case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
				continue
			case 'u':
				for i := 0; i < 4; i++ {
					b, err = scanr.Read()
					if err != nil {
						scanr.AbortToken()
						return nil, err
					}
					if !scanner.IsHex(b) {
						scanr.Back()
						scanr.AbortToken()
						return nil, unexpectedByte(scanr, "expected hex digit, got")
					}
				}
			default:
				scanr.Back()
				scanr.AbortToken()
				return nil, unexpectedByte(scanr, "invalid escape character")
			}
		case b == '"':
			scalar := token.NewScalar(token.String, scanr.EndToken())
			if isUnescaped {
				scalar.TypeAndFlags |= token.UnescapedMask
			}
			return scalar, nil
		case b == scanner.EOF && scanr.AtEOF():
			scanr.Back()
			scanr.AbortToken()
			return nil, unexpectedByte(scanr, "unterminated string")
		case scanner.IsCtrl(b):
			scanr.Back()
			scanr.AbortToken()
			return nil, unexpectedByte(scanr, "invalid control character in string")
		}
	}
}

func parseNumber(scanr *scanner.Scanner) (*token.Scalar, error) {
	scanr.StartToken()
	var n int
	b, err := scanr.Read()

	// Sign part
	if b == '-' {
		b, err = scanr.Read()
	}
	if err != nil {
		scanr.AbortToken()
		return nil, err
	}

	// Integer part
	if b == '0' {
		b, err = scanr.Read()
	} else if b >= '1' && b <= '9' {
		b, _, err = readDigits(scanr)
	} else {
		scanr.Back()
		scanr.AbortToken()
		return nil, unexpectedByte(scanr, "expected digit, got")
	}
	if err != nil {
		scanr.AbortToken()
		return nil, err
	}

	// Fraction part
	if b == '.' {
		b, n, err = readDigits(scanr)
		if err != nil {
			scanr.AbortToken()
			return nil, err
		}
		if n == 0 {
			scanr.Back()
			scanr.AbortToken()
			return nil, unexpectedByte(scanr, "expected digit, got")
		}
	}

	// Exponent part
	if b == 'e' || b == 'E' {
		b, err = scanr.Peek()
		if err != nil {
			scanr.AbortToken()
			return nil, err
		}
		if b == '-' || b == '+' {
			scanr.Read()
		}
		_, n, err = readDigits(scanr)
		if err != nil {
			scanr.AbortToken()
			return nil, err
		}
		if n == 0 {
			scanr.Back()
			scanr.AbortToken()
			return nil, unexpectedByte(scanr, "expected digit, got")
		}
	}
	scanr.Back()
	return token.NewScalar(token.Number, scanr.EndToken()), nil
}

func readDigits(scanr *scanner.Scanner) (byte, int, error) {
	var n int
	for {
		b, err := scanr.Read()
		if err != nil {
			return 0, n, err
		}
		if !scanner.IsDigit(b) {
			return b, n, nil
		}
		n++
	}
}

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)
