package json

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/arnodel/yq/token"
)

// TestDecoderSimpleValues tests decoding of simple scalar values
func TestDecoderSimpleValues(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.Token
	}{
		{name: "true", input: "true", expected: []token.Token{token.TrueScalar}},
		{name: "false", input: "false", expected: []token.Token{token.FalseScalar}},
		{name: "null", input: "null", expected: []token.Token{token.NullScalar}},
		{name: "integer", input: "42", expected: []token.Token{tokenWithBytes(token.Number, "42")}},
		{name: "negative integer", input: "-123", expected: []token.Token{tokenWithBytes(token.Number, "-123")}},
		{name: "zero", input: "0", expected: []token.Token{tokenWithBytes(token.Number, "0")}},
		{name: "float", input: "3.14", expected: []token.Token{tokenWithBytes(token.Number, "3.14")}},
		{name: "scientific notation", input: "1.5e10", expected: []token.Token{tokenWithBytes(token.Number, "1.5e10")}},
		{name: "negative exponent", input: "2E-3", expected: []token.Token{tokenWithBytes(token.Number, "2E-3")}},
		{name: "simple string", input: `"hello"`, expected: []token.Token{tokenWithBytes(token.String, `"hello"`)}},
		{name: "empty string", input: `""`, expected: []token.Token{tokenWithBytes(token.String, `""`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := decodeString(t, tt.input)
			assertTokensEqual(t, tokens, tt.expected)
		})
	}
}

// TestDecoderStrings tests various string formats
func TestDecoderStrings(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		value     string
		unescaped bool
	}{
		{name: "spaces", input: `"hello world"`, value: "hello world", unescaped: true},
		{name: "escaped quotes", input: `"hello \"world\""`, value: `hello "world"`},
		{name: "backslash", input: `"hello\\world"`, value: `hello\world`},
		{name: "tab escape", input: `"\t"`, value: "\t"},
		{name: "single quote", input: `"'"`, value: "'", unescaped: true},
		{name: "unicode escape", input: `"caf\u00e9"`, value: "café"},
		{name: "surrogate pair", input: `"\ud83d\ude00"`, value: "😀"},
		{name: "raw utf8", input: `"日本語"`, value: "日本語", unescaped: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := decodeString(t, tt.input)
			if len(tokens) != 1 {
				t.Fatalf("expected 1 token, got %d", len(tokens))
			}
			s := tokens[0].(*token.Scalar)
			if s.Type() != token.String {
				t.Fatalf("expected a string, got %s", s.Type())
			}
			if string(s.Bytes) != tt.input {
				t.Errorf("expected bytes %q, got %q", tt.input, s.Bytes)
			}
			if s.IsUnescaped() != tt.unescaped {
				t.Errorf("expected IsUnescaped() = %t", tt.unescaped)
			}
			if got := s.ToString(); got != tt.value {
				t.Errorf("expected value %q, got %q", tt.value, got)
			}
		})
	}
}

func TestDecoderCollections(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []token.Token
	}{
		{
			name:     "empty array",
			input:    "[]",
			expected: []token.Token{&token.StartArray{}, &token.EndArray{}},
		},
		{
			name:     "empty object",
			input:    "{ }",
			expected: []token.Token{&token.StartObject{}, &token.EndObject{}},
		},
		{
			name:  "nested",
			input: `{"a": [1, {"b": null}], "'": true}`,
			expected: []token.Token{
				&token.StartObject{},
				token.NewKey([]byte(`"a"`)),
				&token.StartArray{},
				tokenWithBytes(token.Number, "1"),
				&token.StartObject{},
				token.NewKey([]byte(`"b"`)),
				token.NullScalar,
				&token.EndObject{},
				&token.EndArray{},
				token.NewKey([]byte(`"'"`)),
				token.TrueScalar,
				&token.EndObject{},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTokensEqual(t, decodeString(t, tt.input), tt.expected)
		})
	}
}

// TestDecoderStream checks that consecutive values are decoded one at a time.
func TestDecoderStream(t *testing.T) {
	decoder := NewDecoder(strings.NewReader("{\"a\":1}\n[2]  \"x\"3 \n\t"))
	expected := [][]token.Token{
		{&token.StartObject{}, token.NewKey([]byte(`"a"`)), tokenWithBytes(token.Number, "1"), &token.EndObject{}},
		{&token.StartArray{}, tokenWithBytes(token.Number, "2"), &token.EndArray{}},
		{tokenWithBytes(token.String, `"x"`)},
		{tokenWithBytes(token.Number, "3")},
	}
	for i, want := range expected {
		acc := token.NewAccumulatorStream()
		if err := decoder.Decode(acc); err != nil {
			t.Fatalf("value %d: unexpected error %s", i, err)
		}
		assertTokensEqual(t, acc.GetTokens(), want)
	}
	if err := decoder.Decode(token.NewAccumulatorStream()); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestDecoderErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		offset int64
		line   int
		col    int
		msg    string
	}{
		{name: "truncated object", input: `{"a": 1`, offset: 7, line: 1, col: 8, msg: "<EOF>"},
		{name: "truncated string", input: `["abc`, offset: 5, line: 1, col: 6, msg: "unterminated string"},
		{name: "truncated literal", input: "tru", offset: 3, line: 1, col: 4, msg: "expected 'e'"},
		{name: "bad literal", input: "nul1", offset: 3, line: 1, col: 4, msg: "expected 'l', got: '1'"},
		{name: "missing colon", input: `{"a" 1}`, offset: 5, line: 1, col: 6, msg: "expected ':'"},
		{name: "unquoted key", input: "{a: 1}", offset: 1, line: 1, col: 2, msg: "expected string key"},
		{name: "trailing comma", input: "[1,]", offset: 3, line: 1, col: 4, msg: "expected value"},
		{name: "bad number", input: "-x", offset: 1, line: 1, col: 2, msg: "expected digit"},
		{name: "bad fraction", input: "1.e5", offset: 2, line: 1, col: 3, msg: "expected digit"},
		{name: "bad escape", input: `"\x"`, offset: 2, line: 1, col: 3, msg: "invalid escape"},
		{name: "control character", input: "\"a\nb\"", offset: 2, line: 1, col: 3, msg: "invalid control character"},
		{name: "leading zero", input: "01", offset: 1, line: 1, col: 2, msg: "expected delimiter, got: '1'"},
		{name: "literal after number", input: "[1true]", offset: 2, line: 1, col: 3, msg: "expected delimiter"},
		{name: "literals run together", input: "nullfalse", offset: 4, line: 1, col: 5, msg: "expected delimiter"},
		{name: "0xff byte", input: "1 \xff 2", offset: 2, line: 1, col: 3, msg: "expected value"},
		{name: "on second line", input: "{}\n{\"a\":]", offset: 8, line: 2, col: 6, msg: "expected value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoder := NewDecoder(strings.NewReader(tt.input))
			var err error
			for err == nil {
				err = decoder.Decode(token.NewAccumulatorStream())
			}
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *SyntaxError, got %v", err)
			}
			if serr.Offset != tt.offset || serr.Line != tt.line || serr.Col != tt.col {
				t.Errorf("expected error at %d (L%d,C%d), got %d (L%d,C%d)", tt.offset, tt.line, tt.col, serr.Offset, serr.Line, serr.Col)
			}
			if !strings.Contains(serr.Error(), tt.msg) {
				t.Errorf("expected message containing %q, got %q", tt.msg, serr.Error())
			}
		})
	}
}

func TestDecoderLargeString(t *testing.T) {
	long := strings.Repeat("abcdefghij", 5000)
	tokens := decodeString(t, `["`+long+`"]`)
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if got := tokens[1].(*token.Scalar).ToString(); got != long {
		t.Fatalf("long string corrupted (length %d)", len(got))
	}
}

func TestDecoderDeepNesting(t *testing.T) {
	const depth = 100
	input := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	tokens := decodeString(t, input)
	if len(tokens) != 2*depth {
		t.Fatalf("expected %d tokens, got %d", 2*depth, len(tokens))
	}
}

// decodeString decodes all the values in input and returns their tokens.
func decodeString(t *testing.T, input string) []token.Token {
	t.Helper()
	decoder := NewDecoder(strings.NewReader(input))
	acc := token.NewAccumulatorStream()
	for {
		err := decoder.Decode(acc)
		if err == io.EOF {
			return acc.GetTokens()
		}
		if err != nil {
			t.Fatalf("decode error: %v", err)
		}
	}
}

// tokenWithBytes creates a scalar token with specific bytes
func tokenWithBytes(typ token.ScalarType, bytes string) *token.Scalar {
	return token.NewScalar(typ, []byte(bytes))
}

// assertTokensEqual compares two token slices
func assertTokensEqual(t *testing.T, got, want []token.Token) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v, want %v", got, want)
	}
	for i := range got {
		g, w := got[i], want[i]
		gScalar, gOk := g.(*token.Scalar)
		wScalar, wOk := w.(*token.Scalar)
		if gOk != wOk {
			t.Errorf("token %d: type mismatch: got %T, want %T", i, g, w)
			continue
		}
		if gOk {
			if gScalar.Type() != wScalar.Type() {
				t.Errorf("token %d: scalar type mismatch: got %v, want %v", i, gScalar.Type(), wScalar.Type())
			}
			if gScalar.IsKey() != wScalar.IsKey() {
				t.Errorf("token %d: key flag mismatch: got %s, want %s", i, gScalar, wScalar)
			}
			if string(gScalar.Bytes) != string(wScalar.Bytes) {
				t.Errorf("token %d: bytes mismatch: got %q, want %q", i, gScalar.Bytes, wScalar.Bytes)
			}
		} else if g.String() != w.String() {
			t.Errorf("token %d: got %s, want %s", i, g, w)
		}
	}
}
