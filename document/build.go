package document

import (
	"errors"
	"fmt"

	"github.com/arnodel/yq/token"
)

// ErrIncompleteStream is returned by FromTokens when the token stream ends in
// the middle of a value.
var ErrIncompleteStream = errors.New("token stream ended inside a value")

// FromTokens reads exactly one value from the stream and returns it as a
// Document.  It returns ErrIncompleteStream if the stream is exhausted before
// the value is complete, including when it is empty.
func FromTokens(stream token.ReadStream) (Document, error) {
	tok := stream.Next()
	if tok == nil {
		return Document{}, ErrIncompleteStream
	}
	return buildValue(tok, stream)
}

func buildValue(first token.Token, stream token.ReadStream) (Document, error) {
	switch t := first.(type) {
	case *token.Scalar:
		if t.IsKey() {
			return Document{}, fmt.Errorf("unexpected %s outside an object", t)
		}
		return fromScalar(t), nil
	case *token.StartArray:
		arr := NewArray()
		for {
			tok := stream.Next()
			switch tok.(type) {
			case nil:
				return Document{}, ErrIncompleteStream
			case *token.EndArray:
				return arr, nil
			}
			item, err := buildValue(tok, stream)
			if err != nil {
				return Document{}, err
			}
			arr.Append(item)
		}
	case *token.StartObject:
		obj := NewObject()
		for {
			tok := stream.Next()
			var key *token.Scalar
			switch k := tok.(type) {
			case nil:
				return Document{}, ErrIncompleteStream
			case *token.EndObject:
				return obj, nil
			case *token.Scalar:
				if k.Type() != token.String {
					return Document{}, fmt.Errorf("invalid object key %s", k)
				}
				key = k
			default:
				return Document{}, fmt.Errorf("expected object key, got %s", tok)
			}
			next := stream.Next()
			if next == nil {
				return Document{}, ErrIncompleteStream
			}
			value, err := buildValue(next, stream)
			if err != nil {
				return Document{}, err
			}
			obj.Set(key.ToString(), value)
		}
	default:
		return Document{}, fmt.Errorf("unexpected %s", first)
	}
}

func fromScalar(s *token.Scalar) Document {
	switch s.Type() {
	case token.Null:
		return NewNull()
	case token.Boolean:
		return NewBool(s.Bytes[0] == 't')
	case token.Number:
		return NewNumber(string(s.Bytes))
	default:
		return NewString(s.ToString())
	}
}
