package json

import (
	"fmt"

	"github.com/arnodel/yq/document"
	"github.com/arnodel/yq/internal/format"
	"github.com/arnodel/yq/token"
)

// An Encoder writes Documents as JSON using the given Printer for layout.  A
// printer with a negative indent size gives jq's compact output.
type Encoder struct {
	format.Printer
	*format.Colorizer

	// If positive, arrays of scalars that fit within this many bytes are
	// written on a single line.
	CompactWidthLimit int
}

// Encode writes doc followed by a new line.  Errors returned come from the
// underlying writer.
func (e *Encoder) Encode(doc document.Document) (err error) {
	defer format.CatchPrinterError(&err)
	e.writeValue(doc)
	e.PrintBytes(newLineBytes)
	return nil
}

// EncodeAll writes each document in turn, as a JSON text stream.
func (e *Encoder) EncodeAll(docs []document.Document) error {
	for _, doc := range docs {
		if err := e.Encode(doc); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) compact() bool {
	p, ok := e.Printer.(*format.DefaultPrinter)
	return ok && p.IndentSize < 0
}

func (e *Encoder) writeValue(doc document.Document) {
	switch doc.Kind() {
	case document.Null:
		e.Colorizer.PrintScalar(e.Printer, doc.Kind(), nullBytes)
	case document.Boolean:
		lit := falseBytes
		if doc.Bool() {
			lit = trueBytes
		}
		e.Colorizer.PrintScalar(e.Printer, doc.Kind(), lit)
	case document.Number:
		e.Colorizer.PrintScalar(e.Printer, doc.Kind(), []byte(doc.Literal()))
	case document.String:
		e.Colorizer.PrintScalar(e.Printer, doc.Kind(), token.QuoteString(doc.Str()))
	case document.Object:
		e.writeObject(doc)
	case document.Array:
		if e.CompactWidthLimit > 0 && !e.compact() && e.fitsOnOneLine(doc) {
			e.writeArrayInline(doc)
		} else {
			e.writeArray(doc)
		}
	default:
		panic(fmt.Sprintf("invalid document kind: %s", doc.Kind()))
	}
}

func (e *Encoder) writeObject(obj document.Document) {
	e.PrintBytes(openObjectBytes)
	kvSep := keyValueSeparatorBytes
	if e.compact() {
		kvSep = compactKeyValueSeparatorBytes
	}
	for i, m := range obj.Members() {
		if i > 0 {
			e.PrintBytes(itemSeparatorBytes)
			e.NewLine()
		} else {
			e.Indent()
		}
		e.Colorizer.PrintKey(e.Printer, token.QuoteString(m.Key))
		e.PrintBytes(kvSep)
		e.writeValue(m.Value)
	}
	if obj.Len() > 0 {
		e.Dedent()
	}
	e.PrintBytes(closeObjectBytes)
}

func (e *Encoder) writeArray(arr document.Document) {
	e.PrintBytes(openArrayBytes)
	for i, item := range arr.Items() {
		if i > 0 {
			e.PrintBytes(itemSeparatorBytes)
			e.NewLine()
		} else {
			e.Indent()
		}
		e.writeValue(item)
	}
	if arr.Len() > 0 {
		e.Dedent()
	}
	e.PrintBytes(closeArrayBytes)
}

// Arrays of small scalars are grouped on one line, e.g.
//
//	[1, 2, 3, 4]
func (e *Encoder) writeArrayInline(arr document.Document) {
	e.PrintBytes(openArrayBytes)
	for i, item := range arr.Items() {
		if i > 0 {
			e.PrintBytes(compactItemSeparatorBytes)
		}
		e.writeValue(item)
	}
	e.PrintBytes(closeArrayBytes)
}

func (e *Encoder) fitsOnOneLine(arr document.Document) bool {
	if arr.Len() == 0 {
		return false
	}
	width := -2
	for _, item := range arr.Items() {
		switch item.Kind() {
		case document.Object, document.Array:
			return false
		}
		width += len(item.AppendJSON(nil)) + 2
		if width > e.CompactWidthLimit {
			return false
		}
	}
	return true
}

var (
	openObjectBytes               = []byte("{")
	closeObjectBytes              = []byte("}")
	openArrayBytes                = []byte("[")
	closeArrayBytes               = []byte("]")
	itemSeparatorBytes            = []byte(",")
	compactItemSeparatorBytes     = []byte(", ")
	keyValueSeparatorBytes        = []byte(": ")
	compactKeyValueSeparatorBytes = []byte(":")
	newLineBytes                  = []byte("\n")
)
