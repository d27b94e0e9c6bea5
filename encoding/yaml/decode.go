// Package yaml converts between YAML text and Documents.  It relies on
// gopkg.in/yaml.v3 for parsing and emitting, working at the node level so
// that the order of mapping keys is preserved.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/arnodel/yq/document"
)

// Parse converts YAML text to a Document.  Text without any document gives
// null, text with several documents gives an array of them.
func Parse(text []byte) (document.Document, error) {
	docs, err := ParseAll(bytes.NewReader(text))
	if err != nil {
		return document.Document{}, err
	}
	switch len(docs) {
	case 0:
		return document.NewNull(), nil
	case 1:
		return docs[0], nil
	default:
		return document.NewArray(docs...), nil
	}
}

// ParseAll reads all the documents of a YAML stream.
func ParseAll(r io.Reader) ([]document.Document, error) {
	dec := yaml.NewDecoder(r)
	var docs []document.Document
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		doc, err := FromNode(&node)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
}

// FromNode converts a yaml.v3 node to a Document.
func FromNode(node *yaml.Node) (document.Document, error) {
	c := converter{expanding: map[*yaml.Node]bool{}}
	return c.convert(node)
}

// A ConversionError reports a YAML value that has no JSON equivalent.
type ConversionError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("yaml: line %d: %s", e.Line, e.Msg)
}

func conversionError(node *yaml.Node, format string, args ...any) error {
	return &ConversionError{Line: node.Line, Column: node.Column, Msg: fmt.Sprintf(format, args...)}
}

type converter struct {
	// Anchored nodes currently being converted, to detect recursive aliases.
	expanding map[*yaml.Node]bool

	// Number of nodes converted, and how many of those were reached through
	// an alias.
	converted, aliased int
	aliasDepth         int
}

// allowedAliasRatio is the largest share of aliased nodes tolerated once
// converted nodes reach the given count.  The bounds are those yaml.v3 uses
// when decoding into Go values.
func allowedAliasRatio(converted int) float64 {
	switch {
	case converted <= 400_000:
		return 0.99
	case converted >= 4_000_000:
		return 0.10
	default:
		return 0.99 - 0.89*float64(converted-400_000)/3_600_000
	}
}

func (c *converter) convert(node *yaml.Node) (document.Document, error) {
	c.converted++
	if c.aliasDepth > 0 {
		c.aliased++
	}
	if c.aliased > 100 && c.converted > 1000 && float64(c.aliased)/float64(c.converted) > allowedAliasRatio(c.converted) {
		return document.Document{}, conversionError(node, "document contains excessive aliasing")
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return document.NewNull(), nil
		}
		return c.convert(node.Content[0])
	case yaml.AliasNode:
		return c.convertAlias(node)
	case yaml.MappingNode:
		return c.convertMapping(node)
	case yaml.SequenceNode:
		arr := document.NewArray()
		for _, item := range node.Content {
			v, err := c.convert(item)
			if err != nil {
				return document.Document{}, err
			}
			arr.Append(v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return convertScalar(node)
	default:
		return document.Document{}, conversionError(node, "unsupported node kind %d", node.Kind)
	}
}

func (c *converter) convertAlias(node *yaml.Node) (document.Document, error) {
	target := node.Alias
	if target == nil {
		return document.Document{}, conversionError(node, "unknown anchor %q", node.Value)
	}
	if c.expanding[target] {
		return document.Document{}, conversionError(node, "recursive alias %q", node.Value)
	}
	c.expanding[target] = true
	c.aliasDepth++
	defer func() {
		delete(c.expanding, target)
		c.aliasDepth--
	}()
	return c.convert(target)
}

func (c *converter) convertMapping(node *yaml.Node) (document.Document, error) {
	obj := document.NewObject()

	// Explicit keys take precedence over merged ones wherever they appear.
	explicit := map[string]bool{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		if isMerge(keyNode) {
			continue
		}
		key, err := c.keyString(keyNode)
		if err != nil {
			return document.Document{}, err
		}
		explicit[key] = true
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]
		if isMerge(keyNode) {
			if err := c.merge(&obj, valueNode, explicit); err != nil {
				return document.Document{}, err
			}
			continue
		}
		key, err := c.keyString(keyNode)
		if err != nil {
			return document.Document{}, err
		}
		value, err := c.convert(valueNode)
		if err != nil {
			return document.Document{}, err
		}
		obj.Set(key, value)
	}
	return obj, nil
}

func isMerge(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!merge"
}

// merge adds the members of the mapping (or sequence of mappings) in value
// which are not explicitly set.  In a sequence, earlier mappings win.
func (c *converter) merge(obj *document.Document, value *yaml.Node, explicit map[string]bool) error {
	var sources []*yaml.Node
	if value.Kind == yaml.SequenceNode {
		sources = value.Content
	} else {
		sources = []*yaml.Node{value}
	}
	for _, src := range sources {
		merged, err := c.convert(src)
		if err != nil {
			return err
		}
		if merged.Kind() != document.Object {
			return conversionError(src, "merge value is a %s, not a mapping", merged.Kind())
		}
		for _, m := range merged.Members() {
			if explicit[m.Key] {
				continue
			}
			if _, ok := obj.Get(m.Key); ok {
				continue
			}
			obj.Set(m.Key, m.Value)
		}
	}
	return nil
}

// keyString returns the JSON key for a mapping key.  Scalars use their text,
// other keys cannot be represented.
func (c *converter) keyString(node *yaml.Node) (string, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return "", conversionError(node, "mapping key must be a scalar")
	}
	if node.ShortTag() == "!!null" {
		return "null", nil
	}
	return node.Value, nil
}

func convertScalar(node *yaml.Node) (document.Document, error) {
	switch node.ShortTag() {
	case "!!null":
		return document.NewNull(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return document.Document{}, err
		}
		return document.NewBool(b), nil
	case "!!int":
		if doc, ok := document.ParseNumber(node.Value); ok {
			return doc, nil
		}
		var v any
		if err := node.Decode(&v); err != nil {
			return document.Document{}, err
		}
		switch n := v.(type) {
		case int:
			return document.NewInt(int64(n)), nil
		case int64:
			return document.NewInt(n), nil
		case uint64:
			return document.NewNumber(strconv.FormatUint(n, 10)), nil
		case float64:
			return floatDocument(node, n)
		default:
			return document.Document{}, conversionError(node, "cannot convert integer %q", node.Value)
		}
	case "!!float":
		if doc, ok := document.ParseNumber(node.Value); ok {
			return doc, nil
		}
		var x float64
		if err := node.Decode(&x); err != nil {
			return document.Document{}, err
		}
		return floatDocument(node, x)
	default:
		// Strings, timestamps, binary data and custom tags keep their text.
		return document.NewString(node.Value), nil
	}
}

func floatDocument(node *yaml.Node, x float64) (document.Document, error) {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return document.Document{}, conversionError(node, "%s cannot be represented in JSON", node.Value)
	}
	return document.NewFloat(x), nil
}
