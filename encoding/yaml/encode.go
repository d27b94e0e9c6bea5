package yaml

import (
	"bytes"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/arnodel/yq/document"
)

// Render returns doc as a YAML document indented with 2 spaces.
func Render(doc document.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// An Encoder writes Documents as a YAML stream.
type Encoder struct {
	w io.Writer

	// Number of spaces per indentation level.
	Indent int

	// If true the first document starts with "---" too.  Subsequent
	// documents are always separated by "---".
	ExplicitStart bool

	count int
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, Indent: 2}
}

// Encode writes doc as a YAML document.
func (e *Encoder) Encode(doc document.Document) error {
	if e.ExplicitStart || e.count > 0 {
		if _, err := io.WriteString(e.w, "---\n"); err != nil {
			return err
		}
	}
	e.count++
	enc := yaml.NewEncoder(e.w)
	if e.Indent > 0 {
		enc.SetIndent(e.Indent)
	}
	if err := enc.Encode(ToNode(doc)); err != nil {
		return err
	}
	return enc.Close()
}

// ToNode converts doc to a yaml.v3 node tree.
func ToNode(doc document.Document) *yaml.Node {
	switch doc.Kind() {
	case document.Null:
		return scalarNode("!!null", "null")
	case document.Boolean:
		if doc.Bool() {
			return scalarNode("!!bool", "true")
		}
		return scalarNode("!!bool", "false")
	case document.Number:
		if doc.IsInteger() {
			return scalarNode("!!int", doc.Literal())
		}
		return scalarNode("!!float", doc.Literal())
	case document.String:
		return scalarNode("!!str", doc.Str())
	case document.Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range doc.Members() {
			node.Content = append(node.Content, scalarNode("!!str", m.Key), ToNode(m.Value))
		}
		return node
	case document.Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range doc.Items() {
			node.Content = append(node.Content, ToNode(item))
		}
		return node
	default:
		panic("invalid document kind")
	}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
