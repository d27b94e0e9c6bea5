package yq

import (
	"bytes"
	"context"
	"path/filepath"

	"github.com/arnodel/yq/document"
	"github.com/arnodel/yq/encoding/yaml"
	"github.com/arnodel/yq/query"
	"github.com/arnodel/yq/stream"
	"github.com/arnodel/yq/which"
)

// DefaultProgram is the name of the program looked up when Client.Program is
// empty.
const DefaultProgram = "jq"

// A Client runs jq queries.  The zero value looks up "jq" in the current PATH
// and runs it without a time limit.
type Client struct {
	// Name of the program to look up, or an absolute path to it.
	Program string

	// Used to find Program.  If nil, which.FromEnv() is used on every call.
	Resolver *which.Resolver

	// Used to run Program.  If nil, a zero Runner is used.
	Runner *query.Runner
}

// Path returns the path of the query program.  It is resolved on every call,
// the result is never cached.
func (c *Client) Path() (string, error) {
	program := c.Program
	if program == "" {
		program = DefaultProgram
	}
	if filepath.IsAbs(program) {
		return program, nil
	}
	resolver := c.Resolver
	if resolver == nil {
		resolver = which.FromEnv()
	}
	return resolver.Resolve(program)
}

// Search runs q with each of the inputs fed to jq in turn, and returns the
// normalized output: the single value jq printed, or an array of all the
// values it printed.
func (c *Client) Search(ctx context.Context, q string, inputs ...document.Document) (document.Document, error) {
	path, err := c.Path()
	if err != nil {
		return document.Document{}, err
	}
	var payload bytes.Buffer
	for _, input := range inputs {
		payload.Write(input.AppendJSON(nil))
		payload.WriteByte('\n')
	}
	runner := c.Runner
	if runner == nil {
		runner = &query.Runner{}
	}
	res, err := runner.Run(ctx, path, q, &payload)
	if err != nil {
		return document.Document{}, err
	}
	return stream.Normalize(res.Stdout)
}

// SearchJSON runs q over a JSON text stream.  Each value of the stream is a
// separate input to jq.
func (c *Client) SearchJSON(ctx context.Context, q string, jsonText []byte) (document.Document, error) {
	inputs, err := stream.Values(jsonText)
	if err != nil {
		return document.Document{}, err
	}
	return c.Search(ctx, q, inputs...)
}

// SearchYAML runs q over a YAML stream and returns the result as YAML.  Each
// document of the stream is a separate input to jq.
func (c *Client) SearchYAML(ctx context.Context, q string, yamlText []byte) ([]byte, error) {
	inputs, err := yaml.ParseAll(bytes.NewReader(yamlText))
	if err != nil {
		return nil, err
	}
	result, err := c.Search(ctx, q, inputs...)
	if err != nil {
		return nil, err
	}
	return yaml.Render(result)
}

// YAMLToJSON converts YAML text to compact JSON.  Several YAML documents give
// a JSON array.
func YAMLToJSON(yamlText []byte) ([]byte, error) {
	doc, err := yaml.Parse(yamlText)
	if err != nil {
		return nil, err
	}
	return doc.AppendJSON(nil), nil
}

// JSONToYAML converts a JSON text stream to YAML.  A stream of several values
// gives a YAML sequence.
func JSONToYAML(jsonText []byte) ([]byte, error) {
	doc, err := stream.Normalize(jsonText)
	if err != nil {
		return nil, err
	}
	return yaml.Render(doc)
}
