package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/arnodel/yq/document"
	"github.com/arnodel/yq/encoding/json"
	"github.com/arnodel/yq/encoding/yaml"
	"github.com/arnodel/yq/internal/format"
	"github.com/arnodel/yq/internal/logger"
	"github.com/arnodel/yq/stream"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

type formatGuesser struct {
	pattern *regexp.Regexp
	format  string
}

// YAML is the fallback, it accepts most JSON too.
var formatGuessers = []formatGuesser{
	{pattern: regexp.MustCompile(`^\s*[{\["]`), format: formatJSON},
}

func guessFormat(start []byte) string {
	for _, guesser := range formatGuessers {
		if guesser.pattern.Match(start) {
			return guesser.format
		}
	}
	return formatYAML
}

// readInputs decodes the given files, or stdin if there are none.  It returns
// the documents and the format of the input.
func readInputs(cmd *cobra.Command, inFormat string, files []string) ([]document.Document, string, error) {
	switch inFormat {
	case "auto", formatYAML, formatJSON:
	default:
		return nil, "", fmt.Errorf("invalid input format: %q", inFormat)
	}
	if len(files) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("unable to read input: %w", err)
		}
		return decodeInput("<stdin>", data, inFormat)
	}
	var all []document.Document
	var detected string
	for _, name := range files {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, "", err
		}
		docs, f, err := decodeInput(name, data, inFormat)
		if err != nil {
			return nil, "", err
		}
		// YAML output as soon as one input is YAML.
		if detected != formatYAML {
			detected = f
		}
		all = append(all, docs...)
	}
	return all, detected, nil
}

func decodeInput(name string, data []byte, inFormat string) ([]document.Document, string, error) {
	auto := inFormat == "auto"
	if auto {
		inFormat = guessFormat(data)
		logger.Debug("input: %s looks like %s", name, inFormat)
	}
	if inFormat == formatJSON {
		docs, err := stream.Values(data)
		if err == nil || !auto {
			if err != nil {
				return nil, "", fmt.Errorf("%s: %w", name, err)
			}
			return docs, formatJSON, nil
		}
		// YAML flow collections look like JSON.
		logger.Debug("input: %s is not JSON, trying YAML: %s", name, err)
	}
	docs, err := yaml.ParseAll(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", name, err)
	}
	return docs, formatYAML, nil
}

// writeOutput writes the documents to the command's output in the given
// format.
func writeOutput(cmd *cobra.Command, opts *options, outFormat string, docs ...document.Document) error {
	var colorizer *format.Colorizer
	w := cmd.OutOrStdout()
	if outFormat == formatJSON {
		w, colorizer = colorOutput(w, opts.cfg.Color)
	}
	out := bufio.NewWriter(w)
	if err := encodeOutput(out, opts, outFormat, colorizer, docs); err != nil {
		return err
	}
	return out.Flush()
}

func encodeOutput(w io.Writer, opts *options, outFormat string, colorizer *format.Colorizer, docs []document.Document) error {
	switch outFormat {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.Indent = opts.cfg.Indent
		enc.ExplicitStart = opts.cfg.ExplicitStart
		for _, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return err
			}
		}
		return nil
	case formatJSON:
		indent := opts.cfg.Indent
		if opts.compact {
			indent = -1
		}
		enc := &json.Encoder{
			Printer:           &format.DefaultPrinter{Writer: w, IndentSize: indent},
			Colorizer:         colorizer,
			CompactWidthLimit: 60,
		}
		return enc.EncodeAll(docs)
	default:
		return fmt.Errorf("invalid output format: %q", outFormat)
	}
}

// colorOutput decides whether JSON output is coloured.  In auto mode colours
// are used when stdout is a terminal.  When writing to stdout, w is wrapped
// so that escape codes also work on Windows consoles.
func colorOutput(w io.Writer, mode string) (io.Writer, *format.Colorizer) {
	f, isFile := w.(*os.File)
	switch mode {
	case "never":
		return w, nil
	case "auto":
		if !isFile || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			return w, nil
		}
	}
	if isFile && f == os.Stdout {
		return colorable.NewColorableStdout(), &format.DefaultColorizer
	}
	return w, &format.DefaultColorizer
}
