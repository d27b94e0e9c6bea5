package main

import (
	"github.com/spf13/cobra"

	"github.com/arnodel/yq/stream"
)

func newConvertCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "convert [FILE...]",
		Short: "Convert between YAML and JSON without running jq",
		Long: `Convert YAML to JSON or JSON to YAML.

With -o auto (the default) YAML input gives JSON output and JSON input gives
YAML output.  A JSON text stream with several values, or a YAML stream with
several documents, becomes a single sequence.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, inFormat, err := readInputs(cmd, opts.input, args)
			if err != nil {
				return err
			}
			outFormat := opts.output
			if outFormat == "auto" {
				outFormat = formatJSON
				if inFormat == formatJSON {
					outFormat = formatYAML
				}
			}
			return writeOutput(cmd, opts, outFormat, stream.Collapse(docs))
		},
	}
}
