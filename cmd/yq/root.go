package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/arnodel/yq"
	"github.com/arnodel/yq/internal/config"
	"github.com/arnodel/yq/internal/logger"
	"github.com/arnodel/yq/query"
	"github.com/arnodel/yq/which"
)

// options holds the flags shared by all commands.  Once the configuration is
// loaded, cfg holds the effective settings.
type options struct {
	configPath string
	verbose    bool

	input   string
	output  string
	compact bool

	// Flags that override the configuration file
	jq       string
	timeout  time.Duration
	indent   int
	color    string
	docStart bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "yq [flags] QUERY [FILE...]",
		Short: "Run jq queries over YAML and JSON documents",
		Long: `yq runs a jq query over YAML or JSON documents.

Input is read from the given files, or from stdin.  YAML documents and JSON
values are each fed to jq as a separate input.  When jq prints several values
the result is a sequence of them.  Output is YAML when the input is YAML,
unless -o json is given.

jq must be installed; it is looked up in PATH on every run.`,
		Example: `  yq .metadata.name deployment.yaml
  yq -o json '.items[] | .name' < list.yaml
  kubectl get pods -o json | yq '.items[].metadata.name'`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, opts, args[0], args[1:])
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "configuration file (default $YQ_CONFIG or <config dir>/yq/config.toml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log how jq is found and run to stderr")
	flags.StringVarP(&opts.input, "input", "i", "auto", "input format: auto, yaml, json")
	flags.StringVarP(&opts.output, "output", "o", "auto", "output format: auto, yaml, json")
	flags.BoolVarP(&opts.compact, "compact", "c", false, "output JSON on a single line")
	flags.StringVar(&opts.jq, "jq", "", "name or path of the jq program (default \"jq\")")
	flags.DurationVar(&opts.timeout, "timeout", 0, "kill jq if it runs for longer than this (0 means no limit)")
	flags.IntVar(&opts.indent, "indent", 2, "indentation of YAML and JSON output")
	flags.StringVar(&opts.color, "color", "auto", "colorize JSON output: auto, always, never")
	flags.BoolVar(&opts.docStart, "doc-start", false, "start YAML output with \"---\"")

	cmd.AddCommand(
		newConvertCmd(opts),
		newWhichCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load reads the configuration then applies the flags given on the command
// line.
func (o *options) load(cmd *cobra.Command) error {
	logger.SetVerbose(o.verbose)
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	logger.Debug("config: loading %s", path)
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("jq") {
		cfg.JQ = o.jq
	}
	if flags.Changed("timeout") {
		cfg.Timeout = config.Duration(o.timeout)
	}
	if flags.Changed("indent") {
		cfg.Indent = o.indent
	}
	if flags.Changed("color") {
		cfg.Color = o.color
	}
	if flags.Changed("doc-start") {
		cfg.ExplicitStart = o.docStart
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

func (o *options) client() *yq.Client {
	return &yq.Client{
		Program:  o.cfg.JQ,
		Resolver: which.FromEnv(),
		Runner:   &query.Runner{Timeout: time.Duration(o.cfg.Timeout)},
	}
}

func runQuery(cmd *cobra.Command, opts *options, q string, files []string) error {
	inputs, inFormat, err := readInputs(cmd, opts.input, files)
	if err != nil {
		return err
	}
	logger.Info("running %q over %d %s input(s)", q, len(inputs), inFormat)
	result, err := opts.client().Search(cmd.Context(), q, inputs...)
	if err != nil {
		return err
	}
	outFormat := opts.output
	if outFormat == "auto" {
		outFormat = inFormat
	}
	return writeOutput(cmd, opts, outFormat, result)
}
