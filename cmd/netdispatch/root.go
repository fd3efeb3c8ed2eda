package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var longHelp = strings.TrimSpace(`
Send a single HTTP request described by flags or a config file, classify the
status code and print the decoded body.

Configuration is read from --config, $NETDISPATCH_CONFIG_PATH, or a
config.yaml/config.yml/config.json/config.toml next to the working directory
or the binary. Flags override file values only when set.
`)

var exampleUsage = strings.TrimSpace(`
  netdispatch request --base-url https://api.example.com --path /items --query q="a b"
  netdispatch request --method POST --path /items --body-json '{"name":"widget"}' --header X-Tenant:acme
  netdispatch version
`)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "netdispatch",
		Short:         "Declarative HTTP request dispatcher",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (yaml, yml, json or toml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "log format (console, text, json)")

	root.AddCommand(newRequestCmd(opts), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "netdispatch", versionString())
			return err
		},
	}
}
