package main

import (
	"context"
	"fmt"
	"io"

	"github.com/acidbeast/network-dispatcher/internal/common"
	"github.com/acidbeast/network-dispatcher/internal/config"
	"github.com/acidbeast/network-dispatcher/internal/httpclient"
	"github.com/acidbeast/network-dispatcher/internal/logger"
	"github.com/acidbeast/network-dispatcher/pkg/dispatcher"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"
)

type requestOptions struct {
	baseURL    string
	path       string
	method     string
	query      []string
	headers    []string
	bodyJSON   string
	timeout    int
	showStatus bool
}

func newRequestCmd(global *globalOptions) *cobra.Command {
	opts := &requestOptions{}

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Send one request and print the decoded body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			cfg, err := loadConfig(global, opts, changed)
			if err != nil {
				return err
			}
			return runRequest(cmd.Context(), cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "absolute base URL (overrides request_config.base_url)")
	cmd.Flags().StringVar(&opts.path, "path", "", "resource path appended to the base URL")
	cmd.Flags().StringVarP(&opts.method, "method", "X", "", "HTTP method: GET, POST, PUT, PATCH or DELETE")
	cmd.Flags().StringArrayVarP(&opts.query, "query", "q", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.headers, "header", "H", nil, "request header as Name:value (repeatable)")
	cmd.Flags().StringVarP(&opts.bodyJSON, "body-json", "d", "", "JSON object sent as the request body")
	cmd.Flags().IntVar(&opts.timeout, "timeout", 0, "request timeout in seconds (overrides dispatcher_config.timeout_secs)")
	cmd.Flags().BoolVar(&opts.showStatus, "show-status", false, "print the status line to stderr")

	return cmd
}

// loadConfig reads the config file and applies flag values that were set explicitly.
func loadConfig(global *globalOptions, opts *requestOptions, changed map[string]bool) (*config.GlobalConfig, error) {
	cfg, err := config.LoadGlobalConfig(global.configPath, zerolog.Nop())
	if err != nil {
		return nil, common.WrapError(err, "load config")
	}

	if changed["log-level"] {
		cfg.LogConfig.LogLevel = global.logLevel
	}
	if changed["log-format"] {
		cfg.LogConfig.LogFormat = global.logFormat
	}
	if changed["base-url"] {
		cfg.RequestConfig.BaseURL = opts.baseURL
	}
	if changed["method"] {
		cfg.RequestConfig.Method = opts.method
	}
	if changed["timeout"] {
		cfg.DispatcherConfig.TimeoutSecs = opts.timeout
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRequest(ctx context.Context, cfg *config.GlobalConfig, opts *requestOptions, stdout, stderr io.Writer) error {
	appLogger, err := logger.NewLoggerBuilder().
		WithConfig(cfg.LogConfig).
		WithConsoleOutput(stderr).
		Build()
	if err != nil {
		return common.WrapError(err, "create logger")
	}
	defer appLogger.Close()
	log := *appLogger.GetZerolog()

	endpoint, err := buildEndpoint(cfg.RequestConfig, opts)
	if err != nil {
		return err
	}

	client, err := httpclient.NewHTTPClient(cfg.HTTPClientConfig.ClientConfig(), log)
	if err != nil {
		return common.WrapError(err, "create http client")
	}
	defer client.CloseIdleConnections()

	dispatcherOpts, err := cfg.DispatcherConfig.Options(log)
	if err != nil {
		return err
	}
	d := dispatcher.New(client, dispatcherOpts...)

	// Abort the in-flight call when the command context is cancelled.
	stop := context.AfterFunc(ctx, d.Cancel)
	defer stop()

	result := d.Do(ctx, endpoint)
	if opts.showStatus && result.Response() != nil {
		fmt.Fprintln(stderr, result.Response().String())
	}

	body, err := dispatcher.Decode[string](result)
	if err != nil {
		log.Debug().Str("kind", dispatcher.KindOf(err).String()).Err(err).Msg("Request failed")
		return err
	}

	_, err = fmt.Fprintln(stdout, body)
	return err
}
