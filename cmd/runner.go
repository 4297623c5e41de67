package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/fstat/internal/formatter"
	"github.com/desertthunder/fstat/internal/metrics"
	"github.com/desertthunder/fstat/internal/services"
	"github.com/desertthunder/fstat/internal/shared"
	"github.com/desertthunder/fstat/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Exit codes by failure category.
const (
	exitPlayerNotFound = 2
	exitAPIRequest     = 3
	exitInvalidInput   = 4
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	locale     string
	httpClient *http.Client
	transport  services.Transport
	localizer  *shared.Catalog
	pipeline   *tasks.Pipeline
	renderer   *formatter.Renderer
	metrics    *metrics.Manager
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Transport replaces the HTTP transport built from HTTPClient; tests use it to script FACEIT responses.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Locale     string
	HTTPClient *http.Client
	Transport  services.Transport
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		configPath: opts.ConfigPath,
		locale:     opts.Locale,
		httpClient: opts.HTTPClient,
		transport:  opts.Transport,
		logger:     opts.Logger,
		output:     opts.Output,
		metrics:    metrics.NewManager(),
	}
	r.configure(opts.Config)
	return r
}

// configure (re)builds the lookup stack from config.
func (r *Runner) configure(config *shared.Config) {
	r.config = config

	transport := r.transport
	if transport == nil {
		client := r.httpClient
		if client == nil {
			client = &http.Client{Timeout: config.HTTP.Timeout()}
		}
		transport = services.NewHTTPTransport(client, config.HTTP.UserAgent)
	}

	r.localizer = shared.NewCatalog(r.locale, config.Locale.Default)
	r.renderer = formatter.NewRenderer(r.localizer, config.Presentation.IconBaseURL)
	r.pipeline = tasks.NewFaceitPipeline(config.Faceit, transport, tasks.PipelineOpts{
		Localizer: r.localizer,
		Logger:    r.logger,
		Observer:  r.metrics,
	})
}

// SetLogger replaces the logger used by the runner and the lookup pipeline.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.configure(r.config)
}

// Before loads the config file and environment overrides, and applies the global flags.
//
// A missing config file is only an error when --config was given explicitly.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	config := r.config
	path := cmd.String("config")
	if path != "" {
		if _, err := os.Stat(path); err == nil || cmd.IsSet("config") {
			loaded, err := shared.LoadConfig(path)
			if err != nil {
				return ctx, err
			}
			config = loaded
			r.configPath = path
			r.logger.Debug("loaded config", "path", path)
		}
	}

	if err := shared.ApplyEnv(config); err != nil {
		return ctx, err
	}

	if locale := cmd.String("locale"); locale != "" {
		r.locale = locale
	}

	r.configure(config)
	return ctx, nil
}

// requireConfig fails early when the config cannot drive a lookup.
func (r *Runner) requireConfig() error {
	if err := r.config.Validate(); err != nil {
		return fmt.Errorf("%w (run 'fstat setup config' or set %sFACEIT__BEARER_TOKEN)", err, shared.EnvPrefix)
	}
	return nil
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, lookupCommand, batchCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// exitFor converts a lookup failure into a [cli.ExitCoder] after it has been rendered.
func exitFor(err error) error {
	var f *tasks.Failure
	if !errors.As(err, &f) {
		return err
	}

	switch f.Category {
	case tasks.CategoryPlayerNotFound:
		return cli.Exit("", exitPlayerNotFound)
	case tasks.CategoryInvalidInput:
		return cli.Exit("", exitInvalidInput)
	default:
		return cli.Exit("", exitAPIRequest)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
