package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/mdimages/internal/batch"
	"git.home.luguber.info/inful/mdimages/internal/config"
	"git.home.luguber.info/inful/mdimages/internal/convert"
	"git.home.luguber.info/inful/mdimages/internal/docmodel"
	ferrors "git.home.luguber.info/inful/mdimages/internal/foundation/errors"
	"git.home.luguber.info/inful/mdimages/internal/logfields"
	"git.home.luguber.info/inful/mdimages/internal/metrics"
)

// Global carries state shared by all commands, built once after flag parsing.
type Global struct {
	Config   *config.Config
	Logger   *slog.Logger
	Stdout   io.Writer
	Recorder metrics.Recorder

	ctx         context.Context
	registry    *prom.Registry
	metricsFile string
}

// CLI definition & global flags.
type CLI struct {
	Config      string           `short:"c" env:"MDIMAGES_CONFIG" help:"Configuration file path (default: .mdimages.yaml when present)"`
	Verbose     bool             `short:"v" help:"Enable verbose logging"`
	LogFormat   string           `name:"log-format" help:"Log output format (text or json)"`
	KeepGoing   bool             `short:"k" name:"keep-going" help:"Continue with the next document when one fails"`
	Format      string           `short:"f" help:"Input format (markdown, html, ipynb); inferred from the file extension by default"`
	MetricsFile string           `name:"metrics-file" type:"path" help:"Write Prometheus metrics to this file when done"`
	Version     kong.VersionFlag `name:"version" help:"Show version and exit"`

	Rules    RulesCmd    `cmd:"" default:"withargs" help:"Print dependency rules for documents (default command)"`
	Ls       LsCmd       `cmd:"" help:"List image files referenced by documents"`
	Dep      DepCmd      `cmd:"" help:"Print makefile rules for documents"`
	Cp       CpCmd       `cmd:"" help:"Copy documents together with their image files"`
	Check    CheckCmd    `cmd:"" help:"Check that every referenced image exists"`
	Links    LinksCmd    `cmd:"" help:"List the links in documents"`
	Variants VariantsCmd `cmd:"" help:"Print the preferred variant of each group of files"`
	Watch    WatchCmd    `cmd:"" help:"Regenerate dependency files whenever a document changes"`
}

// AfterApply runs after flag parsing; it installs a provisional logger so
// that configuration problems are reported consistently.
func (c *CLI) AfterApply() error {
	level := config.LogLevelInfo
	if c.Verbose {
		level = config.LogLevelDebug
	}
	slog.SetDefault(config.NewLogger(os.Stderr, config.NormalizeLogFormat(c.LogFormat), level))
	return nil
}

// Setup loads the configuration and builds the shared state. Flags override
// configuration values. ctx bounds long running commands.
func (c *CLI) Setup(ctx context.Context, stdout, stderr io.Writer) (*Global, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.KeepGoing {
		cfg.KeepGoing = true
	}
	if c.Format != "" {
		if _, err := convert.ParseFormat(c.Format); err != nil {
			return nil, err
		}
		cfg.InputFormat = c.Format
	}

	format := config.NormalizeLogFormat(cfg.Logging.Format)
	if c.LogFormat != "" {
		if format, err = config.ParseLogFormat(c.LogFormat); err != nil {
			return nil, err
		}
	}
	level := config.NormalizeLogLevel(cfg.Logging.Level)
	if c.Verbose {
		level = config.LogLevelDebug
	}
	logger := config.NewLogger(stderr, format, level)
	slog.SetDefault(logger)

	g := &Global{
		Config:      cfg,
		Logger:      logger,
		Stdout:      stdout,
		Recorder:    metrics.NoopRecorder{},
		ctx:         ctx,
		metricsFile: c.MetricsFile,
	}
	if c.MetricsFile != "" {
		g.registry = prom.NewRegistry()
		g.Recorder = metrics.NewPrometheusRecorder(g.registry)
	}
	logger.Debug("configuration loaded",
		slog.String("suffix_preferences", cfg.Ranks().String()),
		logfields.Format(string(cfg.Format())),
		slog.Bool("keep_going", cfg.KeepGoing))
	return g, nil
}

// Context returns the context commands run under.
func (g *Global) Context() context.Context {
	if g.ctx == nil {
		return context.Background()
	}
	return g.ctx
}

// Finish writes the metrics file, if one was requested.
func (g *Global) Finish() error {
	if g.registry == nil {
		return nil
	}
	if err := metrics.WriteTextfile(g.metricsFile, g.registry); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot write metrics file").
			WithContext("path", g.metricsFile).
			Build()
	}
	return nil
}

// DocumentOptions returns how documents are loaded under the configuration.
func (g *Global) DocumentOptions() docmodel.Options {
	return docmodel.Options{
		Format: g.Config.Format(),
		Ranks:  g.Config.Ranks(),
	}
}

// Runner returns a batch runner wired to the configuration, logger and
// recorder. onFailure receives documents skipped under keep-going.
func (g *Global) Runner(onFailure batch.FailureHandler) *batch.Runner {
	return batch.NewRunner(
		batch.WithDocumentOptions(g.DocumentOptions()),
		batch.WithKeepGoing(g.Config.KeepGoing),
		batch.WithLogger(g.Logger),
		batch.WithRecorder(g.Recorder),
		batch.WithFailureHandler(onFailure),
	)
}

// Policy resolves a --select flag value, falling back to the configured
// selection and then to fallback.
func (g *Global) Policy(flag string, fallback docmodel.Policy) (docmodel.Policy, error) {
	if flag != "" {
		return docmodel.ParsePolicy(flag)
	}
	return g.Config.SelectionOr(fallback), nil
}

func (g *Global) println(a ...any) {
	_, _ = fmt.Fprintln(g.Stdout, a...)
}
