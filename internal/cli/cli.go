package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taxotree/pkg/cache"
	"github.com/matzehuels/taxotree/pkg/config"
	"github.com/matzehuels/taxotree/pkg/graph"
	"github.com/matzehuels/taxotree/pkg/observability"
	"github.com/matzehuels/taxotree/pkg/pipeline"
	"github.com/matzehuels/taxotree/pkg/records"
	"github.com/matzehuels/taxotree/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "taxotree"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Set from persistent flags.
	verbose    bool
	configPath string
	noCache    bool
	refresh    bool
	shape      string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig returns the configuration, loading it on first use.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	ch, err := c.openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Prefix)
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// openCache opens the configured cache. A broken cache degrades to no
// caching rather than failing the command.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, cfg.Cache.Options())
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// sourceDeps returns the shared resources sources are opened with.
func (c *CLI) sourceDeps(ch cache.Cache) source.Deps {
	return source.Deps{Cache: ch, TTL: c.ttl(), Refresh: c.refresh}
}

// =============================================================================
// Source Resolution
// =============================================================================

// openSource resolves a command argument: a configured source name first,
// then a path to a local delimited file.
func (c *CLI) openSource(ctx context.Context, runner *pipeline.Runner, arg string) (source.Source, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if sc, ok := cfg.Source(arg); ok {
		if c.shape != "" {
			sc.Shape = c.shape
		}
		return source.Open(ctx, sc, c.sourceDeps(runner.Cache))
	}
	if _, err := os.Stat(arg); err == nil {
		shape, err := records.ParseShape(c.shape, records.ShapeChildren)
		if err != nil {
			return nil, err
		}
		return source.FromPath(arg, shape), nil
	}
	return nil, fmt.Errorf("%q is neither a configured source nor a readable file (configured: %s)",
		arg, strings.Join(cfg.SourceNames(), ", "))
}

// run executes the pipeline for arg. A path ending in .json is read as a
// previously inferred hierarchy and only assembled.
func (c *CLI) run(ctx context.Context, arg string) (*pipeline.Result, error) {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	if strings.HasSuffix(strings.ToLower(arg), ".json") {
		g, err := graph.ReadGraphFile(arg)
		if err != nil {
			return nil, err
		}
		return runner.FromGraph(ctx, g)
	}

	src, err := c.openSource(ctx, runner, arg)
	if err != nil {
		return nil, err
	}
	defer source.Close(src)

	spinner := newRunSpinner(ctx, os.Stderr, src.Name())
	observability.SetPipelineHooks(spinner)
	defer observability.SetPipelineHooks(observability.NoopPipelineHooks{})

	spinner.Start()
	res, err := runner.Run(ctx, src, pipeline.Options{Refresh: c.refresh, TTL: c.ttl()})
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
		} else {
			spinner.StopWithError()
		}
		return nil, err
	}
	spinner.Stop()
	return res, nil
}

func (c *CLI) ttl() time.Duration {
	if c.cfg == nil {
		return 0
	}
	return c.cfg.Cache.TTL.Duration
}
