// Package cli implements the wayfinder command-line interface.
//
// Every map operation is available both as a one-shot command
// (`wayfinder goto Forest`) and inside the interactive `shell`. One-shot
// commands open the working map, apply the operation and save the map back
// when it changed. The shell keeps a single session in memory and writes only
// on an explicit `save`.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// passed through context.Context; store activity is logged at debug level
// through observability hooks.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wayfinder/pkg/buildinfo"
	"github.com/matzehuels/wayfinder/pkg/cache"
	"github.com/matzehuels/wayfinder/pkg/config"
	"github.com/matzehuels/wayfinder/pkg/observability"
	"github.com/matzehuels/wayfinder/pkg/session"
	"github.com/matzehuels/wayfinder/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display and tracing.
	appName = "wayfinder"

	// shutdownTimeout bounds the final trace flush.
	shutdownTimeout = 5 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Command groups shown in help output.
const (
	groupEdit  = "edit"
	groupNav   = "nav"
	groupMaps  = "maps"
	groupOther = "other"
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	flags  globalFlags
	cfg    config.Config
	tracer *observability.TracerProvider
}

// globalFlags are the persistent flags accepted by every command.
type globalFlags struct {
	mapName    string
	backend    string
	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Wayfinder maps a game world and finds routes through it",
		Long: `Wayfinder keeps a map of named locations joined by north, south, east and
west connections, tags locations with resources, and answers "how do I get
there" and "where is the nearest X" questions. Maps are stored as JSON files
or in SQLite, Redis or MongoDB.`,
		Version:            buildinfo.Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.mapName, "map", "", "working map name or path (default from config, map_data.json)")
	pf.StringVar(&c.flags.backend, "store", "", "store backend: "+strings.Join(config.Backends, ", "))
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddGroup(
		&cobra.Group{ID: groupEdit, Title: "Map Editing:"},
		&cobra.Group{ID: groupNav, Title: "Navigation:"},
		&cobra.Group{ID: groupMaps, Title: "Maps:"},
		&cobra.Group{ID: groupOther, Title: "Other:"},
	)
	root.SetHelpCommandGroupID(groupOther)
	root.SetCompletionCommandGroupID(groupOther)

	for _, a := range actions() {
		root.AddCommand(c.actionCommand(a))
	}
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.shellCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Setup
// =============================================================================

// setup resolves configuration, logging and tracing before any command runs.
// Flags win over environment variables, which win over the config file.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.flags.configPath)
	if err != nil {
		return err
	}
	cfg.ApplyEnv()
	if c.flags.mapName != "" {
		cfg.DefaultMap = c.flags.mapName
	}
	if c.flags.backend != "" {
		cfg.Store.Backend = strings.ToLower(c.flags.backend)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = LogInfo
	}
	if c.flags.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	ctx := withLogger(cmd.Context(), c.Logger)
	cmd.SetContext(ctx)
	observability.SetStoreHooks(storeLogHooks{logger: c.Logger})
	observability.SetQueryHooks(queryLogHooks{logger: c.Logger})

	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:        cfg.Tracing.Enabled,
		Endpoint:       cfg.Tracing.Endpoint,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: buildinfo.Version,
	})
	if err != nil {
		return err
	}
	c.tracer = tp
	c.Logger.Debug("configured", "store", cfg.Store.Backend, "map", cfg.DefaultMap, "tracing", tp.Enabled())
	return nil
}

// teardown flushes pending spans.
func (c *CLI) teardown(cmd *cobra.Command, _ []string) error {
	if c.tracer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(cmd.Context()), shutdownTimeout)
	defer cancel()
	return c.tracer.Shutdown(ctx)
}

// =============================================================================
// Store & Session Factory
// =============================================================================

// openStore opens the configured store and returns it together with the
// working map name. A --map value with a directory part selects that
// directory for the file backend.
func (c *CLI) openStore(ctx context.Context) (store.Store, string, error) {
	cfg := c.cfg.Store
	name := c.cfg.DefaultMap
	if cfg.Backend == config.BackendFile && strings.ContainsAny(name, `/\`) {
		cfg.Dir = filepath.Dir(name)
		name = filepath.Base(name)
	}

	var spin *Spinner
	if remoteBackend(cfg.Backend) && isTerminal(os.Stderr) {
		spin = newSpinnerWithContext(ctx, "Connecting to "+cfg.Backend+"...")
		spin.Start()
	}
	st, err := store.Open(ctx, cfg)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return nil, "", err
	}
	return store.Instrumented(st, cfg.Backend), name, nil
}

// withSession runs fn against the working map and saves the map back when
// fn changed it.
func (c *CLI) withSession(cmd *cobra.Command, fn func(context.Context, *env) error) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	st, name, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	prog := newProgress(logger)
	sess, err := session.Open(ctx, st, name)
	if err != nil {
		return err
	}
	prog.done("Opened " + name)

	e := newEnv(sess, cmd.InOrStdin(), cmd.OutOrStdout())
	e.working = name
	if err := fn(ctx, e); err != nil {
		return err
	}
	if !sess.Dirty() {
		return nil
	}

	prog = newProgress(logger)
	if err := sess.Save(ctx, name); err != nil {
		return err
	}
	prog.done("Saved " + name)
	return nil
}

// =============================================================================
// Render Cache
// =============================================================================

// newCache opens the rendered-diagram cache, falling back to no caching when
// the cache directory is unusable.
func newCache() cache.Cache {
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return cache.NewNullCache()
	}
	return c
}

// cacheDir returns the cache directory using XDG standard (~/.cache/wayfinder/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Helpers
// =============================================================================

func remoteBackend(backend string) bool {
	return backend == config.BackendRedis || backend == config.BackendMongo
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// splitList parses a comma-separated argument, trimming blanks and dropping
// empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
