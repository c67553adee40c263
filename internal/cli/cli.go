// Package cli implements the canvaskit command-line interface.
//
// Every editing command works on a named diagram session kept under
// ~/.config/canvaskit/sessions/, so consecutive invocations behave like one
// editor with a shared undo history:
//
//	canvaskit import shop.json -d shop
//	canvaskit group api db --label Backend -d shop
//	canvaskit undo -d shop
//	canvaskit export shop.yaml -d shop
//
// The clipboard is shared by every diagram of a workspace and kept in the
// cache directory, so nodes copied from one diagram paste into another.
//
// # Commands
//
//   - validate, import, export: the interchange document
//   - group, ungroup, delete, align, distribute: editing
//   - copy, paste, duplicate: the clipboard
//   - undo, redo, history, record: the undo log
//   - sessions: list and prune saved diagram sessions
//   - serve: the HTTP exchange API
//   - cache, config, completion: housekeeping
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/canvaskit/pkg/buildinfo"
	"github.com/matzehuels/canvaskit/pkg/cache"
	"github.com/matzehuels/canvaskit/pkg/clipboard"
	"github.com/matzehuels/canvaskit/pkg/config"
	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/observability"
	"github.com/matzehuels/canvaskit/pkg/pipeline"
	"github.com/matzehuels/canvaskit/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "canvaskit"

	// defaultDiagram is the session edited when --diagram is not given.
	defaultDiagram = "default"
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

	cfg        config.Config
	configPath string
	diagram    string
	kind       string
	workspace  string
	noCache    bool
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
		Use:          appName,
		Short:        "Canvaskit edits diagram canvases from the command line",
		Long:         `Canvaskit is the data engine behind node-and-edge diagram canvases: grouping, alignment, clipboard, import and merge, and undo history, usable from the command line and over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			observability.NewLogHooks(c.Logger).Register()
			ctx := withLogger(cmd.Context(), c.Logger)
			cmd.SetContext(withDiagram(ctx, c.diagram))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/canvaskit/config.toml)")
	flags.StringVarP(&c.diagram, "diagram", "d", defaultDiagram, "diagram session to work on")
	flags.StringVar(&c.kind, "kind", "", "diagram kind for new sessions (architecture, mindmap, flowchart, sequence)")
	flags.StringVar(&c.workspace, "workspace", "", "clipboard workspace shared between diagrams")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the parse and clipboard cache")

	// Register all subcommands
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.groupCommand())
	root.AddCommand(c.ungroupCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.alignCommand())
	root.AddCommand(c.distributeCommand())
	root.AddCommand(c.copyCommand())
	root.AddCommand(c.pasteCommand())
	root.AddCommand(c.duplicateCommand())
	root.AddCommand(c.undoCommand())
	root.AddCommand(c.redoCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.recordCommand())
	root.AddCommand(c.sessionsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())
	c.registerFlagCompletions(root)

	return root
}

func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		var err error
		if path, err = config.Path(); err != nil {
			return nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.configPath = path
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() (*pipeline.Runner, error) {
	cache, err := newCache(c.noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(cache, nil, c.Logger)
	runner.MergeOffset = c.cfg.MergeOffset()
	return runner, nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Sessions
// =============================================================================

// workbench is one command's view of the diagram session and its
// clipboard. Commands load it, edit the session and save it back.
type workbench struct {
	sess     *session.Session
	store    session.Store
	cache    cache.Cache
	closers  []func() error
	clipKey  string
	isNew    bool
	registry diagram.Registry
}

func (c *CLI) sessionOptions() session.Options {
	opts := session.DefaultOptions()
	opts.HistoryLimit = c.cfg.History.Limit
	opts.Paste = c.cfg.PasteOptions()
	// Pasted nodes get readable "copy_N" identifiers.
	opts.Paste.NewID = nil
	return opts
}

// open loads the --diagram session, or starts a new one of --kind.
func (c *CLI) open(ctx context.Context) (*workbench, error) {
	registry, err := c.cfg.Registry()
	if err != nil {
		return nil, err
	}
	opts := c.sessionOptions()
	wb := &workbench{registry: registry}
	if wb.store, err = c.sessionStore(ctx, wb, registry, opts); err != nil {
		return nil, err
	}

	if wb.sess, err = wb.store.Get(ctx, c.diagram); err != nil {
		wb.close()
		return nil, err
	}
	if wb.sess == nil {
		if wb.sess, err = session.New(c.diagram, diagram.Kind(c.kind), registry, opts); err != nil {
			wb.close()
			return nil, err
		}
		wb.isNew = true
		loggerFromContext(ctx).Debug("new session", "kind", wb.sess.Kind)
	} else if c.kind != "" && diagram.Kind(c.kind) != wb.sess.Kind {
		loggerFromContext(ctx).Warn("ignoring --kind for an existing diagram", "kind", wb.sess.Kind)
	}

	if wb.cache, err = newCache(c.noCache); err != nil {
		wb.close()
		return nil, err
	}
	wb.clipKey = cache.NewDefaultKeyer().ClipboardKey(c.workspace)
	cb, err := clipboard.Load(ctx, wb.cache, wb.clipKey)
	if err != nil {
		loggerFromContext(ctx).Warn("clipboard unavailable", "err", err)
	}
	wb.sess.SetClipboard(cb)
	return wb, nil
}

// sessionStore keeps sessions in Redis when [redis] addr is configured, so
// several machines edit the same diagrams, and as files otherwise.
func (c *CLI) sessionStore(ctx context.Context, wb *workbench, registry diagram.Registry, opts session.Options) (session.Store, error) {
	if c.cfg.Redis.Addr != "" {
		rc, err := cache.NewRedisCache(ctx, c.cfg.RedisConfig())
		if err != nil {
			return nil, err
		}
		wb.closers = append(wb.closers, rc.Close)
		return session.NewCacheStore(rc, "", 0, registry, opts), nil
	}
	dir, err := sessionDir()
	if err != nil {
		return nil, fmt.Errorf("get session dir: %w", err)
	}
	return session.NewFileStore(dir, registry, opts)
}

// save writes the session and the clipboard back.
func (wb *workbench) save(ctx context.Context) error {
	if err := wb.store.Set(ctx, wb.sess); err != nil {
		return err
	}
	if err := wb.sess.Clipboard().Save(ctx, wb.cache, wb.clipKey, clipboard.DefaultTTL); err != nil {
		loggerFromContext(ctx).Warn("clipboard not saved", "err", err)
	}
	return nil
}

// close releases the session store's connections.
func (wb *workbench) close() {
	for _, fn := range wb.closers {
		_ = fn()
	}
	wb.closers = nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/canvaskit/).
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

// sessionDir returns where diagram sessions are kept
// (~/.config/canvaskit/sessions/).
func sessionDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "sessions"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "sessions"), nil
}
