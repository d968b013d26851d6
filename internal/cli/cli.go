package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nestview/pkg/buildinfo"
	"github.com/matzehuels/nestview/pkg/config"
	"github.com/matzehuels/nestview/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

// appName names the application's directories.
const appName = "nestview"

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

	// Out receives command output (diagrams, listings). Status messages go
	// to the logger.
	Out io.Writer

	configPath string
	cfg        *config.Config
}

// New creates a CLI that logs to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level. At debug level pipeline,
// cache and store events are logged as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Nestview draws property graphs as nested block diagrams",
		Long: `Nestview turns a labeled property graph into nested block diagrams.

Entities are nested along a configured label hierarchy (for example
Area > Group > Server), laid out as packed boxes, and styled by
conditional-formatting rules. The graph can live in memory (loaded from a
JSON or YAML file), in SQLite, or in Neo4j.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: $"+config.EnvConfig+", ./"+config.FileName+")")

	root.AddCommand(c.importCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.diagramsCommand())
	root.AddCommand(c.hierarchyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.relationsCommand())
	root.AddCommand(c.rulesCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the config file once per invocation. Without a file
// the defaults apply.
func (c *CLI) loadConfig() error {
	if c.cfg != nil {
		return nil
	}
	path := c.configPath
	if path == "" {
		path = config.Find()
	}
	if path == "" {
		c.cfg = config.Default()
		c.Logger.Debug("no config file, using defaults")
		return nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", path, "store", cfg.Store.Driver, "cache", cfg.Cache.Driver)
	c.cfg = cfg
	return nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/nestview/).
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
