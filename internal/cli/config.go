package cli

import (
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nestview/pkg/config"
)

// configCommand creates the config command.
func (c *CLI) configCommand() *cobra.Command {
	var (
		asTOML bool
		check  bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show which config file is in use and the store and cache it selects.

The config file is the --config flag, $` + config.EnvConfig + `, ./` + config.FileName + `,
or config.toml in the user config directory, whichever is found first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case check:
				printSuccess("%s is valid", c.configName())
				return nil
			case asTOML:
				return toml.NewEncoder(c.Out).Encode(c.cfg)
			}
			c.printConfig()
			return nil
		},
	}

	cmd.Flags().BoolVar(&asTOML, "toml", false, "print the full configuration as TOML")
	cmd.Flags().BoolVar(&check, "check", false, "only validate the configuration")

	return cmd
}

func (c *CLI) printConfig() {
	if c.cfg.Path == "" {
		printKeyValue("file", "(defaults)")
	} else {
		printKeyValue("file", c.cfg.Path)
	}

	s := c.cfg.Store
	printKeyValue("store", s.Driver)
	switch s.Driver {
	case config.DriverSQLite:
		printKeyValue("path", s.Path)
	case config.DriverNeo4j:
		printKeyValue("uri", s.URI)
	default:
		if s.Graph != "" {
			printKeyValue("graph", s.Graph)
		}
	}

	ch := c.cfg.Cache
	printKeyValue("cache", ch.Driver)
	switch ch.Driver {
	case config.CacheRedis:
		printKeyValue("addr", ch.Addr)
	case config.CacheFile:
		if dir, err := c.fileCacheDir(); err == nil {
			printKeyValue("dir", dir)
		}
	}
	printKeyValue("diagrams", strconv.Itoa(len(c.cfg.Diagrams)))
	printKeyValue("rules", strconv.Itoa(len(c.cfg.Rules)))
}

// configName names the config file in messages.
func (c *CLI) configName() string {
	if c.cfg != nil && c.cfg.Path != "" {
		return c.cfg.Path
	}
	return config.FileName
}
