// Package config loads nestview's TOML configuration file.
//
// # Location
//
// [Find] searches, in order:
//
//  1. the file named by $NESTVIEW_CONFIG
//  2. ./nestview.toml
//  3. $XDG_CONFIG_HOME/nestview/config.toml (or the platform equivalent)
//
// A missing file is not an error; [Default] is used instead.
//
// # Format
//
//	[store]
//	driver = "sqlite"            # memory, sqlite or neo4j
//	path = "graph.db"
//
//	[cache]
//	driver = "file"              # none, file or redis
//	ttl = "24h"
//
//	[[diagram]]
//	name = "datacenter"
//	label_hierarchy = ["Area", "Group", "Server"]
//	root_at_label = "root"
//
//	[[rule]]
//	label = "Server"
//	metadata_key = "status"
//	operator = "equals"
//	value = "down"
//	enabled = true
//	styling.background_color = { is_set = true, color = "#fdd" }
//
// Connection strings and passwords may reference environment variables as
// $VAR or ${VAR}. Rules without an id are assigned a random UUID on load.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	"github.com/matzehuels/nestview/pkg/errors"
	"github.com/matzehuels/nestview/pkg/model"
	"github.com/matzehuels/nestview/pkg/rules"
)

// EnvConfig names the environment variable that points at a config file.
const EnvConfig = "NESTVIEW_CONFIG"

// FileName is the config file looked up in the working directory.
const FileName = "nestview.toml"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverNeo4j  = "neo4j"
)

// Cache drivers.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the decoded configuration file.
type Config struct {
	Store    StoreConfig            `toml:"store"`
	Cache    CacheConfig            `toml:"cache"`
	Diagrams []model.DiagramOptions `toml:"diagram"`
	Rules    []model.Rule           `toml:"rule"`

	// Path is the file the config was loaded from, or "" for defaults.
	Path string `toml:"-"`
}

// StoreConfig selects and configures the graph store.
type StoreConfig struct {
	Driver string `toml:"driver"`

	// Path is the SQLite database file.
	Path string `toml:"path"`

	// Graph is a JSON or YAML graph file loaded into the memory store.
	Graph string `toml:"graph"`

	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`

	// PollInterval is how often watch mode polls stores that cannot
	// notify, as a Go duration string.
	PollInterval string `toml:"poll_interval"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Driver   string `toml:"driver"`
	Dir      string `toml:"dir"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	TTL      string `toml:"ttl"`

	// Scope prefixes every cache key, which keeps separate environments
	// apart in one shared cache.
	Scope string `toml:"scope"`
}

// Default returns the configuration used when no file exists: an in-memory
// store and a file cache.
func Default() *Config {
	return &Config{
		Store: StoreConfig{Driver: DriverMemory, PollInterval: "2s"},
		Cache: CacheConfig{Driver: CacheFile, TTL: "24h"},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Find returns the path of the first config file in the search order, or
// "" when there is none.
func Find() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	candidates := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "nestview", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load reads the config at path, or the one [Find] locates when path is
// empty. Unset fields keep their [Default] values. Unknown keys are an
// error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Find()
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, cfg)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.finish(md); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// Decode parses config text. It applies the same defaults and checks as
// [Load].
func Decode(data string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.finish(md); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish rejects unknown keys, expands environment references, assigns
// rule IDs and validates.
func (c *Config) finish(md toml.MetaData) error {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	c.expand()
	c.assignRuleIDs()
	return c.Validate()
}

func (c *Config) expand() {
	c.Store.URI = os.ExpandEnv(c.Store.URI)
	c.Store.User = os.ExpandEnv(c.Store.User)
	c.Store.Password = os.ExpandEnv(c.Store.Password)
	c.Cache.Addr = os.ExpandEnv(c.Cache.Addr)
	c.Cache.Password = os.ExpandEnv(c.Cache.Password)
}

// ruleNamespace scopes generated rule IDs.
var ruleNamespace = uuid.MustParse("3f6c2b1e-8d4a-5c1f-9e2b-7a0d4c6e8f10")

// assignRuleIDs gives unnamed rules an ID derived from their position and
// predicate, so the same file always yields the same IDs.
func (c *Config) assignRuleIDs() {
	for i, r := range c.Rules {
		if r.ID != "" {
			continue
		}
		name := fmt.Sprintf("%d\x00%s\x00%s\x00%s\x00%s", i, r.Label, r.MetadataKey, r.Operator, r.Value)
		c.Rules[i].ID = uuid.NewSHA1(ruleNamespace, []byte(name)).String()
	}
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks drivers, durations, diagrams and rules.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverSQLite:
	case DriverNeo4j:
		if c.Store.URI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "store.uri is required for the neo4j driver")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store driver %q", c.Store.Driver)
	}
	if c.Store.Driver == DriverSQLite && c.Store.Path == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "store.path is required for the sqlite driver")
	}

	switch c.Cache.Driver {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.addr is required for the redis driver")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache driver %q", c.Cache.Driver)
	}

	if _, err := c.PollInterval(); err != nil {
		return err
	}
	if _, err := c.TTL(); err != nil {
		return err
	}

	var names []string
	for _, d := range c.Diagrams {
		if d.Name == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "diagram without a name")
		}
		if slices.Contains(names, d.Name) {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate diagram %q", d.Name)
		}
		names = append(names, d.Name)

		relMod := make([]string, len(d.HierarchyRelMod))
		for i, m := range d.HierarchyRelMod {
			relMod[i] = string(m)
		}
		if err := errors.ValidateDiagramOptions(d.LabelHierarchy, relMod, d.ColumnsPerLabel); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "diagram %q", d.Name)
		}
	}

	for _, r := range c.Rules {
		if r.Label == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "rule %q has no label", r.ID)
		}
		if !r.IsDefault() && !rules.Supported(r.Operator) {
			return errors.New(errors.ErrCodeInvalidConfig, "rule %q has unknown operator %q", r.ID, r.Operator)
		}
	}
	return nil
}

// PollInterval parses Store.PollInterval. Empty means two seconds.
func (c *Config) PollInterval() (time.Duration, error) {
	return parseDuration("store.poll_interval", c.Store.PollInterval, 2*time.Second)
}

// TTL parses Cache.TTL. Empty means 24 hours.
func (c *Config) TTL() (time.Duration, error) {
	return parseDuration("cache.ttl", c.Cache.TTL, 24*time.Hour)
}

func parseDuration(key, s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", key)
	}
	if d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "%s cannot be negative", key)
	}
	return d, nil
}

// Diagram returns the diagram named name.
func (c *Config) Diagram(name string) (model.DiagramOptions, bool) {
	for _, d := range c.Diagrams {
		if d.Name == name {
			return d, true
		}
	}
	return model.DiagramOptions{}, false
}
