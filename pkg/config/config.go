// Package config loads taxotree's TOML configuration.
//
// The file is looked up at --config, then $XDG_CONFIG_HOME/taxotree/config.toml
// (see [DefaultPath]). A missing default file is not an error; built-in
// defaults apply. A handful of TAXOTREE_* environment variables override
// file values so containers can be configured without a file:
//
//	TAXOTREE_LOG_LEVEL      [log] level
//	TAXOTREE_CACHE_BACKEND  [cache] backend
//	TAXOTREE_REDIS_ADDR     [cache] redis_addr
//	TAXOTREE_SERVER_ADDR    [server] addr
//
// Example file:
//
//	[log]
//	level = "info"
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
//
//	[[sources]]
//	name = "human-mtg"
//	kind = "nomenclature"
//	url = "https://example.org/nomenclature_table.tsv"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/taxotree/pkg/cache"
	"github.com/matzehuels/taxotree/pkg/errors"
)

// Source kinds.
const (
	KindSQLite       = "sqlite"
	KindNomenclature = "nomenclature"
	KindFile         = "file"
	KindMongo        = "mongo"
)

// DefaultServerAddr is the listen address of `taxotree serve`.
const DefaultServerAddr = "127.0.0.1:8080"

// Config is the root of the configuration file.
type Config struct {
	Log     LogConfig    `toml:"log"`
	Cache   CacheConfig  `toml:"cache"`
	Server  ServerConfig `toml:"server"`
	Sources []Source     `toml:"sources"`

	// Path is the file the configuration was read from, "" for defaults.
	Path string `toml:"-"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// CacheConfig configures the payload cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       Duration `toml:"ttl"`
	Prefix    string   `toml:"prefix"`
}

// Options converts the section into [cache.Options].
func (c CacheConfig) Options() cache.Options {
	return cache.Options{Backend: c.Backend, Dir: c.Dir, RedisAddr: c.RedisAddr, RedisDB: c.RedisDB}
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Source describes one named record source. Which fields matter depends
// on Kind.
type Source struct {
	Name      string `toml:"name"`
	Kind      string `toml:"kind"`
	Shape     string `toml:"shape"`
	DSN       string `toml:"dsn"`
	Table     string `toml:"table"`
	URL       string `toml:"url"`
	Path      string `toml:"path"`
	Delimiter string `toml:"delimiter"`

	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Fingerprint identifies the settings that determine what the source
// returns. It keys cached batches.
func (s Source) Fingerprint() string {
	return strings.Join([]string{
		s.Kind, s.Shape, s.DSN, s.Table, s.URL, s.Path, s.Delimiter,
		s.MongoURI, s.Database, s.Collection,
	}, "\x1f")
}

// Duration is a time.Duration that reads from TOML strings such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log:    LogConfig{Level: "info"},
		Cache:  CacheConfig{Backend: cache.BackendFile, TTL: Duration{cache.DefaultTTL}},
		Server: ServerConfig{Addr: DefaultServerAddr},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/taxotree/config.toml or the
// platform equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "taxotree", "config.toml"), nil
}

// Load reads the configuration at path. An empty path selects
// [DefaultPath], which may be absent. Unknown keys are rejected so typos
// surface instead of silently falling back to defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config")
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
		cfg.Path = path
	} else if explicit || !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode parses configuration from TOML text. Used by tests and for
// configs embedded in other files.
func Decode(data string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	set := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.Log.Level, "TAXOTREE_LOG_LEVEL")
	set(&c.Cache.Backend, "TAXOTREE_CACHE_BACKEND")
	set(&c.Cache.RedisAddr, "TAXOTREE_REDIS_ADDR")
	set(&c.Server.Addr, "TAXOTREE_SERVER_ADDR")
}

// Source returns the configured source called name.
func (c *Config) Source(name string) (Source, bool) {
	for _, s := range c.Sources {
		if s.Name == name {
			return s, true
		}
	}
	return Source{}, false
}

// SourceNames lists configured source names in file order.
func (c *Config) SourceNames() []string {
	names := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		names[i] = s.Name
	}
	return names
}

func wrapSource(i int, s Source, err error) error {
	name := s.Name
	if name == "" {
		name = fmt.Sprintf("#%d", i)
	}
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "source %s", name)
}
