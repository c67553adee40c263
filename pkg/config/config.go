// Package config loads canvaskit settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/canvaskit/config.toml, falling back
// to ~/.config/canvaskit/config.toml. Every setting has a default, so a
// missing file is not an error:
//
//	[history]
//	limit = 50
//
//	[clipboard]
//	offset_x = 50
//	offset_y = 50
//
//	[merge]
//	offset_x = 300
//	offset_y = 100
//
//	[server]
//	addr = ":8080"
//
//	[redis]
//	addr = "localhost:6379"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//
//	kinds = ["architecture", "mindmap"]
//
// Command-line flags override what the file says.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/canvaskit/pkg/cache"
	"github.com/matzehuels/canvaskit/pkg/clipboard"
	"github.com/matzehuels/canvaskit/pkg/diagram"
	"github.com/matzehuels/canvaskit/pkg/errors"
	"github.com/matzehuels/canvaskit/pkg/history"
	canvasio "github.com/matzehuels/canvaskit/pkg/io"
	"github.com/matzehuels/canvaskit/pkg/store"
)

// FileName is the name of the config file inside the config directory.
const FileName = "config.toml"

// Config is the full set of settings.
type Config struct {
	History   History   `toml:"history"`
	Clipboard Clipboard `toml:"clipboard"`
	Merge     Merge     `toml:"merge"`
	Server    Server    `toml:"server"`
	Redis     Redis     `toml:"redis"`
	Mongo     Mongo     `toml:"mongo"`
	// Kinds lists the enabled diagram kinds. Empty enables all of them.
	Kinds []string `toml:"kinds" validate:"dive,oneof=architecture mindmap flowchart sequence"`
}

// History configures the undo log.
type History struct {
	Limit int `toml:"limit" validate:"gte=1,lte=10000"`
}

// Clipboard configures paste placement.
type Clipboard struct {
	OffsetX float64 `toml:"offset_x"`
	OffsetY float64 `toml:"offset_y"`
	// KeepParent pastes copies inside their original group instead of at
	// the root.
	KeepParent bool `toml:"keep_parent"`
}

// Merge configures where merged documents land.
type Merge struct {
	OffsetX float64 `toml:"offset_x"`
	OffsetY float64 `toml:"offset_y"`
}

// Server configures `canvaskit serve`.
type Server struct {
	Addr           string   `toml:"addr" validate:"required,hostname_port"`
	AllowedOrigins []string `toml:"allowed_origins" validate:"dive,url"`
	MaxBodyBytes   int64    `toml:"max_body_bytes" validate:"gte=0"`
}

// Redis configures the shared cache. An empty address disables it.
type Redis struct {
	Addr     string `toml:"addr" validate:"omitempty,hostname_port"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"gte=0,lte=15"`
	Prefix   string `toml:"prefix"`
}

// Mongo configures the document store. An empty URI disables it.
type Mongo struct {
	URI        string `toml:"uri" validate:"omitempty,startswith=mongodb"`
	Database   string `toml:"database" validate:"required_with=URI"`
	Collection string `toml:"collection" validate:"required_with=URI"`
}

// Default returns the built-in settings.
func Default() Config {
	paste := clipboard.DefaultOptions()
	return Config{
		History: History{Limit: history.DefaultLimit},
		Clipboard: Clipboard{
			OffsetX:    paste.Offset.X,
			OffsetY:    paste.Offset.Y,
			KeepParent: !paste.ClearParent,
		},
		Merge: Merge{
			OffsetX: canvasio.DefaultMergeOffset.X,
			OffsetY: canvasio.DefaultMergeOffset.Y,
		},
		Server: Server{Addr: ":8080"},
		Redis:  Redis{Prefix: "canvaskit:"},
		Mongo: Mongo{
			Database:   store.DefaultMongoDatabase,
			Collection: store.DefaultMongoCollection,
		},
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "canvaskit", FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "canvaskit", FileName), nil
}

// Load reads the config file at path over the defaults. A missing file
// yields the defaults. Unknown keys and invalid values are INVALID_CONFIG
// errors.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDefault loads the config file at [Path].
func LoadDefault() (Config, string, error) {
	path, err := Path()
	if err != nil {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	return cfg, path, err
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// Conversions
// =============================================================================

// PasteOptions returns the clipboard placement settings.
func (c Config) PasteOptions() clipboard.Options {
	opts := clipboard.DefaultOptions()
	opts.Offset = diagram.Point{X: c.Clipboard.OffsetX, Y: c.Clipboard.OffsetY}
	opts.ClearParent = !c.Clipboard.KeepParent
	return opts
}

// MergeOffset returns how far merged root nodes are shifted.
func (c Config) MergeOffset() diagram.Point {
	return diagram.Point{X: c.Merge.OffsetX, Y: c.Merge.OffsetY}
}

// Registry builds the registry of enabled diagram kinds.
func (c Config) Registry() (diagram.Registry, error) {
	kinds := make([]diagram.Kind, len(c.Kinds))
	for i, k := range c.Kinds {
		kinds[i] = diagram.Kind(k)
	}
	return diagram.NewRegistry(kinds...)
}

// RedisConfig returns the cache connection settings.
func (c Config) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{Addr: c.Redis.Addr, Password: c.Redis.Password, DB: c.Redis.DB, Prefix: c.Redis.Prefix}
}

// MongoConfig returns the document store connection settings.
func (c Config) MongoConfig() store.MongoConfig {
	return store.MongoConfig{URI: c.Mongo.URI, Database: c.Mongo.Database, Collection: c.Mongo.Collection}
}
