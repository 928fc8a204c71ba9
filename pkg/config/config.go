// Package config loads degreetree settings from a TOML file.
//
// A missing file is not an error: [Load] returns [Default] in that case.
// Keys absent from the file keep their default values.
//
//	[layout]
//	width = 800
//	height = 320
//
//	[camera]
//	max_scale = 3
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/degreetree/pkg/cache"
	"github.com/matzehuels/degreetree/pkg/camera"
	apperrors "github.com/matzehuels/degreetree/pkg/errors"
	"github.com/matzehuels/degreetree/pkg/layout"
	"github.com/matzehuels/degreetree/pkg/session"
	"github.com/matzehuels/degreetree/pkg/store"
)

// AppName names the config, cache and data directories.
const AppName = "degreetree"

// Config is the full settings tree.
type Config struct {
	Layout  Layout  `toml:"layout"`
	Camera  Camera  `toml:"camera"`
	Cache   Cache   `toml:"cache"`
	Store   Store   `toml:"store"`
	Server  Server  `toml:"server"`
	Session Session `toml:"session"`
}

// Layout holds the default viewport and margins.
type Layout struct {
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	MarginX float64 `toml:"margin_x"`
	MarginY float64 `toml:"margin_y"`
}

// Camera holds zoom bounds and transition settings.
type Camera struct {
	MinScale      float64 `toml:"min_scale"`
	MaxScale      float64 `toml:"max_scale"`
	DefaultScale  float64 `toml:"default_scale"`
	TransitionMS  int     `toml:"transition_ms"`
	ReducedMotion bool    `toml:"reduced_motion"`
}

// Cache selects the layout and artifact cache backend.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       Duration `toml:"ttl"`
}

// Store selects the tree document backend.
type Store struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// Server configures the HTTP API.
type Server struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

// Session selects the viewer session backend.
type Session struct {
	Backend   string `toml:"backend"`
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// Duration is a time.Duration written as a string such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Layout: Layout{
			Width:   800,
			Height:  320,
			MarginX: layout.DefaultMarginX,
			MarginY: layout.DefaultMarginY,
		},
		Camera: Camera{
			MinScale:     camera.DefaultMinScale,
			MaxScale:     camera.DefaultMaxScale,
			DefaultScale: camera.DefaultScale,
			TransitionMS: int(camera.DefaultTransitionDuration / time.Millisecond),
		},
		Cache: Cache{
			Backend:   cache.BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{cache.LayoutTTL},
		},
		Store: Store{
			Backend:       store.BackendFile,
			MongoDatabase: store.DefaultMongoDatabase,
		},
		Server: Server{
			Addr:       ":8080",
			SessionTTL: Duration{session.DefaultTTL},
		},
		Session: Session{
			Backend:   session.BackendMemory,
			RedisAddr: "localhost:6379",
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/degreetree/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, AppName, "config.toml"), nil
}

// Load reads path over the defaults and validates the result.
// An empty path means [DefaultPath]. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// Validate checks zoom bounds and backend names.
func (c Config) Validate() error {
	if err := c.CameraConfig().Validate(); err != nil {
		return err
	}
	if c.Camera.TransitionMS < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "transition_ms must not be negative")
	}
	if err := apperrors.ValidateViewport(c.Layout.Width, c.Layout.Height); err != nil {
		return err
	}
	if err := oneOf("cache.backend", c.Cache.Backend, cache.BackendFile, cache.BackendRedis, cache.BackendNone); err != nil {
		return err
	}
	if err := oneOf("store.backend", c.Store.Backend, store.BackendMemory, store.BackendFile, store.BackendMongo); err != nil {
		return err
	}
	if c.Store.Backend == store.BackendMongo && c.Store.MongoURI == "" {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "store.mongo_uri is required for the mongo backend")
	}
	return oneOf("session.backend", c.Session.Backend, session.BackendMemory, session.BackendFile, session.BackendRedis)
}

func oneOf(key, v string, allowed ...string) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: unknown backend %q (want one of %v)", key, v, allowed)
}

// CameraConfig converts the camera section for [camera.WithConfig].
func (c Config) CameraConfig() camera.Config {
	cc := camera.DefaultConfig()
	cc.MinScale = c.Camera.MinScale
	cc.MaxScale = c.Camera.MaxScale
	cc.DefaultScale = c.Camera.DefaultScale
	return cc
}

// Transition returns the camera transition duration; zero under reduced
// motion.
func (c Config) Transition() time.Duration {
	if c.Camera.ReducedMotion {
		return 0
	}
	return time.Duration(c.Camera.TransitionMS) * time.Millisecond
}

// CacheOptions converts the cache section for [cache.Open].
func (c Config) CacheOptions() cache.Options {
	return cache.Options{Backend: c.Cache.Backend, Dir: c.Cache.Dir, RedisAddr: c.Cache.RedisAddr}
}

// StoreOptions converts the store section for [store.Open].
func (c Config) StoreOptions() store.Options {
	return store.Options{
		Backend:       c.Store.Backend,
		Dir:           c.Store.Dir,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
	}
}

// SessionOptions converts the session section for [session.Open].
func (c Config) SessionOptions() session.Options {
	return session.Options{Backend: c.Session.Backend, Dir: c.Session.Dir, RedisAddr: c.Session.RedisAddr}
}
