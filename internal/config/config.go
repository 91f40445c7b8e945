// Package config loads the demo program's settings from a YAML file,
// merges them over built-in defaults, and optionally hot-reloads on
// change, mirroring the teacher's config.Loader and its fsnotify-driven
// template watcher.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Config is the demo program's full settings surface.
type Config struct {
	Theme    string          `yaml:"theme"`
	List     ListConfig      `yaml:"list"`
	Scroll   ScrollConfig    `yaml:"scroll"`
	Keymap   map[string]string `yaml:"keymap"`
}

// ListConfig configures the engine's render/size behavior.
type ListConfig struct {
	Overscan       int     `yaml:"overscan"`
	PoolCapacity   int     `yaml:"poolCapacity"`
	MaxVirtualSize float64 `yaml:"maxVirtualSize"`
}

// ScrollConfig configures the scroll controller.
type ScrollConfig struct {
	SmoothDurationMS  int     `yaml:"smoothDurationMs"`
	IdleTimeoutMS     int     `yaml:"idleTimeoutMs"`
	WheelSensitivity  float64 `yaml:"wheelSensitivity"`
	WheelEnabled      bool    `yaml:"wheelEnabled"`
}

// SmoothDuration and IdleTimeout convert the configured millisecond values
// to time.Duration for direct use by scrollctl.Config.
func (s ScrollConfig) SmoothDuration() time.Duration {
	return time.Duration(s.SmoothDurationMS) * time.Millisecond
}

func (s ScrollConfig) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMS) * time.Millisecond
}

// Loader loads, merges, and optionally watches a YAML config file.
type Loader struct {
	path     string
	defaults Config
	user     *Config
	merged   Config
	mu       sync.RWMutex

	watcher   *fsnotify.Watcher
	callbacks []func(Config)
}

// NewLoader returns a Loader reading from path, seeded with defaults.
func NewLoader(path string) *Loader {
	return &Loader{
		path:     path,
		defaults: defaultConfig(),
		merged:   defaultConfig(),
	}
}

// Load reads the config file if present and merges it over defaults. A
// missing file is not an error; the loader simply keeps the defaults.
func (l *Loader) Load() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := os.Stat(l.path); err != nil {
		l.merged = l.defaults
		return nil
	}
	user, err := l.loadFile(l.path)
	if err != nil {
		return fmt.Errorf("config: failed to load %s: %w", l.path, err)
	}
	l.user = user
	l.merged = mergeConfigs(l.defaults, *user)
	return nil
}

// LoadString parses config from a string, for tests and embedded defaults.
func (l *Loader) LoadString(content string) (Config, error) {
	return l.parse(strings.NewReader(content))
}

func (l *Loader) loadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := l.parse(f)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) parse(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("config: parse error: %w", err)
	}
	return cfg, nil
}

// Get returns the current merged configuration.
func (l *Loader) Get() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.merged
}

// OnChange registers a callback invoked with the newly merged config each
// time the watched file changes.
func (l *Loader) OnChange(fn func(Config)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.callbacks = append(l.callbacks, fn)
}

// Watch starts an fsnotify watch on the config file's directory so
// external edits are picked up without a restart. Call Close to stop.
func (l *Loader) Watch() error {
	dir := filepath.Dir(l.path)
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: failed to start watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("config: failed to watch %s: %w", dir, err)
	}
	l.mu.Lock()
	l.watcher = watcher
	l.mu.Unlock()

	go l.watchLoop(watcher)
	return nil
}

func (l *Loader) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != l.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := l.Load(); err != nil {
				continue
			}
			cfg := l.Get()
			l.mu.RLock()
			callbacks := append([]func(Config){}, l.callbacks...)
			l.mu.RUnlock()
			for _, cb := range callbacks {
				cb(cfg)
			}
		case _, ok := <-watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the file watcher, if running.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.watcher == nil {
		return nil
	}
	err := l.watcher.Close()
	l.watcher = nil
	return err
}

func mergeConfigs(defaults, user Config) Config {
	merged := defaults
	if user.Theme != "" {
		merged.Theme = user.Theme
	}
	if user.List.Overscan != 0 {
		merged.List.Overscan = user.List.Overscan
	}
	if user.List.PoolCapacity != 0 {
		merged.List.PoolCapacity = user.List.PoolCapacity
	}
	if user.List.MaxVirtualSize != 0 {
		merged.List.MaxVirtualSize = user.List.MaxVirtualSize
	}
	if user.Scroll.SmoothDurationMS != 0 {
		merged.Scroll.SmoothDurationMS = user.Scroll.SmoothDurationMS
	}
	if user.Scroll.IdleTimeoutMS != 0 {
		merged.Scroll.IdleTimeoutMS = user.Scroll.IdleTimeoutMS
	}
	if user.Scroll.WheelSensitivity != 0 {
		merged.Scroll.WheelSensitivity = user.Scroll.WheelSensitivity
	}
	merged.Scroll.WheelEnabled = defaults.Scroll.WheelEnabled || user.Scroll.WheelEnabled
	if merged.Keymap == nil {
		merged.Keymap = make(map[string]string)
	}
	for k, v := range user.Keymap {
		merged.Keymap[k] = v
	}
	return merged
}

func defaultConfig() Config {
	return Config{
		Theme: "default",
		List: ListConfig{
			Overscan:       3,
			PoolCapacity:   150,
			MaxVirtualSize: 16_777_000,
		},
		Scroll: ScrollConfig{
			SmoothDurationMS: 300,
			IdleTimeoutMS:    150,
			WheelSensitivity: 1,
			WheelEnabled:     true,
		},
		Keymap: map[string]string{
			"up":   "k",
			"down": "j",
			"quit": "q",
		},
	}
}
