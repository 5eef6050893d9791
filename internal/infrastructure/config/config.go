// Package config handles configuration loading and saving.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/tesso57/headlines/internal/application/settings"
)

const appName = "headlines"

// Store manages persisted application settings.
type Store struct {
	Settings   settings.Settings
	configPath string
}

// DefaultPath returns ~/.config/headlines/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.yaml"), nil
}

// Load loads the configuration from the specified path or default location.
// A missing file is created with the defaults.
func Load(customPath ...string) (*Store, error) {
	var configPath string
	if len(customPath) > 0 && customPath[0] != "" {
		configPath = customPath[0]
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := settings.Settings{}
	var options []kong.Option

	_, statErr := os.Stat(configPath)
	exists := statErr == nil
	if exists {
		options = append(options, kong.Configuration(yamlKongLoader, configPath))
	}

	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse([]string{}); err != nil {
		return nil, err
	}

	store := &Store{Settings: cfg, configPath: configPath}
	store.applyDerivedDefaults()

	if !exists {
		if err := store.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}
	return store, nil
}

// Path returns the file the settings are saved to.
func (s *Store) Path() string { return s.configPath }

func (s *Store) applyDerivedDefaults() {
	st := &s.Settings
	st.Store.Path = strings.TrimSpace(st.Store.Path)
	if st.Store.Path == "" {
		st.Store.Path = filepath.Join(defaultDataHome(), appName, appName+".db")
	}
	st.Log.File = strings.TrimSpace(st.Log.File)
	if st.Log.File == "" {
		st.Log.File = filepath.Join(defaultDataHome(), appName, appName+".log")
	}
	st.Log.Level = strings.ToLower(strings.TrimSpace(st.Log.Level))
}

func defaultDataHome() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome != "" {
		return dataHome
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

func yamlKongLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	var f kong.ResolverFunc = func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		for _, name := range []string{flag.Name, strings.ReplaceAll(flag.Name, "-", "_")} {
			if v, ok := lookup(values, strings.Split(name, ".")); ok {
				return v, nil
			}
		}
		return nil, nil
	}
	return f, nil
}

// lookup walks nested yaml maps along path.
func lookup(values map[string]any, path []string) (any, bool) {
	curr := values
	for i, part := range path {
		v, ok := curr[part]
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		curr = next
	}
	return nil, false
}

// Save writes the current settings to the config file.
func (s *Store) Save() error {
	f, err := os.Create(s.configPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(s.Settings); err != nil {
		return err
	}
	return enc.Close()
}
