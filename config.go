package mininote

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// ErrNotLoggedIn is returned by Config.ValidateForSync when there is no authentication token.
var ErrNotLoggedIn = errors.New("not logged in")

// Config is the user configuration, kept in a YAML file.
type Config struct {
	AuthToken    string      `yaml:"auth_token,omitempty"`
	NotebookGUID string      `yaml:"notebook_guid,omitempty"`
	TextEditor   string      `yaml:"text_editor,omitempty"`
	Endpoint     string      `yaml:"endpoint,omitempty"`
	StateDir     string      `yaml:"state_dir,omitempty"`
	OAuth        OAuthConfig `yaml:"oauth"`
}

// DefaultConfigPath returns $MININOTE_CONFIG if set, otherwise config.yaml in the mininote directory of the
// user's home (AppData\Roaming\mininote on Windows).
func DefaultConfigPath() (string, error) {
	if p := os.Getenv("MININOTE_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Roaming", "mininote", "config.yaml"), nil
	}
	return filepath.Join(home, ".mininote", "config.yaml"), nil
}

// LoadConfig reads the configuration at path and expands environment variables in its values. Use it to talk to
// the service; use LoadRawConfig to change and Save the configuration.
func LoadConfig(path string) (*Config, error) {
	c, err := LoadRawConfig(path)
	if err != nil {
		return nil, err
	}
	return c.Expanded(), nil
}

// LoadRawConfig reads the configuration at path as written, with environment variable references left alone.
// A missing file yields an empty configuration. The file must not be accessible by group or others, as it holds
// the auth token.
func LoadRawConfig(path string) (*Config, error) {
	var c Config
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if runtime.GOOS != "windows" && fi.Mode().Perm()&0077 != 0 {
		return nil, fmt.Errorf("config %s: mode %#o: stricter permissions required, want %#o",
			path, fi.Mode().Perm(), fi.Mode().Perm()&0700)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &c, nil
}

// Expanded returns a copy of the configuration with $VAR and ${VAR} references replaced by their values.
func (c *Config) Expanded() *Config {
	e := *c
	for _, v := range []*string{
		&e.AuthToken, &e.NotebookGUID, &e.TextEditor, &e.Endpoint, &e.StateDir,
		&e.OAuth.ClientID, &e.OAuth.ClientSecret, &e.OAuth.AuthURL, &e.OAuth.TokenURL,
	} {
		*v = os.ExpandEnv(*v)
	}
	return &e
}

// Save writes the configuration to path, creating its directory if needed.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// DeleteAuth forgets the authentication token.
func (c *Config) DeleteAuth() {
	c.AuthToken = ""
}

// ValidateForSync checks that the configuration is enough to talk to the sync API.
func (c *Config) ValidateForSync() error {
	if c.AuthToken == "" {
		return ErrNotLoggedIn
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Endpoint, validation.Required),
	)
}
