package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the site config file looked up in the working directory.
	FileName = "pagemeta.yaml"

	DefaultContentRoot = "content/pages"
	DefaultIndexFile   = "index.mdx"
	DefaultPage        = "home"
	DefaultBaseURL     = "https://dan-malone.com"
	DefaultListen      = "127.0.0.1:3000"
)

// Config is the in-memory representation of pagemeta.yaml.
type Config struct {
	ContentRoot    string `yaml:"content_root"`
	IndexFile      string `yaml:"index_file,omitempty"`
	DefaultPage    string `yaml:"default_page,omitempty"`
	DefaultBaseURL string `yaml:"default_base_url,omitempty"`
	Listen         string `yaml:"listen,omitempty"`

	// Dir is the directory the config was loaded from. Relative paths in the
	// config resolve against it, and .env is read from it.
	Dir string `yaml:"-"`
}

// DefaultConfig returns the config used when no pagemeta.yaml exists.
func DefaultConfig() *Config {
	return &Config{
		ContentRoot:    DefaultContentRoot,
		IndexFile:      DefaultIndexFile,
		DefaultPage:    DefaultPage,
		DefaultBaseURL: DefaultBaseURL,
		Listen:         DefaultListen,
		Dir:            ".",
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

// Load reads and parses the config at path. A missing file is not an error:
// the defaults are returned with Dir set to the file's directory.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Dir = filepath.Dir(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	cfg.applyDefaults()

	// Expand ~ in ContentRoot at load time.
	cfg.ContentRoot, err = ExpandPath(cfg.ContentRoot)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save marshals cfg and writes it to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write config %s: %w", path, err)
	}
	return nil
}

// ContentPath returns the content root resolved against Dir.
func (c *Config) ContentPath() string {
	if filepath.IsAbs(c.ContentRoot) {
		return c.ContentRoot
	}
	return filepath.Join(c.Dir, c.ContentRoot)
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if strings.TrimSpace(c.ContentRoot) == "" {
		c.ContentRoot = d.ContentRoot
	}
	if strings.TrimSpace(c.IndexFile) == "" {
		c.IndexFile = d.IndexFile
	}
	if strings.TrimSpace(c.DefaultPage) == "" {
		c.DefaultPage = d.DefaultPage
	}
	if strings.TrimSpace(c.DefaultBaseURL) == "" {
		c.DefaultBaseURL = d.DefaultBaseURL
	}
	if strings.TrimSpace(c.Listen) == "" {
		c.Listen = d.Listen
	}
}
