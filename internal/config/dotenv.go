package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// BaseURLKey names the variable that overrides the site's base URL.
const BaseURLKey = "PAGEMETA_BASE_URL"

// DotEnvPath returns the path of the dotenv file that sits beside the config.
func (c *Config) DotEnvPath() string {
	return filepath.Join(c.Dir, ".env")
}

// LoadDotEnv reads the site's .env and returns key/value pairs.
// The process environment is left untouched.
func (c *Config) LoadDotEnv() (map[string]string, error) {
	p := c.DotEnvPath()
	m, err := godotenv.Read(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("cannot read dotenv file %s: %w", p, err)
	}
	return m, nil
}

// GetConfigValue returns the effective value for key, using process environment
// variables first and falling back to the site's .env.
func (c *Config) GetConfigValue(key string) (string, error) {
	if v := os.Getenv(key); v != "" {
		return v, nil
	}
	dotenv, err := c.LoadDotEnv()
	if err != nil {
		return "", err
	}
	return dotenv[key], nil
}

// BaseURL resolves the site base URL: PAGEMETA_BASE_URL when set, otherwise
// default_base_url from the config.
func (c *Config) BaseURL() (string, error) {
	v, err := c.GetConfigValue(BaseURLKey)
	if err != nil {
		return "", err
	}
	if v = strings.TrimSpace(v); v != "" {
		return v, nil
	}
	if c.DefaultBaseURL != "" {
		return c.DefaultBaseURL, nil
	}
	return DefaultBaseURL, nil
}

// EnsureDotEnvTemplate creates the site's .env if it does not already exist.
func (c *Config) EnsureDotEnvTemplate() (bool, error) {
	p := c.DotEnvPath()

	if _, err := os.Stat(p); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("cannot stat dotenv file %s: %w", p, err)
	}

	body := "# Overrides default_base_url from " + FileName + "\n" +
		BaseURLKey + "=\n"

	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		return false, fmt.Errorf("cannot write dotenv template %s: %w", p, err)
	}
	return true, nil
}
