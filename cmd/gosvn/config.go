package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gosvn/gosvn/native"
)

// config is the optional YAML configuration file. Everything has a
// sensible default; the file mainly exists for machines where the
// Subversion libraries live outside the loader path.
type config struct {
	Libraries struct {
		// Dir is searched before the system loader path, like
		// GOSVN_LIBRARY_PATH.
		Dir string `yaml:"dir"`

		// Per-library overrides, full paths.
		APR    string `yaml:"apr"`
		Subr   string `yaml:"subr"`
		Delta  string `yaml:"delta"`
		FS     string `yaml:"fs"`
		WC     string `yaml:"wc"`
		RA     string `yaml:"ra"`
		Client string `yaml:"client"`
		Repos  string `yaml:"repos"`
	} `yaml:"libraries"`

	Auth struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`
}

// loadConfig reads path. A missing file is an error only when the path
// was given explicitly.
func loadConfig(path string, explicit bool) (*config, error) {
	cfg := &config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *config) openLibrary() (*native.Library, error) {
	if c.Libraries.Dir != "" && os.Getenv("GOSVN_LIBRARY_PATH") == "" {
		os.Setenv("GOSVN_LIBRARY_PATH", c.Libraries.Dir)
	}
	lib, err := native.Load(native.Config{
		APR:    c.Libraries.APR,
		Subr:   c.Libraries.Subr,
		Delta:  c.Libraries.Delta,
		FS:     c.Libraries.FS,
		WC:     c.Libraries.WC,
		RA:     c.Libraries.RA,
		Client: c.Libraries.Client,
		Repos:  c.Libraries.Repos,
	})
	if err != nil {
		return nil, err
	}
	if err := lib.EnsureInitialized(); err != nil {
		return nil, err
	}
	return lib, nil
}
