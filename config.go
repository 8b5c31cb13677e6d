package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"mehearsal/catalog"
	"mehearsal/studio"

	"gopkg.in/yaml.v3"
)

type MehearsalConfig struct {
	HttpListenAddr string        `yaml:"httpListenAddr"`
	LogLevel       string        `yaml:"logLevel"`
	Catalog        CatalogConfig `yaml:"catalog"`
	Studio         StudioConfig  `yaml:"studio"`
}

func (c *MehearsalConfig) Write(dst io.Writer) error {
	return yaml.NewEncoder(dst).Encode(c)
}

type CatalogConfig struct {
	DB        string `yaml:"db"`
	ImportDir string `yaml:"importDir"`
}

type StudioConfig struct {
	TickInterval  time.Duration `yaml:"tickInterval"`
	IdleTimeout   time.Duration `yaml:"idleTimeout"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
	MaxSessions   int           `yaml:"maxSessions"`
}

func (c CatalogConfig) module() catalog.Config {
	return catalog.Config{DB: c.DB, ImportDir: c.ImportDir}
}

func (c StudioConfig) module() studio.Config {
	return studio.Config{
		TickInterval:  c.TickInterval,
		IdleTimeout:   c.IdleTimeout,
		SweepInterval: c.SweepInterval,
		MaxSessions:   c.MaxSessions,
	}
}

func DefaultConfig() MehearsalConfig {
	return MehearsalConfig{
		HttpListenAddr: ":8086",
		LogLevel:       "info",
		Catalog: CatalogConfig{
			DB: catalog.DefaultDB,
		},
		Studio: StudioConfig{
			TickInterval:  studio.DefaultTickInterval,
			IdleTimeout:   studio.DefaultIdleTimeout,
			SweepInterval: time.Minute,
			MaxSessions:   studio.DefaultMaxSessions,
		},
	}
}

// Environment variables overriding the config file.
const (
	EnvListenAddr  = "MEHEARSAL_LISTEN_ADDR"
	EnvLogLevel    = "MEHEARSAL_LOG_LEVEL"
	EnvCatalogDB   = "MEHEARSAL_CATALOG_DB"
	EnvImportDir   = "MEHEARSAL_IMPORT_DIR"
	EnvIdleTimeout = "MEHEARSAL_IDLE_TIMEOUT"
)

// LoadConfig reads the YAML file at path (if not empty) over the defaults,
// then applies the environment overrides.
func LoadConfig(path string) (MehearsalConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("LoadConfig: %w", err)
		}
		defer f.Close()

		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && err != io.EOF {
			return cfg, fmt.Errorf("LoadConfig: decode %s: %w", path, err)
		}
	}

	cfg.HttpListenAddr = envStr(EnvListenAddr, cfg.HttpListenAddr)
	cfg.LogLevel = envStr(EnvLogLevel, cfg.LogLevel)
	cfg.Catalog.DB = envStr(EnvCatalogDB, cfg.Catalog.DB)
	cfg.Catalog.ImportDir = envStr(EnvImportDir, cfg.Catalog.ImportDir)
	cfg.Studio.IdleTimeout = envDuration(EnvIdleTimeout, cfg.Studio.IdleTimeout)

	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// plain seconds
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}
