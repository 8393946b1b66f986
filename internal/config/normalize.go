package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDevice()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error

	c.Paths.DataRoot = strings.TrimSpace(c.Paths.DataRoot)
	if c.Paths.DataRoot == "" {
		if value, ok := os.LookupEnv("MYO_DATA_ROOT"); ok {
			c.Paths.DataRoot = strings.TrimSpace(value)
		}
	}
	if c.Paths.DataRoot == "" {
		c.Paths.DataRoot = defaultDataRoot
	}
	if c.Paths.DataRoot, err = expandPath(c.Paths.DataRoot); err != nil {
		return fmt.Errorf("paths.data_root: %w", err)
	}

	// An empty journal path stays empty: journaling is opt-in.
	c.Paths.JournalPath = strings.TrimSpace(c.Paths.JournalPath)
	if c.Paths.JournalPath == "" {
		if value, ok := os.LookupEnv("MYO_JOURNAL_PATH"); ok {
			c.Paths.JournalPath = strings.TrimSpace(value)
		}
	}
	if c.Paths.JournalPath != "" {
		if c.Paths.JournalPath, err = expandPath(c.Paths.JournalPath); err != nil {
			return fmt.Errorf("paths.journal_path: %w", err)
		}
	}

	if strings.TrimSpace(c.Paths.PlotDir) == "" {
		c.Paths.PlotDir = defaultPlotDir
	}
	if c.Paths.PlotDir, err = expandPath(c.Paths.PlotDir); err != nil {
		return fmt.Errorf("paths.plot_dir: %w", err)
	}

	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeDevice() {
	if c.Device.Window <= 0 {
		c.Device.Window = defaultWindow
	}
	if c.Device.SynthAmplitude <= 0 {
		c.Device.SynthAmplitude = defaultSynthAmplitude
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
