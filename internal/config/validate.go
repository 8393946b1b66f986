package config

import (
	"errors"
	"fmt"

	"github.com/himanishpuri/MyoDNA/pkg/logger"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDevice(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataRoot == "" {
		return errors.New("paths.data_root must be set")
	}
	if c.Paths.APIBind == "" {
		return errors.New("paths.api_bind must be set")
	}
	return nil
}

func (c *Config) validateDevice() error {
	if c.Device.Window <= 0 {
		return errors.New("device.window must be positive")
	}
	if c.Device.SynthAmplitude <= 0 || c.Device.SynthAmplitude > 1 {
		return errors.New("device.synth_amplitude must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := logger.ParseLevel(c.Logging.Level); !ok {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error, fatal", c.Logging.Level)
	}
	return nil
}
