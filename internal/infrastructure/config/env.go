package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "VDRREMOTE_"

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// EnvLookup returns a LookupFunc over the process environment. Values read
// from envFile fill in variables the process does not already set.
func EnvLookup(envFile string) (LookupFunc, error) {
	if envFile == "" {
		return os.LookupEnv, nil
	}
	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}, nil
}

// ApplyEnv overrides settings from VDRREMOTE_* variables. Unset variables
// leave the current value alone.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if v, ok := lookup(EnvPrefix + "HOST"); ok {
		c.VDR.Host = v
	}
	if v, ok := lookup(EnvPrefix + "PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPORT %q: %w", EnvPrefix, v, err)
		}
		c.VDR.Port = port
	}
	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT %q: %w", EnvPrefix, v, err)
		}
		c.VDR.Timeout = d
	}
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvPrefix + "LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := lookup(EnvPrefix + "LISTEN_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sLISTEN_PORT %q: %w", EnvPrefix, v, err)
		}
		c.Server.Port = port
	}
	return nil
}
