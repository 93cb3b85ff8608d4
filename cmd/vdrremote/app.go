package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.yaml.in/yaml/v4"

	"github.com/githubixx/vdrremote-go/internal/adapters/secondary/svdrp"
	"github.com/githubixx/vdrremote-go/internal/application/services"
	"github.com/githubixx/vdrremote-go/internal/infrastructure/config"
	"github.com/githubixx/vdrremote-go/internal/ports"
)

// app carries what every subcommand needs once flags and config are resolved.
type app struct {
	configPath string
	envFile    string
	host       string
	port       int
	timeout    time.Duration
	output     string

	stdout io.Writer
	stderr io.Writer

	// newClient is replaced in tests.
	newClient func(cfg *config.Config, logger *slog.Logger) ports.VDRClient

	cfg    *config.Config
	logger *slog.Logger
	client ports.VDRClient
	status *services.StatusService
	guide  *services.GuideService
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:    stdout,
		stderr:    stderr,
		newClient: newSVDRPClient,
	}
}

func newSVDRPClient(cfg *config.Config, logger *slog.Logger) ports.VDRClient {
	client := svdrp.NewClient(cfg.VDR.Host, cfg.VDR.Port, cfg.VDR.Timeout)
	client.SetLogger(logger)
	return client
}

func (a *app) bindFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&a.configPath, "config", "c", "config.yaml", "path to configuration file")
	fs.StringVar(&a.envFile, "env-file", "", "dotenv file with VDRREMOTE_* overrides")
	fs.StringVar(&a.host, "host", "", "VDR host (overrides config)")
	fs.IntVarP(&a.port, "port", "p", svdrp.DefaultPort, "SVDRP port (overrides config)")
	fs.DurationVar(&a.timeout, "timeout", 0, "per-command timeout, e.g. 5s (overrides config)")
	fs.StringVarP(&a.output, "output", "o", "json", "output format: json or yaml")
}

// setup loads the config, applies environment and flag overrides in that
// order and wires client and services.
func (a *app) setup(cmd *cobra.Command) error {
	switch a.output {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid --output %q (must be json or yaml)", a.output)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	lookup, err := config.EnvLookup(a.envFile)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.VDR.Host = a.host
	}
	if flags.Changed("port") {
		cfg.VDR.Port = a.port
	}
	if flags.Changed("timeout") {
		cfg.VDR.Timeout = a.timeout
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := newLogger(a.stderr, cfg.Log)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.client = a.newClient(cfg, logger)
	a.status = services.NewStatusService(a.client, logger)
	a.guide = services.NewGuideService(a.client, logger)

	logger.Debug("configuration loaded",
		slog.String("vdr_host", cfg.VDR.Host),
		slog.Int("vdr_port", cfg.VDR.Port),
		slog.Duration("timeout", cfg.VDR.Timeout))
	return nil
}

func newLogger(w io.Writer, lc config.LogConfig) (*slog.Logger, error) {
	level, err := config.ParseLevel(lc.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

// print writes v to stdout in the selected output format.
func (a *app) print(v any) error {
	if a.output == "yaml" {
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = a.stdout.Write(data)
		return err
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}
