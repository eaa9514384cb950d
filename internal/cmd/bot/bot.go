// Package bot parses bot command flags and starts the workflow runtime.
package bot

import (
	"context"
	"flag"

	"github.com/greenroomhq/greenroom/internal/app"
	entrypoint "github.com/greenroomhq/greenroom/internal/platform/cmd"
	"github.com/greenroomhq/greenroom/internal/platform/config"
)

// Config holds bot command configuration.
type Config struct {
	StoreDriver         string `env:"GREENROOM_STORE_DRIVER" envDefault:"memory" yaml:"storeDriver"`
	StorePath           string `env:"GREENROOM_STORE_PATH" yaml:"storePath"`
	PostgresDSN         string `env:"GREENROOM_POSTGRES_DSN" yaml:"postgresDsn"`
	NATSURL             string `env:"GREENROOM_NATS_URL" yaml:"natsUrl"`
	CommandSubject      string `env:"GREENROOM_COMMAND_SUBJECT" yaml:"commandSubject"`
	NotifySubjectPrefix string `env:"GREENROOM_NOTIFY_SUBJECT_PREFIX" yaml:"notifySubjectPrefix"`
	CommandPrefix       string `env:"GREENROOM_COMMAND_PREFIX" envDefault:"!gr " yaml:"commandPrefix"`
	Debug               bool   `env:"GREENROOM_DEBUG" yaml:"debug"`
	MetricsAddr         string `env:"GREENROOM_METRICS_ADDR" envDefault:":9090" yaml:"metricsAddr"`
	ConfigFile          string `env:"GREENROOM_CONFIG_FILE" yaml:"-"`
}

// ParseConfig parses environment, an optional YAML profile, and flags into
// a Config. Flags win over the profile, the profile wins over env.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := config.LoadFile(cfg.ConfigFile, &cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Document store driver (memory, sqlite, postgres)")
	fs.StringVar(&cfg.StorePath, "store-path", cfg.StorePath, "SQLite database path")
	fs.StringVar(&cfg.NATSURL, "nats-url", cfg.NATSURL, "NATS broker URL")
	fs.StringVar(&cfg.CommandPrefix, "prefix", cfg.CommandPrefix, "Command prefix the bot answers to")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Allow acting on your own projects")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Metrics listen address (empty disables)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the bot runtime with telemetry configured.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBot, func(ctx context.Context) error {
		return app.Run(ctx, app.Config{
			StoreDriver:         cfg.StoreDriver,
			StorePath:           cfg.StorePath,
			PostgresDSN:         cfg.PostgresDSN,
			NATSURL:             cfg.NATSURL,
			CommandSubject:      cfg.CommandSubject,
			NotifySubjectPrefix: cfg.NotifySubjectPrefix,
			CommandPrefix:       cfg.CommandPrefix,
			Debug:               cfg.Debug,
			MetricsAddr:         cfg.MetricsAddr,
		})
	})
}
