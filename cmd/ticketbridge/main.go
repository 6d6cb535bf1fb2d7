package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/ticketbridge/pkg/adapter/core"
	"github.com/ajitpratap0/ticketbridge/pkg/adapter/registry"
	"github.com/ajitpratap0/ticketbridge/pkg/config"
	"github.com/ajitpratap0/ticketbridge/pkg/jsonx"
	"github.com/ajitpratap0/ticketbridge/pkg/logger"
	"github.com/ajitpratap0/ticketbridge/pkg/observability"
	"github.com/ajitpratap0/ticketbridge/pkg/ticket"

	// Import all available adapters to register them
	_ "github.com/ajitpratap0/ticketbridge/pkg/adapter/servicenow"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	var configFile, systemType, logLevel string
	var timeout time.Duration
	var enableTracing bool

	root := &cobra.Command{
		Use:   "ticketbridge",
		Short: "ticketbridge - Health-checked adapter for external ticketing systems",
		Long: `ticketbridge exposes a normalized CRUD interface over an external ticketing
system's REST API and reports its availability through ONLINE/OFFLINE events.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{Level: logLevel, Encoding: "json"})
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "Path to adapter configuration YAML")
	root.PersistentFlags().StringVar(&systemType, "type", "servicenow", "Adapter system type")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "Overall operation timeout")
	root.PersistentFlags().BoolVar(&enableTracing, "trace", false, "Enable OpenTelemetry tracing")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ticketbridge v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available adapter types",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Available adapters:")
			for _, systemType := range registry.List() {
				fmt.Printf("  - %s\n", systemType)
			}
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Connect and report the remote system's availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdapter(configFile, systemType, timeout, enableTracing, func(ctx context.Context, a core.Adapter) error {
				online, err := a.Subscribe(core.StatusOnline)
				if err != nil {
					return err
				}
				defer a.Unsubscribe(online)
				offline, err := a.Subscribe(core.StatusOffline)
				if err != nil {
					return err
				}
				defer a.Unsubscribe(offline)

				status := a.Healthcheck(ctx)

				// Healthcheck emits exactly one event matching its outcome
				var event core.StatusEvent
				select {
				case event = <-online:
				case event = <-offline:
				}
				if err := printJSON(event); err != nil {
					return err
				}

				if status != core.StatusOnline {
					return fmt.Errorf("remote system is %s", status)
				}
				return nil
			})
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Read the configured table and print normalized tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withAdapter(configFile, systemType, timeout, enableTracing, func(ctx context.Context, a core.Adapter) error {
				tickets, err := a.GetRecords(ctx)
				if err != nil {
					return err
				}
				return printJSON(tickets)
			})
		},
	})

	var fields []string
	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Write one record to the configured table",
		Long: `Write one record to the configured table and print the created ticket.

Example:
  ticketbridge post --config adapter.yaml --field short_description="emergency change" --field priority=1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			record := ticket.RawRecord{}
			for _, field := range fields {
				key, value, found := strings.Cut(field, "=")
				if !found {
					return fmt.Errorf("invalid --field %q, expected key=value", field)
				}
				record[key] = value
			}

			return withAdapter(configFile, systemType, timeout, enableTracing, func(ctx context.Context, a core.Adapter) error {
				created, err := a.PostRecord(ctx, record)
				if err != nil {
					return err
				}
				return printJSON(created)
			})
		},
	}
	postCmd.Flags().StringArrayVar(&fields, "field", nil, "Record field as key=value (repeatable)")
	root.AddCommand(postCmd)

	if err := root.Execute(); err != nil {
		logger.Error("command failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// withAdapter builds an adapter from the config file, runs fn against it and
// tears it down. Tracing comes up when either the configuration or the
// --trace flag asks for it.
func withAdapter(configFile, systemType string, timeout time.Duration, forceTracing bool, fn func(context.Context, core.Adapter) error) error {
	if configFile == "" {
		return fmt.Errorf("--config is required")
	}

	cfg := &config.AdapterConfig{}
	if err := config.Load(configFile, cfg); err != nil {
		return err
	}

	if forceTracing || cfg.Observability.EnableTracing {
		if err := observability.Init(observability.Config{
			ServiceName:    "ticketbridge",
			ServiceVersion: version,
			Environment:    os.Getenv("TICKETBRIDGE_ENV"),
			SamplingRate:   1.0,
		}); err != nil {
			return err
		}
	}

	adapter, err := registry.Create(systemType, systemType+"-cli", cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	defer func() {
		_ = adapter.Close(ctx)
		_ = observability.Shutdown(ctx)
	}()

	return fn(ctx, adapter)
}

func printJSON(v interface{}) error {
	enc := jsonx.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
