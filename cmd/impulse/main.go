package main

import (
	"fmt"
	"net/http"
	"os"

	impulse "github.com/impulsehq/impulse"
	"github.com/impulsehq/impulse/internal/config"
	"github.com/impulsehq/impulse/pkg/chart"
	"github.com/impulsehq/impulse/pkg/dataservice"
	"github.com/impulsehq/impulse/pkg/storage"
	"github.com/spf13/cobra"
)

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "impulse",
		Short:   "Chart dashboard for the Impulse metric data service",
		Version: "1.0.0",
	}

	// Add commands
	rootCmd.AddCommand(buildServeCmd())
	rootCmd.AddCommand(buildChartCmd())
	rootCmd.AddCommand(buildMetricCmd())

	// Execute
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds the data service client from configuration
func newClient(cfg *config.Config) *dataservice.Client {
	return dataservice.NewClient(cfg.ServiceURL, impulse.DefaultLog,
		dataservice.WithToken(cfg.Token),
		dataservice.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		dataservice.WithRetry(cfg.RetryAttempts),
	)
}

// newController wires storage, loader and controller. The returned storage
// must be closed by the caller.
func newController(cfg *config.Config) (*chart.Controller, storage.Store, error) {
	store, err := openStorage(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open chart storage: %w", err)
	}

	loader := chart.NewLoader(newClient(cfg), impulse.DefaultLog)
	return chart.NewController(store, loader, impulse.DefaultLog), store, nil
}

// openStorage picks the chart storage backend from configuration
func openStorage(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return storage.FromSQLite(cfg.StoragePath, impulse.DefaultLog)
	default:
		return storage.FromFile(cfg.StoragePath, impulse.DefaultLog)
	}
}
