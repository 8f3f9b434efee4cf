package main

import (
	impulse "github.com/impulsehq/impulse"
	"github.com/impulsehq/impulse/internal/config"
	"github.com/impulsehq/impulse/pkg/plot"
	"github.com/spf13/cobra"
)

var (
	servePort  int
	serveDebug bool
)

func buildServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart dashboard",
		RunE:  runServe,
	}

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (overrides configuration)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Disable chart script minification")

	return serveCmd
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	controller, store, err := newController(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	port := cfg.Port
	if servePort > 0 {
		port = servePort
	}

	options := []plot.Option{plot.WithPort(port)}
	if serveDebug {
		options = append(options, plot.WithDebug())
	}

	server, err := plot.NewServer(controller, impulse.DefaultLog, options...)
	if err != nil {
		return err
	}

	return server.Start()
}
