package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/impulsehq/impulse/internal/config"
	"github.com/impulsehq/impulse/pkg/core"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	chartName        string
	chartDescription string
	chartDuration    bool
	chartImpulses    []string
)

func buildChartCmd() *cobra.Command {
	chartCmd := &cobra.Command{
		Use:   "chart",
		Short: "Manage chart definitions",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored charts",
		RunE:  runChartList,
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new chart",
		RunE:  runChartCreate,
	}
	createCmd.Flags().StringVarP(&chartName, "name", "n", "", "Chart name")
	createCmd.Flags().StringVarP(&chartDescription, "description", "d", "", "Optional description")
	createCmd.Flags().BoolVar(&chartDuration, "duration", false, "Format values as durations (milliseconds)")
	createCmd.Flags().StringArrayVarP(&chartImpulses, "impulse", "i", nil,
		"Impulse spec: <metric>[:<hex color>[:line|dots]] (repeatable)")
	createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagRequired("impulse")

	deleteCmd := &cobra.Command{
		Use:   "delete <chart-id>",
		Short: "Delete a chart",
		Args:  cobra.ExactArgs(1),
		RunE:  runChartDelete,
	}

	chartCmd.AddCommand(listCmd, createCmd, deleteCmd)
	return chartCmd
}

func runChartList(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	controller, store, err := newController(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name", "Impulses", "Updated"})

	for _, chart := range controller.List() {
		expressions := make([]string, 0, len(chart.Impulses))
		for _, impulse := range chart.Impulses {
			expressions = append(expressions, impulse.Expression)
		}

		table.Append([]string{
			chart.ID,
			chart.Name,
			strings.Join(expressions, ", "),
			time.UnixMilli(chart.UpdatedAt).Format("2006-01-02 15:04:05"),
		})
	}

	table.Render()
	return nil
}

func runChartCreate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	controller, store, err := newController(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	impulses := make([]core.Impulse, 0, len(chartImpulses))
	for _, spec := range chartImpulses {
		impulse, err := parseImpulseSpec(spec)
		if err != nil {
			return err
		}
		impulses = append(impulses, impulse)
	}

	chart, err := controller.Create(core.Chart{
		Name:        chartName,
		Description: chartDescription,
		Duration:    chartDuration,
		Impulses:    impulses,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created chart %s (%s)\n", strconv.Quote(chart.Name), chart.ID)
	return nil
}

func runChartDelete(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	controller, store, err := newController(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := controller.Delete(args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted chart %s\n", args[0])
	return nil
}

// parseImpulseSpec parses <metric>[:<hex color>[:line|dots]]
func parseImpulseSpec(spec string) (core.Impulse, error) {
	parts := strings.SplitN(spec, ":", 3)

	impulse := core.Impulse{Expression: strings.TrimSpace(parts[0])}
	if !impulse.IsValid() {
		return core.Impulse{}, fmt.Errorf("invalid impulse spec %q: empty metric name", spec)
	}

	if len(parts) > 1 && parts[1] != "" {
		impulse.Color = parts[1]
	}

	if len(parts) > 2 {
		switch core.DisplayType(parts[2]) {
		case core.DisplayTypeLine, core.DisplayTypeDots:
			impulse.DisplayType = core.DisplayType(parts[2])
		default:
			return core.Impulse{}, fmt.Errorf("invalid impulse spec %q: display type must be line or dots", spec)
		}
	}

	return impulse, nil
}
