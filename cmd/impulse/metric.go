package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/impulsehq/impulse/internal/config"
	"github.com/impulsehq/impulse/pkg/core"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const pushBatchSize = 500

func buildMetricCmd() *cobra.Command {
	metricCmd := &cobra.Command{
		Use:   "metric",
		Short: "Inspect and manage metrics on the data service",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List metric names",
		RunE:  runMetricList,
	}

	statsCmd := &cobra.Command{
		Use:   "stats <metric>",
		Short: "Print summary statistics and a value histogram for a metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runMetricStats,
	}

	pushCmd := &cobra.Command{
		Use:   "push <metric> <csv-file>",
		Short: "Ingest datapoints from a CSV file (timestamp,value[,dimensions-json])",
		Args:  cobra.ExactArgs(2),
		RunE:  runMetricPush,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <metric>",
		Short: "Delete a metric and all of its datapoints",
		Args:  cobra.ExactArgs(1),
		RunE:  runMetricDelete,
	}

	metricCmd.AddCommand(listCmd, statsCmd, pushCmd, deleteCmd)
	return metricCmd
}

func runMetricList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	names, err := newClient(cfg).ListMetrics(cmd.Context())
	if err != nil {
		return err
	}

	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func runMetricStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	datapoints, err := newClient(cfg).GetMetric(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	values := make([]float64, 0, len(datapoints))
	for _, datapoint := range datapoints {
		values = append(values, datapoint.Value)
	}

	if len(values) == 0 {
		fmt.Println("No datapoints.")
		return nil
	}

	fmt.Printf("Datapoints: %d\n", len(values))
	fmt.Printf("Min:        %.4f\n", floats.Min(values))
	fmt.Printf("Max:        %.4f\n", floats.Max(values))
	fmt.Printf("Mean:       %.4f\n", stat.Mean(values, nil))
	fmt.Printf("StdDev:     %.4f\n\n", stat.StdDev(values, nil))

	hist := histogram.Hist(9, values)
	return histogram.Fprint(os.Stdout, hist, histogram.Linear(40))
}

func runMetricPush(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	name, path := args[0], args[1]

	datapoints, err := readDatapointsCSV(path)
	if err != nil {
		return err
	}

	client := newClient(cfg)
	bar := progressbar.Default(int64(len(datapoints)), "pushing "+name)

	for start := 0; start < len(datapoints); start += pushBatchSize {
		end := min(start+pushBatchSize, len(datapoints))
		if err := client.AddDatapoints(cmd.Context(), name, datapoints[start:end]); err != nil {
			return err
		}
		bar.Add(end - start)
	}

	return nil
}

func runMetricDelete(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := newClient(cfg).DeleteMetric(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted metric %s\n", args[0])
	return nil
}

// readDatapointsCSV parses rows of timestamp,value[,dimensions-json]
func readDatapointsCSV(path string) ([]core.Datapoint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	var datapoints []core.Datapoint
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}

		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected timestamp,value[,dimensions-json]", line)
		}

		timestamp, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid timestamp: %w", line, err)
		}

		value, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value: %w", line, err)
		}

		datapoint := core.Datapoint{
			Timestamp: &timestamp,
			Value:     value,
		}

		if len(record) > 2 && record[2] != "" {
			if err := json.Unmarshal([]byte(record[2]), &datapoint.Dimensions); err != nil {
				return nil, fmt.Errorf("line %d: invalid dimensions: %w", line, err)
			}
		}

		datapoints = append(datapoints, datapoint)
	}

	return datapoints, nil
}
