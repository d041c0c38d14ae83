package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/2beens/fittrack/internal/config"
	"github.com/2beens/fittrack/internal/fitness/dashboard"
	"github.com/2beens/fittrack/pkg"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fitctl",
		Short:         "Offline fittrack analytics",
		Long:          "fitctl computes dashboards and trends, imports FIT activities and exports sessions, working on a JSON snapshot of workouts and goals.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().String("snapshot", "snapshot.json", "Path to the JSON snapshot of workouts and goals")
	rootCmd.PersistentFlags().String("config", "", "Path to TOML config file (defaults are used when empty)")
	rootCmd.PersistentFlags().String("env", "development", "Config section [dev | development | ddev | dockerdev | prod | production]")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newTrendCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportFitCmd())
	rootCmd.AddCommand(newEstimateCmd())
	rootCmd.AddCommand(newRecommendCmd())

	return rootCmd
}

// resolveConfig returns the config from --config, or the defaults when it is not set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	env, _ := cmd.Flags().GetString("env")
	return config.Load(env, path)
}

// resolveNow parses --now, falling back to the current time.
func resolveNow(cmd *cobra.Command) (time.Time, error) {
	value, _ := cmd.Flags().GetString("now")
	return pkg.ParseOptionalDate(value, time.Now())
}

func readSnapshot(path string) (*dashboard.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	var snapshot dashboard.Snapshot
	if err := json.NewDecoder(f).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", path, err)
	}
	return &snapshot, nil
}

// readSnapshotOrEmpty is readSnapshot, except a missing file yields an empty snapshot.
func readSnapshotOrEmpty(path string) (*dashboard.Snapshot, error) {
	snapshot, err := readSnapshot(path)
	if errors.Is(err, os.ErrNotExist) {
		return &dashboard.Snapshot{}, nil
	}
	return snapshot, err
}

func writeSnapshot(path string, snapshot *dashboard.Snapshot) error {
	b, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
