package main

import (
	"github.com/spf13/cobra"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/fitness/dashboard"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Print the dashboard computed from the snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			now, err := resolveNow(cmd)
			if err != nil {
				return err
			}
			snapshotPath, _ := cmd.Flags().GetString("snapshot")
			snapshot, err := readSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			d := dashboard.Build(*snapshot, now, analytics.NewEngine(cfg.GoalThresholds), cfg.TrendConfig())
			return printJSON(cmd.OutOrStdout(), d)
		},
	}
	cmd.Flags().String("now", "", "Evaluate as of this date (YYYY-MM-DD), defaults to today")
	return cmd
}

func newTrendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trend METRIC",
		Short: "Print the trend of a metric: duration, volume, frequency or 1rm",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			now, err := resolveNow(cmd)
			if err != nil {
				return err
			}
			snapshotPath, _ := cmd.Flags().GetString("snapshot")
			snapshot, err := readSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			exerciseID, _ := cmd.Flags().GetString("exercise")
			series, err := dashboard.Series(dashboard.Metric(args[0]), snapshot.Workouts, exerciseID, now)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), analytics.Analyze(series, cfg.TrendConfig()))
		},
	}
	cmd.Flags().String("now", "", "Evaluate as of this date (YYYY-MM-DD), defaults to today")
	cmd.Flags().String("exercise", "", "Exercise id, required for the 1rm metric")
	return cmd
}
