package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/fitness/export"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the snapshot's session summaries as a parquet file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshotPath, _ := cmd.Flags().GetString("snapshot")
			snapshot, err := readSnapshot(snapshotPath)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")

			sessions := analytics.Summarize(snapshot.Workouts)
			if err := export.WriteSessions(out, sessions); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d sessions to %s\n", len(sessions), out)
			return nil
		},
	}
	cmd.Flags().String("out", "sessions.parquet", "Output parquet file")
	return cmd
}
