package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/fitness/fitimport"
	"github.com/2beens/fittrack/internal/fitness/workouts"
)

func newImportFitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-fit FILE...",
		Short: "Append the sessions of FIT activity files to the snapshot",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshotPath, _ := cmd.Flags().GetString("snapshot")
			snapshot, err := readSnapshotOrEmpty(snapshotPath)
			if err != nil {
				return err
			}

			imported := 0
			for _, path := range args {
				records, err := decodeFitFile(path)
				if err != nil {
					return err
				}
				for _, record := range records {
					if err := workouts.Normalize(&record); err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					record.ID = uuid.NewString()
					snapshot.Workouts = append(snapshot.Workouts, record)
					imported++
				}
			}

			if err := writeSnapshot(snapshotPath, snapshot); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d sessions into %s\n", imported, snapshotPath)
			return nil
		},
	}
}

func decodeFitFile(path string) ([]analytics.WorkoutRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FIT file: %w", err)
	}
	defer f.Close()

	records, err := fitimport.DecodeSessions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
