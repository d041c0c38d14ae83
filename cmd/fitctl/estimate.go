package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/fitness/dashboard"
)

func newEstimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the one-rep-max of a set (Epley)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, _ := cmd.Flags().GetFloat64("weight")
			reps, _ := cmd.Flags().GetInt("reps")

			oneRepMax, err := analytics.EstimateOneRepMax(weight, reps)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dashboard.OneRepMaxResponse{
				Weight:    weight,
				Reps:      reps,
				OneRepMax: oneRepMax,
			})
		},
	}
	cmd.Flags().Float64("weight", 0, "Lifted weight in kilos")
	cmd.Flags().Int("reps", 0, "Performed repetitions")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("reps")
	return cmd
}

func newRecommendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend a goal target from the current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			typeFlag, _ := cmd.Flags().GetString("type")
			goalType := analytics.GoalType(typeFlag)
			if !goalType.IsValid() {
				return fmt.Errorf("%w: %s", analytics.ErrUnknownGoalType, typeFlag)
			}

			resp := dashboard.RecommendResponse{Type: goalType}
			if cmd.Flags().Changed("current") {
				current, _ := cmd.Flags().GetFloat64("current")
				resp.Current = &current
				if target, ok := analytics.Recommend(goalType, &current); ok {
					resp.RecommendedTarget = &target
				}
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().String("type", "", "Goal type: strength, volume or frequency")
	cmd.Flags().Float64("current", 0, "Current value of the goal metric")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
