package mcp

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with fittrack analytics tools: schema, dashboard,
// goal progress, trends, one-rep-max estimation and target recommendation.
// Mounted on the main backend at /mcp and served over stdio by cmd/fitness_mcp.
func NewServer(pool *pgxpool.Pool, dashboards DashboardService) *mcp.Server {
	svc := NewAnalyticsService(NewPoolSchemaRepo(pool), dashboards)
	return newServer(NewHandler(svc))
}

func newServer(h *Handler) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "fittrack-analytics",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_fittrack_schema",
		Description: "Returns the DB schema of the workout and fitness_goal tables: columns, types, nullable, default. Use when you need the actual backend storage layout.",
	}, h.GetFittrackSchemaTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_dashboard",
		Description: "Returns the dashboard: session summaries, duration and volume trends, progress of every goal. Optional arg: now (YYYY-MM-DD) to evaluate as of a past or future date.",
	}, h.GetDashboardTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_goal_progress",
		Description: "Returns the live progress of a single goal: current value, progress percent, status (not-started, on-track, ahead, behind, at-risk, achieved, expired), days remaining. Args: goal_id; optional: now (YYYY-MM-DD).",
	}, h.GetGoalProgressTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_trend",
		Description: "Returns average, min, max and the least squares trend (direction, magnitude in %) of a metric. Arg: metric (duration, volume, frequency, 1rm); exercise_id is required for 1rm.",
	}, h.GetTrendTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "estimate_one_rep_max",
		Description: "Estimates the one-rep-max of a set with the Epley formula. Args: weight (kg), reps.",
	}, h.EstimateOneRepMaxTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "recommend_target",
		Description: "Recommends a goal target from the current value: +7.5% for strength, +12.5% for volume, none for frequency. Args: type; optional: current.",
	}, h.RecommendTargetTool())

	return s
}
