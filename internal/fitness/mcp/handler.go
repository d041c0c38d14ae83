package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/fitness/dashboard"
	"github.com/2beens/fittrack/pkg"
)

// Handler parses tool input, calls the service and formats the MCP result.
type Handler struct {
	service analyticsService
	now     func() time.Time
}

func NewHandler(service analyticsService) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

func (h *Handler) GetFittrackSchemaTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetSchema(ctx)
		if err != nil {
			return errorResult("Error fetching schema: " + err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	}
}

// DashboardInput is the input for get_dashboard.
type DashboardInput struct {
	Now string `json:"now,omitempty" jsonschema:"Evaluate as of this date (YYYY-MM-DD), defaults to today"`
}

func (h *Handler) GetDashboardTool() func(context.Context, *mcp.CallToolRequest, DashboardInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DashboardInput) (*mcp.CallToolResult, any, error) {
		now, err := pkg.ParseOptionalDate(in.Now, h.now())
		if err != nil {
			return errorResult("Invalid now: use YYYY-MM-DD"), nil, nil
		}
		d, err := h.service.GetDashboard(ctx, now)
		if err != nil {
			return errorResult("Error computing dashboard: " + err.Error()), nil, nil
		}
		return jsonResult(d), nil, nil
	}
}

// GoalProgressInput is the input for get_goal_progress.
type GoalProgressInput struct {
	GoalID string `json:"goal_id" jsonschema:"Goal id"`
	Now    string `json:"now,omitempty" jsonschema:"Evaluate as of this date (YYYY-MM-DD), defaults to today"`
}

func (h *Handler) GetGoalProgressTool() func(context.Context, *mcp.CallToolRequest, GoalProgressInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in GoalProgressInput) (*mcp.CallToolResult, any, error) {
		if in.GoalID == "" {
			return errorResult("goal_id is required"), nil, nil
		}
		now, err := pkg.ParseOptionalDate(in.Now, h.now())
		if err != nil {
			return errorResult("Invalid now: use YYYY-MM-DD"), nil, nil
		}
		progress, err := h.service.GetGoalProgress(ctx, in.GoalID, now)
		if err != nil {
			return errorResult("Error computing goal progress: " + err.Error()), nil, nil
		}
		return jsonResult(progress), nil, nil
	}
}

// TrendInput is the input for get_trend.
type TrendInput struct {
	Metric     string `json:"metric" jsonschema:"One of: duration, volume, frequency, 1rm"`
	ExerciseID string `json:"exercise_id,omitempty" jsonschema:"Exercise id, required for the 1rm metric (e.g. bench_press)"`
	Now        string `json:"now,omitempty" jsonschema:"Evaluate as of this date (YYYY-MM-DD), defaults to today"`
}

func (h *Handler) GetTrendTool() func(context.Context, *mcp.CallToolRequest, TrendInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in TrendInput) (*mcp.CallToolResult, any, error) {
		now, err := pkg.ParseOptionalDate(in.Now, h.now())
		if err != nil {
			return errorResult("Invalid now: use YYYY-MM-DD"), nil, nil
		}
		stats, err := h.service.GetTrend(ctx, dashboard.Metric(in.Metric), in.ExerciseID, now)
		if err != nil {
			return errorResult("Error computing trend: " + err.Error()), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}

// OneRepMaxInput is the input for estimate_one_rep_max.
type OneRepMaxInput struct {
	Weight float64 `json:"weight" jsonschema:"Lifted weight in kilos"`
	Reps   int     `json:"reps" jsonschema:"Performed repetitions, at least 1"`
}

func (h *Handler) EstimateOneRepMaxTool() func(context.Context, *mcp.CallToolRequest, OneRepMaxInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in OneRepMaxInput) (*mcp.CallToolResult, any, error) {
		oneRepMax, err := analytics.EstimateOneRepMax(in.Weight, in.Reps)
		if err != nil {
			return errorResult(err.Error()), nil, nil
		}
		return jsonResult(map[string]any{
			"weight":    in.Weight,
			"reps":      in.Reps,
			"oneRepMax": oneRepMax,
		}), nil, nil
	}
}

// RecommendInput is the input for recommend_target.
type RecommendInput struct {
	Type    string   `json:"type" jsonschema:"Goal type: strength, volume or frequency"`
	Current *float64 `json:"current,omitempty" jsonschema:"Current value of the goal metric"`
}

func (h *Handler) RecommendTargetTool() func(context.Context, *mcp.CallToolRequest, RecommendInput) (*mcp.CallToolResult, any, error) {
	return func(_ context.Context, _ *mcp.CallToolRequest, in RecommendInput) (*mcp.CallToolResult, any, error) {
		goalType := analytics.GoalType(in.Type)
		if !goalType.IsValid() {
			return errorResult("Unknown goal type: " + in.Type), nil, nil
		}
		recommended, ok := analytics.Recommend(goalType, in.Current)
		if !ok {
			return textResult("No recommendation for a " + in.Type + " goal with this current value."), nil, nil
		}
		return jsonResult(map[string]any{
			"type":              goalType,
			"recommendedTarget": recommended,
		}), nil, nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return textResult(string(raw))
}
