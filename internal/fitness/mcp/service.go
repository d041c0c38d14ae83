package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/fitness/analytics"
	"github.com/2beens/fittrack/internal/fitness/dashboard"
)

// DashboardService computes dashboards, goal progress and trends.
type DashboardService interface {
	Dashboard(ctx context.Context, now time.Time) (*dashboard.Dashboard, error)
	GoalProgress(ctx context.Context, goalID string, now time.Time) (*analytics.GoalProgress, error)
	Trend(ctx context.Context, metric dashboard.Metric, exerciseID string, now time.Time) (*analytics.TrendStats, error)
}

// analyticsService is what the tool handlers need; kept as an interface for tests.
type analyticsService interface {
	GetSchema(ctx context.Context) (string, error)
	GetDashboard(ctx context.Context, now time.Time) (*dashboard.Dashboard, error)
	GetGoalProgress(ctx context.Context, goalID string, now time.Time) (*analytics.GoalProgress, error)
	GetTrend(ctx context.Context, metric dashboard.Metric, exerciseID string, now time.Time) (*analytics.TrendStats, error)
}

type AnalyticsService struct {
	schema     SchemaRepo
	dashboards DashboardService
}

func NewAnalyticsService(schemaRepo SchemaRepo, dashboards DashboardService) *AnalyticsService {
	return &AnalyticsService{
		schema:     schemaRepo,
		dashboards: dashboards,
	}
}

// GetSchema returns the workout and fitness_goal tables as markdown.
func (s *AnalyticsService) GetSchema(ctx context.Context) (string, error) {
	cols, err := s.schema.GetFittrackColumns(ctx)
	if err != nil {
		return "", err
	}
	return formatFittrackSchema(cols), nil
}

func formatFittrackSchema(cols []SchemaColumn) string {
	if len(cols) == 0 {
		return "# Fittrack DB Schema\n\nNo fittrack tables found in the database.\n"
	}

	byTable := make(map[string][]SchemaColumn)
	for _, c := range cols {
		byTable[c.TableName] = append(byTable[c.TableName], c)
	}

	tableOrder := make([]string, 0, len(byTable))
	for t := range byTable {
		tableOrder = append(tableOrder, t)
	}
	sort.Strings(tableOrder)

	var b strings.Builder
	b.WriteString("# Fittrack DB Schema\n\n")
	b.WriteString("Tables: workout (exercises kept as JSONB), fitness_goal (schema: public).\n\n")

	for _, tableName := range tableOrder {
		b.WriteString("## ")
		b.WriteString(tableName)
		b.WriteString("\n\n| Column | Type | Nullable | Default |\n|--------|------|----------|--------|\n")
		for _, c := range byTable[tableName] {
			def := "-"
			if c.ColumnDef != nil && *c.ColumnDef != "" {
				def = *c.ColumnDef
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", c.ColumnName, c.DataType, c.IsNullable, def)
		}
		b.WriteString("\n")
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func (s *AnalyticsService) GetDashboard(ctx context.Context, now time.Time) (*dashboard.Dashboard, error) {
	return s.dashboards.Dashboard(ctx, now)
}

func (s *AnalyticsService) GetGoalProgress(ctx context.Context, goalID string, now time.Time) (*analytics.GoalProgress, error) {
	return s.dashboards.GoalProgress(ctx, goalID, now)
}

func (s *AnalyticsService) GetTrend(ctx context.Context, metric dashboard.Metric, exerciseID string, now time.Time) (*analytics.TrendStats, error) {
	return s.dashboards.Trend(ctx, metric, exerciseID, now)
}
