package analytics

import "math"

// Direction can be one of:
//   - increasing
//   - decreasing
//   - stable
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionStable     Direction = "stable"
)

const DefaultRelativeThreshold = 0.01

type TrendConfig struct {
	// RelativeThreshold is the minimal |slope| / |mean| ratio that still counts as a trend.
	RelativeThreshold float64
}

func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		RelativeThreshold: DefaultRelativeThreshold,
	}
}

type SeriesStats struct {
	Average *float64 `json:"average,omitempty"`
	Min     *Point   `json:"min,omitempty"`
	Max     *Point   `json:"max,omitempty"`
}

type Regression struct {
	Direction Direction `json:"direction"`
	// Magnitude is the signed percentage change of the fitted line
	// between the first and the last point, rounded to one decimal.
	// Negative for a falling line.
	Magnitude float64 `json:"magnitude"`
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	// Line holds the fitted value for each input point; empty with fewer than 2 points.
	Line []Point `json:"line"`
}

type TrendStats struct {
	SeriesStats
	Trend Regression `json:"trend"`
}

// Describe computes the mean and the min and max values paired with their dates.
// On ties the first occurrence wins.
func Describe(series []Point) SeriesStats {
	if len(series) == 0 {
		return SeriesStats{}
	}

	minPoint := series[0]
	maxPoint := series[0]
	var sum float64
	for _, p := range series {
		sum += p.Value
		if p.Value < minPoint.Value {
			minPoint = p
		}
		if p.Value > maxPoint.Value {
			maxPoint = p
		}
	}
	avg := sum / float64(len(series))

	return SeriesStats{
		Average: &avg,
		Min:     &minPoint,
		Max:     &maxPoint,
	}
}

// RegressionTrend fits an ordinary least squares line of value against the
// 0-based position in the series and classifies its direction.
func RegressionTrend(series []Point, cfg TrendConfig) Regression {
	n := len(series)
	if n < 2 {
		return Regression{
			Direction: DirectionStable,
			Line:      []Point{},
		}
	}

	threshold := cfg.RelativeThreshold
	if threshold < 0 {
		threshold = DefaultRelativeThreshold
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, p := range series {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumX2 += x * x
	}

	nf := float64(n)
	// distinct x values, so the denominator is positive for n >= 2
	denom := nf*sumX2 - sumX*sumX
	slope := (nf*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / nf
	mean := sumY / nf

	direction := DirectionStable
	if math.Abs(slope)/nonZero(math.Abs(mean)) >= threshold {
		switch {
		case slope > 0:
			direction = DirectionIncreasing
		case slope < 0:
			direction = DirectionDecreasing
		}
	}

	line := make([]Point, n)
	for i, p := range series {
		line[i] = Point{
			Date:  p.Date,
			Value: intercept + slope*float64(i),
		}
	}

	first := line[0].Value
	last := line[n-1].Value
	magnitude := roundTo((last-first)/nonZero(math.Abs(first))*100, 1)

	return Regression{
		Direction: direction,
		Magnitude: magnitude,
		Slope:     slope,
		Intercept: intercept,
		Line:      line,
	}
}

// Analyze combines Describe and RegressionTrend.
func Analyze(series []Point, cfg TrendConfig) TrendStats {
	return TrendStats{
		SeriesStats: Describe(series),
		Trend:       RegressionTrend(series, cfg),
	}
}
