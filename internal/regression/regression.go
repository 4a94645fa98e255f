// Package regression implements ordinary least squares fitting for the
// descriptive analytics endpoints (goals vs. shots correlation).
package regression

import "math"

// Point is one paired observation.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result holds the fitted line and its coefficient of determination.
type Result struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// Fit computes a closed-form OLS fit over the sample. The function is
// total: an empty sample returns all zeros, and a sample with zero
// variance in x returns a horizontal line through the mean of y with
// rSquared 0 instead of propagating NaN.
func Fit(points []Point) Result {
	n := float64(len(points))
	if n == 0 {
		return Result{}
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
		sumYY += p.Y * p.Y
	}

	denomX := n*sumXX - sumX*sumX
	if denomX == 0 {
		return Result{Intercept: sumY / n}
	}

	slope := (n*sumXY - sumX*sumY) / denomX
	intercept := (sumY - slope*sumX) / n

	denomY := n*sumYY - sumY*sumY
	rSquared := 0.0
	if denomY > 0 {
		r := (n*sumXY - sumX*sumY) / math.Sqrt(denomX*denomY)
		rSquared = r * r
	} else if slope == 0 {
		// Constant y perfectly explained by a flat line.
		rSquared = 1.0
	}

	return Result{Slope: slope, Intercept: intercept, RSquared: rSquared}
}
