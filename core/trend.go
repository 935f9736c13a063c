package core

import (
	"math"
	"slices"

	"github.com/huangsam/blqdash/schema"
	"gonum.org/v1/gonum/stat"
)

// FitTrendLine fits y = a + b*x by ordinary least squares. It returns nil
// when there are fewer than two points or every x is the same.
func FitTrendLine(xs, ys []float64) *schema.TrendLine {
	if len(xs) < 2 || len(xs) != len(ys) {
		return nil
	}
	minX, maxX := slices.Min(xs), slices.Max(xs)
	if minX == maxX {
		return nil
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)
	if math.IsNaN(r2) {
		// Constant y is fitted exactly
		r2 = 1
	}

	return &schema.TrendLine{
		Slope:     beta,
		Intercept: alpha,
		RSquared:  r2,
		MinX:      minX,
		MaxX:      maxX,
	}
}
