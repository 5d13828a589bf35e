/*
Copyright © 2026 the skirt authors.
This file is part of skirt.

skirt is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

skirt is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with skirt.  If not, see <http://www.gnu.org/licenses/>.
*/

package fit

import (
	"fmt"

	"github.com/GaryBoone/GoStats/stats"
	"github.com/Knetic/govaluate"
)

// Objective compiles a fitness expression over per-generation statistics
// and evaluates it against one individual's residuals, grounded on the
// output-variable expression machinery the teacher builds with
// govaluate.NewEvaluableExpressionWithFunctions / .Evaluate.
type Objective struct {
	expr *govaluate.EvaluableExpression
	vars map[string]bool
}

// objectiveFunctions are the extra callables exposed to fitness
// expressions beyond govaluate's built-in arithmetic and comparison
// operators.
var objectiveFunctions = map[string]govaluate.ExpressionFunction{
	"abs": func(args ...interface{}) (interface{}, error) {
		v := args[0].(float64)
		if v < 0 {
			return -v, nil
		}
		return v, nil
	},
}

// NewObjective compiles expr, an arithmetic expression over the variable
// names "chi2", "mean", "stddev" (residual statistics computed per
// candidate by Evaluate) plus any reference-frame names the caller wires
// in through values at evaluation time.
func NewObjective(expr string) (*Objective, error) {
	compiled, err := govaluate.NewEvaluableExpressionWithFunctions(expr, objectiveFunctions)
	if err != nil {
		return nil, fmt.Errorf("fit: compiling objective expression %q: %w", expr, err)
	}
	vars := map[string]bool{}
	for _, v := range compiled.Vars() {
		vars[v] = true
	}
	return &Objective{expr: compiled, vars: vars}, nil
}

// Residuals computes the sum of squared differences, mean, and sample
// standard deviation between a simulated and a reference data series of
// equal length, using GoStats the way eval's regression tests do.
func Residuals(simulated, reference []float64) (chi2, mean, stddev float64, err error) {
	if len(simulated) != len(reference) {
		return 0, 0, 0, fmt.Errorf("fit: simulated has %d values, reference has %d", len(simulated), len(reference))
	}
	diffs := make([]float64, len(simulated))
	for i := range simulated {
		d := simulated[i] - reference[i]
		diffs[i] = d
		chi2 += d * d
	}
	mean = stats.StatsMean(diffs)
	stddev = stats.StatsSampleStandardDeviation(diffs)
	return chi2, mean, stddev, nil
}

// Evaluate computes residual statistics between simulated and reference,
// merges them into extra (if any extra key collides with chi2/mean/stddev
// the computed statistic wins), and evaluates the compiled expression
// against the result. Lower is better, by convention of the GA's
// minimization direction.
func (o *Objective) Evaluate(simulated, reference []float64, extra map[string]interface{}) (float64, error) {
	chi2, mean, stddev, err := Residuals(simulated, reference)
	if err != nil {
		return 0, err
	}
	params := make(map[string]interface{}, len(extra)+3)
	for k, v := range extra {
		params[k] = v
	}
	params["chi2"] = chi2
	params["mean"] = mean
	params["stddev"] = stddev

	result, err := o.expr.Evaluate(params)
	if err != nil {
		return 0, fmt.Errorf("fit: evaluating objective: %w", err)
	}
	v, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("fit: objective expression returned %T, want float64", result)
	}
	return v, nil
}
