package executor

import (
	"math"

	"github.com/sg243/retailql/internal/domain/data"
	"github.com/sg243/retailql/internal/plan"
)

// aggregate computes one aggregate item over a group of rows.
//
// SUM treats non-numeric or absent cells as 0. AVG excludes them from
// the denominator; an all-excluded group averages to 0. COUNT(*)
// counts rows, COUNT(col) counts present, non-blank cells. MIN/MAX are
// numeric when every counted cell coerces, lexicographic otherwise.
func aggregate(it plan.Item, rows []data.Row) any {
	switch it.Func {
	case plan.AggCount:
		if it.Star {
			return int64(len(rows))
		}
		n := int64(0)
		for _, row := range rows {
			if v, ok := row[it.Column]; ok && v != nil && data.Stringify(v) != "" {
				n++
			}
		}
		return n

	case plan.AggSum:
		sum := 0.0
		for _, row := range rows {
			if f, ok := row.Float(it.Column); ok {
				sum += f
			}
		}
		return sum

	case plan.AggAvg:
		sum := 0.0
		n := 0
		for _, row := range rows {
			if f, ok := row.Float(it.Column); ok {
				sum += f
				n++
			}
		}
		if n == 0 {
			return 0.0
		}
		return sum / float64(n)

	case plan.AggMin:
		return extremum(it.Column, rows, true)

	case plan.AggMax:
		return extremum(it.Column, rows, false)
	}
	return nil
}

// extremum scans a column for its minimum or maximum. When every
// present cell coerces to a number the result is numeric; otherwise
// values compare as strings.
func extremum(col string, rows []data.Row, min bool) any {
	var bestNum float64
	var bestStr string
	numeric := true
	seen := false

	for _, row := range rows {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		f, numOK := data.ToFloat(v)
		s := data.Stringify(v)
		if !seen {
			bestNum, bestStr, numeric, seen = f, s, numOK, true
			continue
		}
		numeric = numeric && numOK
		if numOK && ((min && f < bestNum) || (!min && f > bestNum)) {
			bestNum = f
		}
		if (min && s < bestStr) || (!min && s > bestStr) {
			bestStr = s
		}
	}

	if !seen {
		return nil
	}
	if numeric {
		return bestNum
	}
	return bestStr
}

// applyRound rounds numeric values half away from zero to the given
// number of decimals. Non-numeric values pass through untouched.
func applyRound(v any, digits *int) any {
	if digits == nil || v == nil {
		return v
	}
	f, ok := data.ToFloat(v)
	if !ok {
		return v
	}
	shift := math.Pow(10, float64(*digits))
	return math.Round(f*shift) / shift
}
