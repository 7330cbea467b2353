package executor

import (
	"sort"

	"github.com/sg243/retailql/internal/domain/data"
	"github.com/sg243/retailql/internal/plan"
)

// sortRows stably sorts result rows by the order keys, numeric-aware:
// when both cells coerce to numbers they compare numerically, else
// lexicographically. Stability keeps first-seen group order as the
// tie-break.
func sortRows(rows []data.Row, keys []plan.OrderKey) {
	if len(keys) == 0 {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, key := range keys {
			ord, _ := compareValues(rows[i][key.Column], rows[j][key.Column])
			if ord == 0 {
				continue
			}
			if key.Desc {
				return ord > 0
			}
			return ord < 0
		}
		return false
	})
}
