package algo

import (
	"sort"

	"github.com/sinteticoai/givemetry/schema"
)

// RankRiskItems sorts batch risk items by score in descending order and
// returns the top 'limit' items. Failed items (nil result) sort last.
// If limit is greater than the number of items, all are returned sorted.
func RankRiskItems(items []schema.BatchRiskItem, limit int) []schema.BatchRiskItem {
	out := make([]schema.BatchRiskItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := -1.0, -1.0
		if out[i].Result != nil {
			si = out[i].Result.Score
		}
		if out[j].Result != nil {
			sj = out[j].Result.Score
		}
		return si > sj
	})
	if limit > 0 && len(out) > limit {
		return out[:limit]
	}
	return out
}
