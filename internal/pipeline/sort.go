package pipeline

import (
	"sort"

	"StockAnalyst/internal/model"
)

// SortByRecommendation orders results BUY, HOLD, SELL. Ties keep their input order.
func SortByRecommendation(items []model.AnalyzedInstrument) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Analysis.Recommendation.Priority() < items[j].Analysis.Recommendation.Priority()
	})
}
