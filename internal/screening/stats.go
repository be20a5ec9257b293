package screening

import "github.com/amanah-labs/halal-screener/internal/model"

// AggregateStatistics computes population-level rating counts over a
// set of stored records. Pure read-side aggregation; an empty input
// yields all-zero counts. Records with ratings outside the enum are
// counted in the total only.
func AggregateStatistics(records []model.ScreeningRecord) model.Statistics {
	var stats model.Statistics
	for _, r := range records {
		stats.Total++
		switch r.Outcome.OverallRating {
		case model.RatingHalal:
			stats.Halal++
		case model.RatingQuestionable:
			stats.Questionable++
		case model.RatingNonHalal:
			stats.NonHalal++
		}
	}
	return stats
}
