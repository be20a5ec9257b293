package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amanah-labs/halal-screener/internal/model"
)

func TestAggregateStatistics(t *testing.T) {
	t.Run("no records", func(t *testing.T) {
		got := AggregateStatistics(nil)
		assert.Equal(t, model.Statistics{}, got)
	})

	t.Run("counts per rating", func(t *testing.T) {
		rated := func(r model.Rating) model.ScreeningRecord {
			return model.ScreeningRecord{Outcome: model.ScreeningOutcome{OverallRating: r}}
		}
		recs := []model.ScreeningRecord{
			rated(model.RatingHalal), rated(model.RatingHalal), rated(model.RatingHalal),
			rated(model.RatingQuestionable),
			rated(model.RatingNonHalal), rated(model.RatingNonHalal),
		}

		got := AggregateStatistics(recs)
		assert.Equal(t, model.Statistics{Total: 6, Halal: 3, Questionable: 1, NonHalal: 2}, got)
	})
}
