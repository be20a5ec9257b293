package facts

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanah-labs/halal-screener/internal/model"
	"github.com/amanah-labs/halal-screener/internal/screening"
)

// The shipped catalog is screened end to end so that a bad entry (for
// example a flipped decentralization value) cannot ship with the repo.

func shippedCatalog(t *testing.T) *FileSource {
	t.Helper()
	src, err := NewFileSource(filepath.Join("..", "..", "facts.yaml"))
	require.NoError(t, err)
	return src
}

func screenShipped(t *testing.T, src *FileSource, id string) *model.ScreeningOutcome {
	t.Helper()
	f, err := src.Lookup(context.Background(), id)
	require.NoError(t, err)
	out, err := screening.Evaluate(f, screening.DefaultMethodology(), time.Now())
	require.NoError(t, err)
	return out
}

func TestShippedCatalogRatings(t *testing.T) {
	src := shippedCatalog(t)

	want := map[string]model.Rating{
		"bitcoin":      model.RatingHalal,
		"ethereum":     model.RatingHalal,
		"islamic-coin": model.RatingHalal,
		"tether":       model.RatingQuestionable,
		"chainlink":    model.RatingQuestionable,
		"aave":         model.RatingNonHalal,
		"dogecoin":     model.RatingNonHalal,
	}

	for id, rating := range want {
		t.Run(id, func(t *testing.T) {
			out := screenShipped(t, src, id)
			assert.Equal(t, rating, out.OverallRating)
		})
	}
}

func TestShippedCatalogDecentralizationCredit(t *testing.T) {
	src := shippedCatalog(t)

	// Established public chains earn the decentralization credit and
	// must not fail the governance pillar on it.
	for _, id := range []string{"bitcoin", "ethereum"} {
		out := screenShipped(t, src, id)
		assert.NotEqual(t, model.StatusNonCompliant, out.Pillars.Governance.Status, id)
		assert.GreaterOrEqual(t, out.Pillars.Governance.Score, 50, id)
	}

	// A centrally issued stablecoin must not collect it.
	out := screenShipped(t, src, "tether")
	assert.Equal(t, model.StatusNonCompliant, out.Pillars.Governance.Status)
	assert.Less(t, out.Pillars.Governance.Score, 40)
}

func TestShippedCatalogHardOverrides(t *testing.T) {
	src := shippedCatalog(t)

	// Aave carries a riba flag; the override must hold even though
	// its governance and transparency signals are otherwise strong.
	out := screenShipped(t, src, "aave")
	assert.Equal(t, model.StatusNonCompliant, out.Pillars.Nature.Status)
	assert.Equal(t, model.RatingNonHalal, out.OverallRating)
}
