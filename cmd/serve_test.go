package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amanah-labs/halal-screener/internal/model"
	"github.com/amanah-labs/halal-screener/internal/screening"
	"github.com/amanah-labs/halal-screener/internal/store"
)

// Only error kinds that can actually escape the engine are mapped to
// dedicated statuses; everything else is a 500.
func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown coin", eris.Wrap(screening.ErrNotFound, "coin lookup"), http.StatusNotFound},
		{"missing record", eris.Wrapf(store.ErrNotFound, "screening %s", "rec-1"), http.StatusNotFound},
		{"invalid facts", eris.Wrap(screening.ErrInvalidFacts, "bad activity"), http.StatusBadRequest},
		{"entitlement denied", screening.ErrEntitlementDenied, http.StatusTooManyRequests},
		{"facts unavailable", eris.Wrap(screening.ErrDataUnavailable, "upstream down"), http.StatusServiceUnavailable},
		{"unclassified", eris.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestRatingDisplay(t *testing.T) {
	assert.Equal(t, "✅", ratingEmoji(model.RatingHalal))
	assert.Equal(t, "⚠️", ratingEmoji(model.RatingQuestionable))
	assert.Equal(t, "❌", ratingEmoji(model.RatingNonHalal))
	assert.Equal(t, "❓", ratingEmoji(model.Rating("bogus")))

	assert.Equal(t, "#22c55e", ratingColor(model.RatingHalal))
	assert.Equal(t, "#f59e0b", ratingColor(model.RatingQuestionable))
	assert.Equal(t, "#ef4444", ratingColor(model.RatingNonHalal))
	assert.Equal(t, "#6b7280", ratingColor(model.Rating("bogus")))
}
