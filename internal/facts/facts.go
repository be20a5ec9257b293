// Package facts supplies structured compliance facts to the screening
// engine. The canonical source is a curated YAML catalog; market data
// enrichment is layered on separately and never affects scoring.
package facts

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/amanah-labs/halal-screener/internal/model"
	"github.com/amanah-labs/halal-screener/internal/screening"
)

// SourceName identifies the catalog in a record's data source list.
const SourceName = "facts-catalog"

// catalog is the on-disk shape of the facts file.
type catalog struct {
	Coins map[string]model.CryptocurrencyFacts `yaml:"coins"`
}

// FileSource resolves coins against a YAML facts catalog. Lookup
// accepts either the stable source id or the ticker symbol.
type FileSource struct {
	byID     map[string]model.CryptocurrencyFacts
	bySymbol map[string]model.CryptocurrencyFacts
}

// NewFileSource loads and validates a facts catalog.
func NewFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "facts: read catalog %s", path)
	}
	return parseCatalog(data)
}

func parseCatalog(data []byte) (*FileSource, error) {
	var cat catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, eris.Wrap(err, "facts: parse catalog")
	}

	src := &FileSource{
		byID:     make(map[string]model.CryptocurrencyFacts, len(cat.Coins)),
		bySymbol: make(map[string]model.CryptocurrencyFacts, len(cat.Coins)),
	}
	for id, f := range cat.Coins {
		if f.Coin.SourceID == "" {
			f.Coin.SourceID = id
		}
		f.ApplyDefaultThresholds()
		if err := f.Validate(); err != nil {
			return nil, eris.Wrapf(err, "facts: catalog entry %s", id)
		}
		src.byID[strings.ToLower(f.Coin.SourceID)] = f
		src.bySymbol[strings.ToUpper(f.Coin.Symbol)] = f
	}
	return src, nil
}

// Lookup implements the engine's facts provider contract.
func (s *FileSource) Lookup(ctx context.Context, coinID string) (*model.CryptocurrencyFacts, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "facts: lookup canceled")
	}

	if f, ok := s.byID[strings.ToLower(coinID)]; ok {
		out := f
		return &out, nil
	}
	if f, ok := s.bySymbol[strings.ToUpper(coinID)]; ok {
		out := f
		return &out, nil
	}
	return nil, eris.Wrapf(screening.ErrNotFound, "coin %q not in facts catalog", coinID)
}

// Len returns the number of cataloged coins.
func (s *FileSource) Len() int {
	return len(s.byID)
}

// IDs returns all cataloged coin ids.
func (s *FileSource) IDs() []string {
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	return ids
}
