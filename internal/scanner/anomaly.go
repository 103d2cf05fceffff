package scanner

import (
	"math"

	"yield-radar/internal/domain"

	"github.com/narumiruna/go-iforest/pkg/iforest"
)

const (
	// below this many opportunities the forest has nothing to learn from
	minOutlierSamples = 8
	outlierThreshold  = 0.62
)

// MarkOutliers flags opportunities whose APY/TVL/ROR combination is
// anomalous relative to the rest of the scan, using an isolation forest.
// Small batches are returned unchanged.
func MarkOutliers(opps []domain.Opportunity) []domain.Opportunity {
	if len(opps) < minOutlierSamples {
		return opps
	}

	features := make([][]float64, len(opps))
	for i, o := range opps {
		features[i] = []float64{
			o.APY,
			math.Log10(o.TVLUSD + 1),
			o.ROR,
		}
	}

	forest := iforest.New()
	forest.Fit(features)
	scores := forest.Score(features)

	flagged := make([]domain.Opportunity, len(opps))
	copy(flagged, opps)
	for i, score := range scores {
		if score > outlierThreshold {
			flagged[i].Outlier = true
		}
	}
	return flagged
}
