package rank

import (
	"github.com/samber/lo"

	"github.com/jmylchreest/hexit/internal/colour"
	hexerr "github.com/jmylchreest/hexit/internal/errors"
)

// DefaultDominanceThreshold is the population share above which the top
// swatch is returned alone.
const DefaultDominanceThreshold = 0.8

// DominanceRanker returns the most populous swatch alone when it exceeds the
// threshold share of the total, otherwise the two most populous distinct
// colours.
type DominanceRanker struct {
	threshold float64
}

// NewDominanceRanker creates a ranker using DefaultDominanceThreshold.
func NewDominanceRanker() *DominanceRanker {
	return &DominanceRanker{threshold: DefaultDominanceThreshold}
}

// Rank implements Ranker.
func (r *DominanceRanker) Rank(set colour.SwatchSet) ([]string, error) {
	swatches := byPopulation(set)
	if len(swatches) == 0 {
		return nil, &hexerr.ExtractionEmptyError{}
	}

	total := lo.SumBy(swatches, func(sw *colour.Swatch) int {
		return sw.Population
	})

	top := swatches[0]
	if total > 0 && float64(top.Population) > r.threshold*float64(total) {
		return []string{top.Hex}, nil
	}

	return appendUnique(make([]string, 0, MaxColours), MaxColours, swatches...), nil
}
