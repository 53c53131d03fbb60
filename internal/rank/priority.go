package rank

import (
	"github.com/samber/lo"

	"github.com/jmylchreest/hexit/internal/colour"
	hexerr "github.com/jmylchreest/hexit/internal/errors"
)

// PriorityRanker takes swatches in a fixed name order and tops up from the
// most populous swatches when the order yields fewer than MaxColours.
type PriorityRanker struct {
	order []colour.SwatchName
}

// DefaultPriorityOrder returns the swatch order that tends to give the most
// recognisable colours first.
func DefaultPriorityOrder() []colour.SwatchName {
	return []colour.SwatchName{
		colour.Vibrant,
		colour.Muted,
		colour.DarkVibrant,
		colour.LightVibrant,
		colour.DarkMuted,
		colour.LightMuted,
	}
}

// NewPriorityRanker creates a ranker using DefaultPriorityOrder.
func NewPriorityRanker() *PriorityRanker {
	return &PriorityRanker{order: DefaultPriorityOrder()}
}

// Rank implements Ranker.
func (r *PriorityRanker) Rank(set colour.SwatchSet) ([]string, error) {
	prioritised := lo.Map(r.order, func(name colour.SwatchName, _ int) *colour.Swatch {
		return set[name]
	})

	colours := appendUnique(make([]string, 0, MaxColours), MaxColours, prioritised...)
	if len(colours) < MaxColours {
		colours = appendUnique(colours, MaxColours, byPopulation(set)...)
	}

	if len(colours) == 0 {
		return nil, &hexerr.ExtractionEmptyError{}
	}
	return colours, nil
}
