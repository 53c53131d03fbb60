// Package rank selects the representative colours of an image from its
// swatches.
//
// Two policies exist and they disagree for the same input, so exactly one is
// chosen by configuration:
//
//   - priority: walk a fixed order of swatch names, then fall back to the most
//     populous swatches.
//   - dominance: collapse to a single colour when one swatch covers more than
//     80% of the sampled pixels, otherwise take the two most populous.
package rank

import (
	"fmt"
	"sort"

	"github.com/samber/lo"

	"github.com/jmylchreest/hexit/internal/colour"
)

// MaxColours is the most colours a ranker returns.
const MaxColours = 2

// Policy names a ranking policy.
type Policy string

const (
	// PolicyPriority ranks by a fixed swatch order with a population fallback.
	PolicyPriority Policy = "priority"

	// PolicyDominance collapses to one colour when a swatch dominates.
	PolicyDominance Policy = "dominance"
)

// DefaultPolicy is used when none is configured.
const DefaultPolicy = PolicyPriority

// ValidPolicies returns the known policy names.
func ValidPolicies() []Policy {
	return []Policy{PolicyPriority, PolicyDominance}
}

// IsValidPolicy checks if the given policy name is valid.
func IsValidPolicy(p Policy) bool {
	return lo.Contains(ValidPolicies(), p)
}

// Ranker picks up to MaxColours hex values from a swatch set.
// It returns *errors.ExtractionEmptyError when the set has no valid swatch.
type Ranker interface {
	Rank(set colour.SwatchSet) ([]string, error)
}

// New creates the ranker for a policy.
func New(p Policy) (Ranker, error) {
	switch p {
	case PolicyPriority, "":
		return NewPriorityRanker(), nil
	case PolicyDominance:
		return NewDominanceRanker(), nil
	default:
		return nil, fmt.Errorf("unknown ranking policy: %s (valid policies: %v)", p, ValidPolicies())
	}
}

// byPopulation returns the valid swatches sorted by descending population.
// Equal populations keep swatch enumeration order.
func byPopulation(set colour.SwatchSet) []*colour.Swatch {
	swatches := set.Present()
	sort.SliceStable(swatches, func(i, j int) bool {
		return swatches[i].Population > swatches[j].Population
	})
	return swatches
}

// appendUnique appends hex values not already collected until limit is reached.
func appendUnique(collected []string, limit int, swatches ...*colour.Swatch) []string {
	for _, sw := range swatches {
		if len(collected) >= limit {
			break
		}
		if !sw.Valid() || lo.Contains(collected, sw.Hex) {
			continue
		}
		collected = append(collected, sw.Hex)
	}
	return collected
}
