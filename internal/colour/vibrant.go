package colour

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Luma and saturation windows for each swatch category.
const (
	targetDarkLuma   = 0.26
	maxDarkLuma      = 0.45
	minLightLuma     = 0.55
	targetLightLuma  = 0.74
	minNormalLuma    = 0.3
	targetNormalLuma = 0.5
	maxNormalLuma    = 0.7

	targetMutedSaturation   = 0.3
	maxMutedSaturation      = 0.4
	targetVibrantSaturation = 1.0
	minVibrantSaturation    = 0.35

	weightSaturation = 3.0
	weightLuma       = 6.0
	weightPopulation = 1.0
)

// swatchTarget describes the HSL window a swatch category accepts and the
// point within it that scores best.
type swatchTarget struct {
	name                             SwatchName
	targetLuma, minLuma, maxLuma     float64
	targetSaturation, minSat, maxSat float64
}

// swatchTargets is the order categories are filled in. A quantised colour
// is assigned to at most one category, so earlier targets win ties.
var swatchTargets = []swatchTarget{
	{Vibrant, targetNormalLuma, minNormalLuma, maxNormalLuma, targetVibrantSaturation, minVibrantSaturation, 1},
	{LightVibrant, targetLightLuma, minLightLuma, 1, targetVibrantSaturation, minVibrantSaturation, 1},
	{DarkVibrant, targetDarkLuma, 0, maxDarkLuma, targetVibrantSaturation, minVibrantSaturation, 1},
	{Muted, targetNormalLuma, minNormalLuma, maxNormalLuma, targetMutedSaturation, 0, maxMutedSaturation},
	{LightMuted, targetLightLuma, minLightLuma, 1, targetMutedSaturation, 0, maxMutedSaturation},
	{DarkMuted, targetDarkLuma, 0, maxDarkLuma, targetMutedSaturation, 0, maxMutedSaturation},
}

type hslColour struct {
	quantisedColour
	h, s, l float64
}

func toHSL(rgb RGB) (h, s, l float64) {
	c := colorful.Color{R: float64(rgb.R) / 255, G: float64(rgb.G) / 255, B: float64(rgb.B) / 255}
	return c.Hsl()
}

func fromHSL(h, s, l float64) RGB {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return RGB{R: r, G: g, B: b}
}

// classifySwatches assigns quantised colours to the named categories.
// Categories with no candidate in their window stay absent, except the
// vibrant family which is derived from a sibling when possible.
func classifySwatches(colours []quantisedColour) SwatchSet {
	candidates := make([]hslColour, len(colours))
	maxPopulation := 0
	for i, c := range colours {
		h, s, l := toHSL(c.rgb)
		candidates[i] = hslColour{quantisedColour: c, h: h, s: s, l: l}
		maxPopulation = max(maxPopulation, c.population)
	}

	set := make(SwatchSet, len(swatchTargets))
	used := make([]bool, len(candidates))
	for _, target := range swatchTargets {
		best := -1
		bestScore := math.Inf(-1)
		for i, c := range candidates {
			if used[i] {
				continue
			}
			if c.s < target.minSat || c.s > target.maxSat || c.l < target.minLuma || c.l > target.maxLuma {
				continue
			}
			score := scoreCandidate(c, target, maxPopulation)
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		if best >= 0 {
			used[best] = true
			set[target.name] = NewSwatch(target.name, candidates[best].rgb, candidates[best].population)
		}
	}

	fillVibrantVariations(set)
	return set
}

func scoreCandidate(c hslColour, target swatchTarget, maxPopulation int) float64 {
	population := 0.0
	if maxPopulation > 0 {
		population = float64(c.population) / float64(maxPopulation)
	}
	return weightedMean(
		invertDiff(c.s, target.targetSaturation), weightSaturation,
		invertDiff(c.l, target.targetLuma), weightLuma,
		population, weightPopulation,
	)
}

func invertDiff(value, target float64) float64 {
	return 1 - math.Abs(value-target)
}

// weightedMean takes alternating value, weight pairs.
func weightedMean(pairs ...float64) float64 {
	var sum, weights float64
	for i := 0; i+1 < len(pairs); i += 2 {
		sum += pairs[i] * pairs[i+1]
		weights += pairs[i+1]
	}
	if weights == 0 {
		return 0
	}
	return sum / weights
}

// fillVibrantVariations derives missing vibrant swatches from a present
// sibling by moving it to the category's target lightness. Derived swatches
// have zero population.
func fillVibrantVariations(set SwatchSet) {
	derive := func(from *Swatch, name SwatchName, luma float64) *Swatch {
		rgb, err := from.RGB()
		if err != nil {
			return nil
		}
		h, s, _ := toHSL(rgb)
		return NewSwatch(name, fromHSL(h, s, luma), 0)
	}

	if set[Vibrant] == nil {
		if dark := set[DarkVibrant]; dark != nil {
			set[Vibrant] = derive(dark, Vibrant, targetNormalLuma)
		} else if light := set[LightVibrant]; light != nil {
			set[Vibrant] = derive(light, Vibrant, targetNormalLuma)
		}
	}
	if set[DarkVibrant] == nil {
		if vibrant := set[Vibrant]; vibrant != nil {
			set[DarkVibrant] = derive(vibrant, DarkVibrant, targetDarkLuma)
		}
	}
	if set[LightVibrant] == nil {
		if vibrant := set[Vibrant]; vibrant != nil {
			set[LightVibrant] = derive(vibrant, LightVibrant, targetLightLuma)
		}
	}
}
