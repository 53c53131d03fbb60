package colour

import (
	"errors"
	"image"
	"image/color"
	"math"
	"sort"
)

const (
	// quantBits is the number of bits kept per channel when binning pixels.
	quantBits  = 5
	quantShift = 8 - quantBits
	quantMask  = (1 << quantBits) - 1

	// alphaThreshold skips pixels that are mostly transparent.
	alphaThreshold = 125
	// nearWhite skips pixels whose channels are all above this value.
	nearWhite = 250
)

// errNoEligiblePixels is returned when every sampled pixel was filtered out.
var errNoEligiblePixels = errors.New("no eligible pixels after filtering")

// colourBin is one populated cell of the quantised RGB histogram.
type colourBin struct {
	rq, gq, bq uint8
	// Channel sums of the real pixel values, for an unbiased average.
	rSum, gSum, bSum int
	count            int
}

// colourBox is a region of quantised RGB space for median cut.
type colourBox struct {
	bins       []colourBin
	population int
	rMin, rMax uint8
	gMin, gMax uint8
	bMin, bMax uint8
	volume     int
}

// quantisedColour is a box average with its pixel count.
type quantisedColour struct {
	rgb        RGB
	population int
}

// buildColourBins samples every quality-th pixel in both directions and
// bins the eligible ones.
func buildColourBins(img image.Image, quality int) ([]colourBin, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, errors.New("sample image is empty")
	}
	quality = max(quality, 1)

	histogram := make(map[int]*colourBin)
	for y := bounds.Min.Y; y < bounds.Max.Y; y += quality {
		for x := bounds.Min.X; x < bounds.Max.X; x += quality {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < alphaThreshold {
				continue
			}
			if c.R > nearWhite && c.G > nearWhite && c.B > nearWhite {
				continue
			}

			rq := c.R >> quantShift & quantMask
			gq := c.G >> quantShift & quantMask
			bq := c.B >> quantShift & quantMask
			index := int(rq)<<(2*quantBits) | int(gq)<<quantBits | int(bq)

			bin, ok := histogram[index]
			if !ok {
				bin = &colourBin{rq: rq, gq: gq, bq: bq}
				histogram[index] = bin
			}
			bin.rSum += int(c.R)
			bin.gSum += int(c.G)
			bin.bSum += int(c.B)
			bin.count++
		}
	}

	if len(histogram) == 0 {
		return nil, errNoEligiblePixels
	}

	indices := make([]int, 0, len(histogram))
	for index := range histogram {
		indices = append(indices, index)
	}
	sort.Ints(indices)

	bins := make([]colourBin, 0, len(indices))
	for _, index := range indices {
		bins = append(bins, *histogram[index])
	}
	return bins, nil
}

// quantise reduces the image to at most count representative colours using
// modified median cut, ordered by descending population.
func quantise(img image.Image, count, quality int) ([]quantisedColour, error) {
	bins, err := buildColourBins(img, quality)
	if err != nil {
		return nil, err
	}

	boxes := buildBoxes(bins, count)
	colours := make([]quantisedColour, 0, len(boxes))
	for _, box := range boxes {
		if box.population <= 0 {
			continue
		}
		var rSum, gSum, bSum int
		for _, bin := range box.bins {
			rSum += bin.rSum
			gSum += bin.gSum
			bSum += bin.bSum
		}
		colours = append(colours, quantisedColour{
			rgb: RGB{
				R: uint8(rSum / box.population),
				G: uint8(gSum / box.population),
				B: uint8(bSum / box.population),
			},
			population: box.population,
		})
	}

	sort.SliceStable(colours, func(i, j int) bool {
		return colours[i].population > colours[j].population
	})
	return colours, nil
}

func buildBoxes(bins []colourBin, targetCount int) []colourBox {
	if len(bins) == 0 {
		return nil
	}

	boxes := []colourBox{newColourBox(bins)}
	for len(boxes) < targetCount {
		best := -1
		bestScore := -1.0
		for index, box := range boxes {
			if !box.canSplit() {
				continue
			}
			score := float64(box.population) * math.Log(float64(box.volume)+1)
			if score > bestScore {
				best, bestScore = index, score
			}
		}
		if best < 0 {
			break
		}

		left, right, ok := splitColourBox(boxes[best])
		if !ok {
			break
		}
		boxes[best] = left
		boxes = append(boxes, right)
	}

	return boxes
}

func newColourBox(bins []colourBin) colourBox {
	box := colourBox{
		bins: bins,
		rMin: bins[0].rq, rMax: bins[0].rq,
		gMin: bins[0].gq, gMax: bins[0].gq,
		bMin: bins[0].bq, bMax: bins[0].bq,
	}

	for _, bin := range bins {
		box.population += bin.count
		box.rMin, box.rMax = min(box.rMin, bin.rq), max(box.rMax, bin.rq)
		box.gMin, box.gMax = min(box.gMin, bin.gq), max(box.gMax, bin.gq)
		box.bMin, box.bMax = min(box.bMin, bin.bq), max(box.bMax, bin.bq)
	}

	box.volume = int(box.rMax-box.rMin+1) * int(box.gMax-box.gMin+1) * int(box.bMax-box.bMin+1)
	return box
}

func (b colourBox) canSplit() bool {
	return len(b.bins) > 1
}

// splitColourBox cuts the box along its longest axis at the population median.
func splitColourBox(box colourBox) (colourBox, colourBox, bool) {
	if !box.canSplit() {
		return colourBox{}, colourBox{}, false
	}

	axis := box.longestAxis()
	ordered := append([]colourBin(nil), box.bins...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].axisValue(axis) < ordered[j].axisValue(axis)
	})

	half := box.population / 2
	cumulative := 0
	splitIndex := 0
	for index, bin := range ordered {
		cumulative += bin.count
		if cumulative >= half {
			splitIndex = index + 1
			break
		}
	}
	splitIndex = min(max(splitIndex, 1), len(ordered)-1)

	return newColourBox(ordered[:splitIndex]), newColourBox(ordered[splitIndex:]), true
}

func (b colourBox) longestAxis() int {
	rRange := b.rMax - b.rMin
	gRange := b.gMax - b.gMin
	bRange := b.bMax - b.bMin

	switch {
	case rRange >= gRange && rRange >= bRange:
		return 0
	case gRange >= bRange:
		return 1
	default:
		return 2
	}
}

func (b colourBin) axisValue(axis int) uint8 {
	switch axis {
	case 0:
		return b.rq
	case 1:
		return b.gq
	default:
		return b.bq
	}
}
