package wizard

import (
	"math"
	"strconv"

	"haulaway/models"
)

const (
	sliderMin      = 95
	sliderMax      = 1480
	sliderSegments = 5
)

// PriceSegment maps a job size ordinal onto its slice of the fixed price
// slider. Non-numeric or out-of-range ids clamp into the valid segment range
// so the slider always renders something sensible.
func PriceSegment(jobSizeID string) models.PriceRange {
	n, err := strconv.Atoi(jobSizeID)
	if err != nil || n < 1 {
		n = 1
	}
	if n > sliderSegments {
		n = sliderSegments
	}

	width := float64(sliderMax-sliderMin) / sliderSegments
	return models.PriceRange{
		Min: int(math.Round(sliderMin + float64(n-1)*width)),
		Max: int(math.Round(sliderMin + float64(n)*width)),
	}
}

// SliderBounds returns the fixed outer bounds of the price slider.
func SliderBounds() models.PriceRange {
	return models.PriceRange{Min: sliderMin, Max: sliderMax}
}
