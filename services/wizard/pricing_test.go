package wizard

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceSegment(t *testing.T) {
	// Width of one segment is (1480-95)/5 = 277.
	tests := []struct {
		id      string
		wantMin int
		wantMax int
	}{
		{"1", 95, 372},
		{"2", 372, 649},
		{"3", 649, 926},
		{"4", 926, 1203},
		{"5", 1203, 1480},
	}
	for _, tt := range tests {
		t.Run("size "+tt.id, func(t *testing.T) {
			got := PriceSegment(tt.id)
			assert.Equal(t, tt.wantMin, got.Min)
			assert.Equal(t, tt.wantMax, got.Max)
		})
	}
}

func TestPriceSegmentsContiguous(t *testing.T) {
	bounds := SliderBounds()
	prev := PriceSegment("1")
	assert.Equal(t, bounds.Min, prev.Min)

	for i := 2; i <= sliderSegments; i++ {
		seg := PriceSegment(strconv.Itoa(i))
		assert.Equal(t, prev.Max, seg.Min, "segment %d must start where %d ends", i, i-1)
		assert.Less(t, seg.Min, seg.Max)
		prev = seg
	}
	assert.Equal(t, bounds.Max, prev.Max)
}

func TestPriceSegmentClamping(t *testing.T) {
	assert.Equal(t, PriceSegment("1"), PriceSegment("0"))
	assert.Equal(t, PriceSegment("1"), PriceSegment("-2"))
	assert.Equal(t, PriceSegment("5"), PriceSegment("12"))
	assert.Equal(t, PriceSegment("1"), PriceSegment("not-a-number"))
	assert.Equal(t, PriceSegment("1"), PriceSegment(""))
}
