package area

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArea(t *testing.T) {
	assert.InDelta(t, 0.38, Area(95, 4000), 1e-9)
	assert.InDelta(t, 0.576, Area(120, 4800), 1e-9)

	assert.Zero(t, Area(0, 4000))
	assert.Zero(t, Area(95, -10))
	assert.Zero(t, Area(math.NaN(), 4000))
	assert.Zero(t, Area(math.Inf(1), 4000))
}

func TestTotalArea(t *testing.T) {
	assert.InDelta(t, 3.8, TotalArea(95, 4000, 10), 1e-9)

	// fractional quantities round to whole boards
	assert.InDelta(t, 1.14, TotalArea(95, 4000, 2.6), 1e-9)
	assert.InDelta(t, 0.76, TotalArea(95, 4000, 2.4), 1e-9)

	assert.Zero(t, TotalArea(95, 4000, -3))
	assert.Zero(t, TotalArea(95, 4000, math.NaN()))
}

func TestQuantityFromAreaCeilCoversTarget(t *testing.T) {
	// 100 m2 of 95x4000 boards: 100 / 0.38 = 263.15..., ceil to 264.
	qty, report := QuantityFromArea(95, 4000, 100, RoundCeil)

	require.Equal(t, 264, qty)
	assert.InDelta(t, 100, report.RequestedAreaM2, 1e-9)
	assert.InDelta(t, 100.32, report.ActualAreaM2, 1e-9)
	assert.InDelta(t, 0.32, report.DeltaM2, 1e-9)
	assert.Equal(t, RoundCeil, report.Mode)
	assert.GreaterOrEqual(t, report.ActualAreaM2, report.RequestedAreaM2)
}

func TestQuantityFromAreaModes(t *testing.T) {
	// 1 m2 of 0.38 m2 boards: raw 2.63...
	ceilQty, _ := QuantityFromArea(95, 4000, 1, RoundCeil)
	roundQty, _ := QuantityFromArea(95, 4000, 1, RoundHalf)
	floorQty, _ := QuantityFromArea(95, 4000, 1, RoundFloor)

	assert.Equal(t, 3, ceilQty)
	assert.Equal(t, 3, roundQty)
	assert.Equal(t, 2, floorQty)

	// unknown mode behaves like ceil
	defaultQty, _ := QuantityFromArea(95, 4000, 1, RoundingMode("bogus"))
	assert.Equal(t, 3, defaultQty)
}

func TestQuantityFromAreaDegenerateInput(t *testing.T) {
	qty, report := QuantityFromArea(0, 4000, 10, RoundCeil)
	assert.Zero(t, qty)
	assert.Zero(t, report.ActualAreaM2)

	qty, report = QuantityFromArea(95, 4000, -5, RoundCeil)
	assert.Zero(t, qty)
	assert.Zero(t, report.RequestedAreaM2)

	qty, _ = QuantityFromArea(95, 4000, math.NaN(), RoundCeil)
	assert.Zero(t, qty)
}

func TestQuantityFromAreaRoundTrip(t *testing.T) {
	dims := []struct{ w, l float64 }{
		{95, 4000}, {120, 4800}, {145, 3600}, {70, 2400},
	}
	for _, d := range dims {
		for n := 1; n <= 50; n++ {
			total := TotalArea(d.w, d.l, float64(n))
			qty, _ := QuantityFromArea(d.w, d.l, total, RoundHalf)
			require.Equal(t, n, qty, "width=%v length=%v n=%d", d.w, d.l, n)
		}
	}
}
