// Package area converts between board dimensions, covered area and board
// quantity. Pure math, no I/O.
package area

import "math"

// RoundingMode controls how a fractional board count is turned into a whole
// quantity when targeting an area.
type RoundingMode string

const (
	RoundCeil  RoundingMode = "ceil"
	RoundHalf  RoundingMode = "round"
	RoundFloor RoundingMode = "floor"
)

// ConversionReport discloses the overage or underage a rounding decision
// introduced, so callers can show it instead of hiding it.
type ConversionReport struct {
	RequestedAreaM2 float64      `json:"requested_area_m2"`
	ActualAreaM2    float64      `json:"actual_area_m2"`
	DeltaM2         float64      `json:"delta_m2"`
	Mode            RoundingMode `json:"mode"`
}

// Area returns the face area in m² of a single board with the given
// dimensions in millimetres. Non-finite or non-positive input yields 0.
func Area(widthMm, lengthMm float64) float64 {
	a := (widthMm / 1000) * (lengthMm / 1000)
	if !isFinite(a) || a <= 0 {
		return 0
	}
	return a
}

// TotalArea returns the area covered by qty boards. A fractional quantity is
// rounded to the nearest whole board, floored at zero.
func TotalArea(widthMm, lengthMm, qty float64) float64 {
	n := math.Round(qty)
	if !isFinite(n) || n < 0 {
		n = 0
	}
	return Area(widthMm, lengthMm) * n
}

// QuantityFromArea inverts TotalArea: how many boards cover targetAreaM2.
// The default at area-targeting call sites is RoundCeil, which always covers
// at least the requested area.
func QuantityFromArea(widthMm, lengthMm, targetAreaM2 float64, mode RoundingMode) (int, ConversionReport) {
	report := ConversionReport{
		RequestedAreaM2: targetAreaM2,
		Mode:            mode,
	}

	if !isFinite(targetAreaM2) || targetAreaM2 < 0 {
		report.RequestedAreaM2 = 0
	}

	unit := Area(widthMm, lengthMm)
	if unit <= 0 || report.RequestedAreaM2 <= 0 {
		report.DeltaM2 = -report.RequestedAreaM2
		return 0, report
	}

	targetAreaM2 = report.RequestedAreaM2

	raw := targetAreaM2 / unit
	var n float64
	switch mode {
	case RoundFloor:
		n = math.Floor(raw)
	case RoundHalf:
		n = math.Round(raw)
	default:
		n = math.Ceil(raw)
	}
	if n < 0 {
		n = 0
	}

	report.ActualAreaM2 = unit * n
	report.DeltaM2 = report.ActualAreaM2 - targetAreaM2
	return int(n), report
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
