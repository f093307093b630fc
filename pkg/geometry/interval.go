package geometry

import (
	"math"
	"sort"
)

// Interval is the vertical extent of a polygon
type Interval struct {
	Min float64 `json:"yMin"`
	Max float64 `json:"yMax"`
}

// VerticalIntervalOf returns the smallest and largest y of the polygon's corners
func VerticalIntervalOf(p Polygon) Interval {
	ys := []float64{p[0].Y, p[1].Y, p[2].Y, p[3].Y}
	sort.Float64s(ys)
	return Interval{Min: ys[0], Max: ys[3]}
}

// Length returns Max - Min
func (i Interval) Length() float64 {
	return i.Max - i.Min
}

// Mid returns the vertical midpoint
func (i Interval) Mid() float64 {
	return (i.Max + i.Min) / 2
}

// Common returns the shared part of two intervals. ok is false when
// they do not overlap.
func (i Interval) Common(b Interval) (Interval, bool) {
	a := i
	switch {
	case b.Min < a.Max && a.Max <= b.Max:
		return Interval{Min: math.Max(a.Min, b.Min), Max: a.Max}, true
	case a.Min < b.Max && b.Max <= a.Max:
		return Interval{Min: math.Max(a.Min, b.Min), Max: b.Max}, true
	}
	return Interval{}, false
}

// OverlapsFraction reports whether the shared length of the two
// intervals exceeds threshold relative to either interval's own length.
// Either side is enough, so a small superscript still joins a line of
// full-height text. Zero-length intervals never satisfy their side.
func (i Interval) OverlapsFraction(b Interval, threshold float64) bool {
	common, ok := i.Common(b)
	if !ok {
		return false
	}
	shared := common.Length()
	if l := i.Length(); l > 0 && shared/l > threshold {
		return true
	}
	if l := b.Length(); l > 0 && shared/l > threshold {
		return true
	}
	return false
}
