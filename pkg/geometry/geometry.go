// Package geometry implements the polygon math used to place OCR elements on a page.
//
// Every element detected by a layout analysis engine (word, selection mark, paragraph,
// table cell) is located by a 4-point quadrilateral. This package provides:
//
// - Polygon construction from flat coordinate arrays or point lists
// - Area and intersection area of convex quadrilaterals (Sutherland–Hodgman + shoelace)
// - Percent overlap normalized by a reference polygon
// - Vertical interval extraction and same-line overlap tests
// - Bounding unions, geometric centers and an R-tree index over polygon bounds
//
// All functions are pure and safe for concurrent use.
package geometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point is a coordinate in page units
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Polygon is a bounding quadrilateral ordered top-left, top-right,
// bottom-right, bottom-left. It is a fixed-size array so two polygons
// can be compared with ==.
type Polygon [4]Point

// NewPolygon builds a polygon from a flat coordinate list
// (x0, y0, x1, y1, x2, y2, x3, y3). Lists that do not describe exactly
// four points are reduced to their axis-aligned bounding quad.
func NewPolygon(coords ...float64) Polygon {
	points := make([]Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		points = append(points, Point{X: coords[i], Y: coords[i+1]})
	}
	return FromPoints(points)
}

// FromPoints builds a polygon from a point list, reducing lists of
// any length other than four to their bounding quad. An empty list
// yields the zero polygon.
func FromPoints(points []Point) Polygon {
	if len(points) == 4 {
		return Polygon{points[0], points[1], points[2], points[3]}
	}
	if len(points) == 0 {
		return Polygon{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect(minX, minY, maxX, maxY)
}

// Rect returns the axis-aligned quad spanning (minX,minY)-(maxX,maxY)
func Rect(minX, minY, maxX, maxY float64) Polygon {
	return Polygon{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}
}

// IsZero reports whether the polygon carries no coordinates at all.
// OCR output uses an absent polygon for elements without geometry.
func (p Polygon) IsZero() bool {
	return p == Polygon{}
}

// Bounds returns the minimum and maximum corners of the polygon
func (p Polygon) Bounds() (lo, hi Point) {
	lo, hi = p[0], p[0]
	for _, pt := range p[1:] {
		lo.X = math.Min(lo.X, pt.X)
		lo.Y = math.Min(lo.Y, pt.Y)
		hi.X = math.Max(hi.X, pt.X)
		hi.Y = math.Max(hi.Y, pt.Y)
	}
	return lo, hi
}

// Scale multiplies every coordinate, e.g. to convert inches to points
func (p Polygon) Scale(sx, sy float64) Polygon {
	var out Polygon
	for i, pt := range p {
		out[i] = Point{X: pt.X * sx, Y: pt.Y * sy}
	}
	return out
}

// Flat returns the coordinates as x0, y0, ..., x3, y3
func (p Polygon) Flat() []float64 {
	out := make([]float64, 0, 8)
	for _, pt := range p {
		out = append(out, pt.X, pt.Y)
	}
	return out
}

// MarshalJSON writes the flat coordinate form used by layout analysis APIs
func (p Polygon) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Flat())
}

// UnmarshalJSON accepts both the flat form [x0,y0,...] and the
// point form [{"x":..,"y":..},...]
func (p *Polygon) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to decode polygon: %w", err)
	}
	if len(raw) == 0 {
		*p = Polygon{}
		return nil
	}

	// Point objects
	if len(raw[0]) > 0 && raw[0][0] == '{' {
		points := make([]Point, 0, len(raw))
		for _, r := range raw {
			var pt Point
			if err := json.Unmarshal(r, &pt); err != nil {
				return fmt.Errorf("failed to decode polygon point: %w", err)
			}
			points = append(points, pt)
		}
		*p = FromPoints(points)
		return nil
	}

	coords := make([]float64, 0, len(raw))
	for _, r := range raw {
		var v float64
		if err := json.Unmarshal(r, &v); err != nil {
			return fmt.Errorf("failed to decode polygon coordinate: %w", err)
		}
		coords = append(coords, v)
	}
	*p = NewPolygon(coords...)
	return nil
}

// GeometricCenter returns the midpoint between corner 0 and corner 2
func GeometricCenter(p Polygon) Point {
	return Point{
		X: p[0].X + (p[2].X-p[0].X)/2,
		Y: p[0].Y + (p[2].Y-p[0].Y)/2,
	}
}

// BoundingUnion returns the axis-aligned quad covering every corner of
// every input polygon. ok is false when no polygons are given.
func BoundingUnion(polygons ...Polygon) (Polygon, bool) {
	if len(polygons) == 0 {
		return Polygon{}, false
	}
	lo, hi := polygons[0].Bounds()
	for _, p := range polygons[1:] {
		plo, phi := p.Bounds()
		lo.X = math.Min(lo.X, plo.X)
		lo.Y = math.Min(lo.Y, plo.Y)
		hi.X = math.Max(hi.X, phi.X)
		hi.Y = math.Max(hi.Y, phi.Y)
	}
	return Rect(lo.X, lo.Y, hi.X, hi.Y), true
}
