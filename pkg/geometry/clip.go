package geometry

import "math"

// DefaultOverlapPercent is the threshold used to decide that a selection
// mark belongs to the text around it
const DefaultOverlapPercent = 90.0

// Area returns the area of the polygon using the shoelace formula
func Area(p Polygon) float64 {
	return math.Abs(signedArea(p[:]))
}

// IntersectionArea returns the area shared by two convex polygons.
// p1 is clipped against every edge of p2 (Sutherland–Hodgman).
func IntersectionArea(p1, p2 Polygon) float64 {
	if Area(p2) == 0 {
		return 0
	}
	clipped := clip(p1[:], p2[:])
	if len(clipped) < 3 {
		return 0
	}
	return math.Abs(signedArea(clipped))
}

// PercentOverlap returns how much of p1 is covered by p2, in percent.
// The result is normalized by p1's area only, so the argument order
// matters: p1 is the reference polygon. A zero-area reference yields 0.
func PercentOverlap(p1, p2 Polygon) float64 {
	area := Area(p1)
	if area == 0 {
		return 0
	}
	return IntersectionArea(p1, p2) / area * 100
}

// OverlapsAtLeast reports whether PercentOverlap(p1, p2) reaches threshold
func OverlapsAtLeast(p1, p2 Polygon, threshold float64) bool {
	return PercentOverlap(p1, p2) >= threshold
}

func signedArea(points []Point) float64 {
	var sum float64
	n := len(points)
	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// clip keeps the part of subject inside the convex clipper
func clip(subject, clipper []Point) []Point {
	ccw := signedArea(clipper) > 0
	out := append([]Point(nil), subject...)

	for i := range clipper {
		if len(out) == 0 {
			break
		}
		a := clipper[i]
		b := clipper[(i+1)%len(clipper)]

		in := out
		out = make([]Point, 0, len(in)+1)
		prev := in[len(in)-1]
		for _, cur := range in {
			curIn := inside(a, b, cur, ccw)
			prevIn := inside(a, b, prev, ccw)
			switch {
			case curIn && !prevIn:
				out = append(out, lineIntersection(prev, cur, a, b), cur)
			case curIn:
				out = append(out, cur)
			case prevIn:
				out = append(out, lineIntersection(prev, cur, a, b))
			}
			prev = cur
		}
	}
	return out
}

// inside reports whether p lies on the inner side of edge a->b
func inside(a, b, p Point, ccw bool) bool {
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	if ccw {
		return cross >= 0
	}
	return cross <= 0
}

// lineIntersection intersects segment p1->p2 with the infinite line a->b
func lineIntersection(p1, p2, a, b Point) Point {
	dx, dy := p2.X-p1.X, p2.Y-p1.Y
	ex, ey := b.X-a.X, b.Y-a.Y
	denom := dx*ey - dy*ex
	if denom == 0 {
		return p2
	}
	t := ((a.X-p1.X)*ey - (a.Y-p1.Y)*ex) / denom
	return Point{X: p1.X + t*dx, Y: p1.Y + t*dy}
}
