package geometry

import "testing"

func TestArea(t *testing.T) {
	if a := Area(Rect(0, 0, 4, 3)); !almostEqual(a, 12) {
		t.Errorf("Expected 12, got %v", a)
	}

	// Clockwise ordering yields the same area
	cw := Polygon{{0, 0}, {0, 3}, {4, 3}, {4, 0}}
	if a := Area(cw); !almostEqual(a, 12) {
		t.Errorf("Expected 12 for clockwise polygon, got %v", a)
	}
}

func TestPercentOverlap_Identical(t *testing.T) {
	p := Rect(10, 10, 50, 30)
	if got := PercentOverlap(p, p); !almostEqual(got, 100) {
		t.Errorf("Expected 100, got %v", got)
	}
}

func TestPercentOverlap_Disjoint(t *testing.T) {
	if got := PercentOverlap(square(0, 0, 1), square(5, 5, 1)); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
}

func TestPercentOverlap_Asymmetric(t *testing.T) {
	big := square(0, 0, 10)
	small := square(2, 2, 2)

	// All of small lies in big
	if got := PercentOverlap(small, big); !almostEqual(got, 100) {
		t.Errorf("Expected 100, got %v", got)
	}
	// Small covers 4 of big's 100
	if got := PercentOverlap(big, small); !almostEqual(got, 4) {
		t.Errorf("Expected 4, got %v", got)
	}
}

func TestPercentOverlap_Partial(t *testing.T) {
	if got := PercentOverlap(square(0, 0, 2), square(1, 0, 2)); !almostEqual(got, 50) {
		t.Errorf("Expected 50, got %v", got)
	}
}

func TestPercentOverlap_Degenerate(t *testing.T) {
	line := Rect(0, 0, 10, 0)
	if got := PercentOverlap(line, square(0, 0, 10)); got != 0 {
		t.Errorf("Expected 0 for zero-area reference, got %v", got)
	}
	if got := PercentOverlap(square(0, 0, 10), line); got != 0 {
		t.Errorf("Expected 0 for zero-area clipper, got %v", got)
	}
}

func TestIntersectionArea_Rotated(t *testing.T) {
	diamond := Polygon{{2, 0}, {4, 2}, {2, 4}, {0, 2}}
	if got := IntersectionArea(diamond, square(0, 0, 4)); !almostEqual(got, 8) {
		t.Errorf("Expected 8, got %v", got)
	}
	if got := IntersectionArea(square(0, 0, 4), diamond); !almostEqual(got, 8) {
		t.Errorf("Expected 8, got %v", got)
	}
}

func TestOverlapsAtLeast(t *testing.T) {
	ref := square(0, 0, 10)
	if !OverlapsAtLeast(ref, Rect(0, 0, 10, 9.5), DefaultOverlapPercent) {
		t.Error("Expected 95% overlap to pass the default threshold")
	}
	if OverlapsAtLeast(ref, Rect(0, 0, 10, 8), DefaultOverlapPercent) {
		t.Error("Expected 80% overlap to fail the default threshold")
	}
}
