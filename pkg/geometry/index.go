package geometry

import (
	"sort"

	"github.com/tidwall/rtree"
)

// Index is a spatial index over polygon bounds. Items are identified by
// the position they were inserted at.
type Index struct {
	tree  rtree.RTreeG[int]
	count int
}

// NewIndex indexes the given polygons. Zero polygons are skipped but
// still consume a position.
func NewIndex(polygons []Polygon) *Index {
	idx := &Index{}
	for _, p := range polygons {
		idx.Insert(p)
	}
	return idx
}

// Insert adds a polygon and returns its position
func (idx *Index) Insert(p Polygon) int {
	pos := idx.count
	idx.count++
	if p.IsZero() {
		return pos
	}
	lo, hi := p.Bounds()
	idx.tree.Insert([2]float64{lo.X, lo.Y}, [2]float64{hi.X, hi.Y}, pos)
	return pos
}

// Len returns the number of indexed items, including skipped ones
func (idx *Index) Len() int {
	return idx.count
}

// Candidates returns, in insertion order, the positions of polygons whose
// bounds intersect the bounds of p
func (idx *Index) Candidates(p Polygon) []int {
	lo, hi := p.Bounds()
	var out []int
	idx.tree.Search([2]float64{lo.X, lo.Y}, [2]float64{hi.X, hi.Y},
		func(_, _ [2]float64, pos int) bool {
			out = append(out, pos)
			return true
		})
	sort.Ints(out)
	return out
}
