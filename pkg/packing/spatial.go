package packing

import "math"

// maxIndexCells caps the grid size; larger grids get coarser cells.
const maxIndexCells = 1 << 20

// SpatialIndex is a uniform grid over the bar for broad-phase neighbor
// queries. A circle is registered in every cell its bounding box touches.
//
// The index owns the circles inserted into it; Circles returns them in
// insertion order. It is not safe for concurrent use.
type SpatialIndex struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]int

	circles []Circle
	maxR    float64

	// seen/epoch deduplicate circles spanning several cells within one query.
	seen  []uint32
	epoch uint32
}

// NewSpatialIndex creates a grid covering width×height with cells of
// 2×maxRadius and registers the given circles.
func NewSpatialIndex(width, height, maxRadius float64, circles []Circle) *SpatialIndex {
	cellSize := 2 * maxRadius
	if cellSize <= 0 {
		cellSize = math.Max(width, height)
	}
	cols := max(1, int(math.Ceil(width/cellSize)))
	rows := max(1, int(math.Ceil(height/cellSize)))
	for cols*rows > maxIndexCells {
		cellSize *= 2
		cols = max(1, int(math.Ceil(width/cellSize)))
		rows = max(1, int(math.Ceil(height/cellSize)))
	}

	s := &SpatialIndex{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([][]int, cols*rows),
		circles:  make([]Circle, 0, len(circles)),
	}
	for _, c := range circles {
		s.Insert(c)
	}
	return s
}

// Insert registers c in every cell overlapped by its bounding box.
func (s *SpatialIndex) Insert(c Circle) {
	id := len(s.circles)
	s.circles = append(s.circles, c)
	s.seen = append(s.seen, 0)
	s.maxR = math.Max(s.maxR, c.R)

	minCol, maxCol, minRow, maxRow := s.span(c.X, c.Y, c.R)
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			idx := row*s.cols + col
			s.cells[idx] = append(s.cells[idx], id)
		}
	}
}

// Len returns the number of indexed circles.
func (s *SpatialIndex) Len() int { return len(s.circles) }

// Circles returns the indexed circles in insertion order.
func (s *SpatialIndex) Circles() []Circle { return s.circles }

// CellSize returns the grid's cell edge length.
func (s *SpatialIndex) CellSize() float64 { return s.cellSize }

// Visit calls fn once for every circle whose bounding box intersects the
// square of half-width reach centered at (x,y). Iteration stops early when
// fn returns false.
func (s *SpatialIndex) Visit(x, y, reach float64, fn func(Circle) bool) {
	s.epoch++
	if s.epoch == 0 {
		clear(s.seen)
		s.epoch = 1
	}

	minCol, maxCol, minRow, maxRow := s.span(x, y, math.Max(0, reach))
	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, id := range s.cells[row*s.cols+col] {
				if s.seen[id] == s.epoch {
					continue
				}
				s.seen[id] = s.epoch
				if !fn(s.circles[id]) {
					return
				}
			}
		}
	}
}

// Collides reports whether a circle (x,y,r) would sit closer than
// (r+other.R)×multiplier to any indexed circle.
func (s *SpatialIndex) Collides(x, y, r, multiplier float64) bool {
	// Any colliding circle has its bounding box inside this reach.
	reach := multiplier*r + math.Max(0, multiplier-1)*s.maxR
	hit := false
	s.Visit(x, y, reach, func(o Circle) bool {
		if math.Hypot(x-o.X, y-o.Y) < (r+o.R)*multiplier {
			hit = true
			return false
		}
		return true
	})
	return hit
}

func (s *SpatialIndex) span(x, y, r float64) (minCol, maxCol, minRow, maxRow int) {
	minCol = s.clampCol(int(math.Floor((x - r) / s.cellSize)))
	maxCol = s.clampCol(int(math.Floor((x + r) / s.cellSize)))
	minRow = s.clampRow(int(math.Floor((y - r) / s.cellSize)))
	maxRow = s.clampRow(int(math.Floor((y + r) / s.cellSize)))
	return minCol, maxCol, minRow, maxRow
}

func (s *SpatialIndex) clampCol(c int) int { return max(0, min(s.cols-1, c)) }
func (s *SpatialIndex) clampRow(r int) int { return max(0, min(s.rows-1, r)) }
