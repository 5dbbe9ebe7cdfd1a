package physics

import (
	"math"
	"slices"
)

// Pair is a candidate collision pair of body indices with A < B.
type Pair struct {
	A, B int
}

// Broadphase produces candidate pairs for the narrow phase. Pairs must be
// returned in ascending (A, B) order so resolution order is deterministic
// whichever strategy is used.
type Broadphase interface {
	Pairs(bodies []Body, dst []Pair) []Pair
}

// BruteForce tests every unordered pair.
type BruteForce struct{}

func (BruteForce) Pairs(bodies []Body, dst []Pair) []Pair {
	dst = dst[:0]
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if bodies[i].Static && bodies[j].Static {
				continue
			}
			dst = append(dst, Pair{i, j})
		}
	}
	return dst
}

const (
	// maxCellIndex keeps cell coordinates exactly representable and far
	// from int overflow.
	maxCellIndex = 1 << 40
	// maxCellSpan bounds the cells one body may cover when MaxCells is unset.
	maxCellSpan = 1 << 20
)

func inCellRange(f float64) bool {
	return f >= -maxCellIndex && f <= maxCellIndex
}

type cell struct {
	x, y int
}

// SpatialHash buckets bodies into a uniform grid by bounding box and only
// pairs bodies sharing a cell. A non-positive CellSize uses twice the
// largest radius.
type SpatialHash struct {
	CellSize float64
	// MaxCells caps the cells a single body may cover; larger bodies are
	// paired with everything.
	MaxCells int

	grid map[cell][]int
	seen map[Pair]struct{}
}

func NewSpatialHash(cellSize float64) *SpatialHash {
	return &SpatialHash{
		CellSize: cellSize,
		MaxCells: 256,
		grid:     make(map[cell][]int),
		seen:     make(map[Pair]struct{}),
	}
}

func (h *SpatialHash) cellSize(bodies []Body) float64 {
	if h.CellSize > 0 {
		return h.CellSize
	}
	maxR := 0.0
	for i := range bodies {
		maxR = math.Max(maxR, bodies[i].Radius)
	}
	if maxR == 0 {
		return 1
	}
	return 2 * maxR
}

func (h *SpatialHash) Pairs(bodies []Body, dst []Pair) []Pair {
	if h.grid == nil {
		h.grid = make(map[cell][]int)
		h.seen = make(map[Pair]struct{})
	}
	clear(h.grid)
	clear(h.seen)
	dst = dst[:0]

	size := h.cellSize(bodies)
	var oversized []int

	limit := float64(h.MaxCells)
	if h.MaxCells <= 0 {
		limit = maxCellSpan
	}

	for i := range bodies {
		b := &bodies[i]
		fx0 := math.Floor((b.Position.X - b.Radius) / size)
		fy0 := math.Floor((b.Position.Y - b.Radius) / size)
		fx1 := math.Floor((b.Position.X + b.Radius) / size)
		fy1 := math.Floor((b.Position.Y + b.Radius) / size)
		// NaN fails every comparison, so test for membership in range
		if !(inCellRange(fx0) && inCellRange(fy0) && inCellRange(fx1) && inCellRange(fy1)) ||
			(fx1-fx0+1)*(fy1-fy0+1) > limit {
			oversized = append(oversized, i)
			continue
		}
		minX, minY, maxX, maxY := int(fx0), int(fy0), int(fx1), int(fy1)
		for x := minX; x <= maxX; x++ {
			for y := minY; y <= maxY; y++ {
				k := cell{x, y}
				h.grid[k] = append(h.grid[k], i)
			}
		}
	}

	add := func(i, j int) {
		if i == j || (bodies[i].Static && bodies[j].Static) {
			return
		}
		p := Pair{min(i, j), max(i, j)}
		if _, ok := h.seen[p]; ok {
			return
		}
		h.seen[p] = struct{}{}
		dst = append(dst, p)
	}

	for _, members := range h.grid {
		for a := 0; a < len(members); a++ {
			for b := a + 1; b < len(members); b++ {
				add(members[a], members[b])
			}
		}
	}
	for _, i := range oversized {
		for j := range bodies {
			add(i, j)
		}
	}

	slices.SortFunc(dst, func(p, q Pair) int {
		if p.A != q.A {
			return p.A - q.A
		}
		return p.B - q.B
	})
	return dst
}
