package hexgrid

import "container/heap"

// Board is a bounded hexagonal play area of the given radius around origin.
type Board struct {
	radius int
	hexes  []Hex
}

// NewBoard builds a hexagonal board with Distance(origin, h) <= radius.
func NewBoard(radius int) *Board {
	b := &Board{radius: radius}
	for q := -radius; q <= radius; q++ {
		r1 := max(-radius, -q-radius)
		r2 := min(radius, -q+radius)
		for r := r1; r <= r2; r++ {
			b.hexes = append(b.hexes, Hex{Q: q, R: r})
		}
	}
	return b
}

// Radius returns the board radius.
func (b *Board) Radius() int { return b.radius }

// Contains reports whether the hex lies on the board.
func (b *Board) Contains(h Hex) bool {
	return Distance(Hex{}, h) <= b.radius
}

// AllHexes returns every hex on the board.
func (b *Board) AllHexes() []Hex {
	out := make([]Hex, len(b.hexes))
	copy(out, b.hexes)
	return out
}

// Neighbors returns the on-board neighbors of h.
func (b *Board) Neighbors(h Hex) []Hex {
	out := make([]Hex, 0, 6)
	for _, n := range h.Neighbors() {
		if b.Contains(n) {
			out = append(out, n)
		}
	}
	return out
}

// Distance returns the hex distance between a and b.
func (b *Board) Distance(a, c Hex) int { return Distance(a, c) }

// StraightLineDir reports alignment of two hexes, see package function.
func (b *Board) StraightLineDir(a, c Hex) (int, []Hex) { return StraightLineDir(a, c) }

// Line walks the hex line between two hexes, see package function.
func (b *Board) Line(a, c Hex) []Hex { return Line(a, c) }

// Reachable runs a weighted breadth-first search from `from` with the given
// movement budget. Hexes in `blocked` are never entered. `cost` gives the
// price of entering a hex (0 is allowed); a nil cost function means every
// step costs 1. It returns the distance map (from is included at cost 0)
// and a parent map for path reconstruction.
func (b *Board) Reachable(from Hex, budget int, blocked map[Hex]bool, cost func(Hex) int) (map[Hex]int, map[Hex]Hex) {
	dist := map[Hex]int{from: 0}
	parent := map[Hex]Hex{}
	pq := &hexQueue{{hex: from, dist: 0}}
	heap.Init(pq)
	for pq.Len() > 0 {
		cur := heap.Pop(pq).(hexItem)
		if cur.dist > dist[cur.hex] {
			continue
		}
		for _, n := range b.Neighbors(cur.hex) {
			if blocked[n] {
				continue
			}
			step := 1
			if cost != nil {
				step = cost(n)
			}
			nd := cur.dist + step
			if nd > budget {
				continue
			}
			if old, seen := dist[n]; seen && old <= nd {
				continue
			}
			dist[n] = nd
			parent[n] = cur.hex
			heap.Push(pq, hexItem{hex: n, dist: nd})
		}
	}
	return dist, parent
}

// Path reconstructs the hex sequence from `from` to `to` using the parent
// map produced by Reachable. The returned slice excludes `from` and ends at
// `to`; it is nil when `to` was not reached.
func (b *Board) Path(from, to Hex, parent map[Hex]Hex) []Hex {
	if from == to {
		return []Hex{}
	}
	var rev []Hex
	cur := to
	for cur != from {
		rev = append(rev, cur)
		p, ok := parent[cur]
		if !ok {
			return nil
		}
		cur = p
	}
	out := make([]Hex, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		out = append(out, rev[i])
	}
	return out
}

type hexItem struct {
	hex  Hex
	dist int
}

type hexQueue []hexItem

func (q hexQueue) Len() int            { return len(q) }
func (q hexQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q hexQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *hexQueue) Push(x interface{}) { *q = append(*q, x.(hexItem)) }
func (q *hexQueue) Pop() interface{} {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
