package hexgrid

// Hex is an axial hex coordinate (pointy-top, q/r axes). It marshals as the
// string "q,r" (see encoding.go) in JSON, both as value and as map key.
type Hex struct {
	Q int
	R int
}

// OffBoard is the sentinel position for units that are not on the board
// (for example while swallowed by consuming terrain).
var OffBoard = Hex{Q: -999, R: -999}

// directions lists the six neighbor offsets in a fixed order. The index is
// the direction id used by StraightLineDir.
var directions = [6]Hex{
	{+1, 0}, {+1, -1}, {0, -1},
	{-1, 0}, {-1, +1}, {0, +1},
}

// Neighbor returns the adjacent hex in the given direction (0..5).
func (h Hex) Neighbor(dir int) Hex {
	d := directions[((dir%6)+6)%6]
	return Hex{Q: h.Q + d.Q, R: h.R + d.R}
}

// Neighbors returns all six adjacent hexes in direction order.
func (h Hex) Neighbors() [6]Hex {
	var out [6]Hex
	for i, d := range directions {
		out[i] = Hex{Q: h.Q + d.Q, R: h.R + d.R}
	}
	return out
}

func (h Hex) s() int { return -h.Q - h.R }

// Distance returns the hex-grid distance between two axial coordinates.
func Distance(a, b Hex) int {
	dq := abs(a.Q - b.Q)
	dr := abs(a.R - b.R)
	ds := abs(a.s() - b.s())
	return (dq + dr + ds) / 2
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// StraightLineDir reports whether b lies on one of a's six hex-line
// directions. It returns the direction id and every hex strictly between a
// and b, or (-1, nil) when the two hexes are not aligned.
func StraightLineDir(a, b Hex) (int, []Hex) {
	if a == b {
		return -1, nil
	}
	for dir, d := range directions {
		dq := b.Q - a.Q
		dr := b.R - a.R
		// b = a + n*d for some positive n
		var n int
		switch {
		case d.Q != 0 && dq%d.Q == 0:
			n = dq / d.Q
		case d.Q == 0 && dq == 0 && d.R != 0 && dr%d.R == 0:
			n = dr / d.R
		default:
			continue
		}
		if n <= 0 || a.Q+n*d.Q != b.Q || a.R+n*d.R != b.R {
			continue
		}
		between := make([]Hex, 0, n-1)
		for i := 1; i < n; i++ {
			between = append(between, Hex{Q: a.Q + i*d.Q, R: a.R + i*d.R})
		}
		return dir, between
	}
	return -1, nil
}

// Line walks the hex line from a to b (center to center) and returns every
// hex it crosses, endpoints included. Used for line-of-sight checks.
func Line(a, b Hex) []Hex {
	n := Distance(a, b)
	if n == 0 {
		return []Hex{a}
	}
	out := make([]Hex, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		q := lerp(float64(a.Q), float64(b.Q), t)
		r := lerp(float64(a.R), float64(b.R), t)
		s := lerp(float64(a.s()), float64(b.s()), t)
		out = append(out, cubeRound(q, r, s))
	}
	return out
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// cubeRound rounds fractional cube coordinates to the nearest hex while
// keeping q+r+s == 0.
func cubeRound(q, r, s float64) Hex {
	rq := round(q)
	rr := round(r)
	rs := round(s)
	dq := absF(float64(rq) - q)
	dr := absF(float64(rr) - r)
	ds := absF(float64(rs) - s)
	switch {
	case dq > dr && dq > ds:
		rq = -rr - rs
	case dr > ds:
		rr = -rq - rs
	}
	return Hex{Q: rq, R: rr}
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
