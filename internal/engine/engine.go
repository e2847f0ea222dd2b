package engine

import (
	"github.com/jamesjt/Tirs-sub000/internal/catalog"
	"github.com/jamesjt/Tirs-sub000/internal/game"
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

// Geometry is the board oracle the engine consumes. *hexgrid.Board satisfies
// it; tests may substitute smaller boards.
type Geometry interface {
	Contains(h hexgrid.Hex) bool
	Neighbors(h hexgrid.Hex) []hexgrid.Hex
	Distance(a, b hexgrid.Hex) int
	Reachable(from hexgrid.Hex, budget int, blocked map[hexgrid.Hex]bool, cost func(hexgrid.Hex) int) (map[hexgrid.Hex]int, map[hexgrid.Hex]hexgrid.Hex)
	Path(from, to hexgrid.Hex, parent map[hexgrid.Hex]hexgrid.Hex) []hexgrid.Hex
	StraightLineDir(a, b hexgrid.Hex) (int, []hexgrid.Hex)
	Line(a, b hexgrid.Hex) []hexgrid.Hex
	AllHexes() []hexgrid.Hex
}

// Engine executes the rules of one match. It holds no state of its own
// beyond the match pointer, catalog snapshot and geometry oracle, so it can
// be rebuilt freely around a deserialized match.
type Engine struct {
	m   *game.Match
	cat *catalog.Catalog
	geo Geometry

	// queuing is set while ability dispatch runs: push/pull/move/create
	// effects append to the match effect queue instead of executing.
	queuing bool

	// deferDeaths is set while an attack resolves: afterDeath dispatch for
	// units killed in that window is held in deaths until the attack's
	// afterAttack trigger has run. Both are transient within one call.
	deferDeaths bool
	deaths      []pendingDeath
}

// pendingDeath is one deferred afterDeath dispatch.
type pendingDeath struct {
	unit   *game.Unit
	killer *game.Unit
}

// New builds an engine around a match.
func New(m *game.Match, cat *catalog.Catalog, geo Geometry) *Engine {
	return &Engine{m: m, cat: cat, geo: geo}
}

// Match exposes the underlying match state (read-only by convention).
func (e *Engine) Match() *game.Match { return e.m }

// surface returns the terrain rule under a hex, if any surface is placed.
func (e *Engine) surface(h hexgrid.Hex) (catalog.TerrainRule, bool) {
	cell, ok := e.m.Terrain[h]
	if !ok || cell.Surface == "" {
		return catalog.TerrainRule{}, false
	}
	return e.cat.Surface(cell.Surface)
}

// surfaceHas reports whether the hex holds a surface carrying the tag.
func (e *Engine) surfaceHas(h hexgrid.Hex, tag string) bool {
	t, ok := e.surface(h)
	return ok && t.Has(tag)
}

// livingAdjacent returns living units on hexes adjacent to h.
func (e *Engine) livingAdjacent(h hexgrid.Hex) []*game.Unit {
	var out []*game.Unit
	for _, n := range e.geo.Neighbors(h) {
		if u := e.m.UnitAt(n); u != nil {
			out = append(out, u)
		}
	}
	return out
}

// emptyAdjacent returns on-board unoccupied hexes adjacent to h.
func (e *Engine) emptyAdjacent(h hexgrid.Hex) []hexgrid.Hex {
	var out []hexgrid.Hex
	for _, n := range e.geo.Neighbors(h) {
		if e.m.UnitAt(n) == nil {
			out = append(out, n)
		}
	}
	return out
}
