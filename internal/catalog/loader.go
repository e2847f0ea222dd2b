package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/jamesjt/Tirs-sub000/internal/logging"
)

type rawCatalog struct {
	Units          []UnitTemplate      `json:"units"`
	Terrain        []TerrainRule       `json:"terrain"`
	Rules          []AtomicRule        `json:"rules"`
	Abilities      []AbilityDef        `json:"abilities"`
	FactionTerrain map[string][]string `json:"faction_terrain,omitempty"`
}

// loadGroup deduplicates concurrent catalog loads keyed by path, so a reload
// requested by several handlers at once runs only one file parse.
var loadGroup singleflight.Group

// Load reads and validates the catalog file at path. Structural problems
// (duplicate names, empty tables) are errors; dangling rule-id references in
// ability definitions are reported once as warnings and the definition keeps
// only its resolvable rules, matching the engine's degrade-don't-crash
// policy for externally authored data.
func Load(path string) (*Catalog, error) {
	v, err, _ := loadGroup.Do(path, func() (interface{}, error) {
		return loadFile(path)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Catalog), nil
}

func loadFile(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}
	var rc rawCatalog
	if err := json.Unmarshal(b, &rc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return build(path, rc)
}

func build(path string, rc rawCatalog) (*Catalog, error) {
	if len(rc.Units) == 0 {
		return nil, fmt.Errorf("catalog file %s: 'units' is empty", path)
	}
	c := &Catalog{
		Units:          make(map[string]UnitTemplate, len(rc.Units)),
		UnitList:       rc.Units,
		Terrain:        make(map[string]TerrainRule, len(rc.Terrain)),
		Rules:          make(map[string]AtomicRule, len(rc.Rules)),
		Abilities:      make(map[string]AbilityDef, len(rc.Abilities)),
		FactionTerrain: rc.FactionTerrain,
	}
	for _, u := range rc.Units {
		if u.Name == "" {
			return nil, fmt.Errorf("catalog file %s: unit entry missing 'name'", path)
		}
		key := strings.ToLower(u.Name)
		if _, exists := c.Units[key]; exists {
			return nil, fmt.Errorf("catalog file %s: duplicate unit name '%s'", path, u.Name)
		}
		c.Units[key] = u
	}
	for _, t := range rc.Terrain {
		if t.Name == "" {
			return nil, fmt.Errorf("catalog file %s: terrain entry missing 'name'", path)
		}
		if _, exists := c.Terrain[t.Name]; exists {
			return nil, fmt.Errorf("catalog file %s: duplicate terrain name '%s'", path, t.Name)
		}
		if t.DisplayName == "" {
			t.DisplayName = t.Name
		}
		c.Terrain[t.Name] = t
	}
	for _, r := range rc.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("catalog file %s: rule entry missing 'id'", path)
		}
		if _, exists := c.Rules[r.ID]; exists {
			return nil, fmt.Errorf("catalog file %s: duplicate rule id '%s'", path, r.ID)
		}
		c.Rules[r.ID] = r
	}
	// Ability definitions: dangling rule ids are a data problem but must not
	// abort the load. Report each missing id once and keep the rest.
	for _, a := range rc.Abilities {
		if a.Name == "" {
			return nil, fmt.Errorf("catalog file %s: ability entry missing 'name'", path)
		}
		if _, exists := c.Abilities[a.Name]; exists {
			return nil, fmt.Errorf("catalog file %s: duplicate ability name '%s'", path, a.Name)
		}
		kept := make([]string, 0, len(a.RuleIDs))
		for _, id := range a.RuleIDs {
			if _, ok := c.Rules[id]; !ok {
				logging.Warn("ability references unknown rule id", logging.Fields{"ability": a.Name, "rule": id, "catalog_path": path})
				continue
			}
			kept = append(kept, id)
		}
		a.RuleIDs = kept
		c.Abilities[a.Name] = a
	}
	// Faction terrain lists must reference known surfaces.
	for faction, names := range c.FactionTerrain {
		for _, n := range names {
			if _, ok := c.Terrain[n]; !ok {
				logging.Warn("faction terrain references unknown surface", logging.Fields{"faction": faction, "surface": n, "catalog_path": path})
			}
		}
	}
	return c, nil
}
