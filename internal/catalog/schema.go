package catalog

import (
	"strings"

	"github.com/jamesjt/Tirs-sub000/internal/game"
)

// UnitTemplate is one row of the unit table. Templates are read-only; the
// engine instantiates mutable units from them at deployment.
type UnitTemplate struct {
	Name         string          `json:"name"`
	Faction      string          `json:"faction"`
	Cost         int             `json:"cost"`
	Health       int             `json:"health"`
	Armor        int             `json:"armor"`
	Move         int             `json:"move"`
	AtkType      game.AttackType `json:"atk_type"`
	Range        int             `json:"range"`
	Damage       int             `json:"damage"`
	SpecialRules []string        `json:"special_rules,omitempty"`
}

// TerrainRule describes one surface name: its element and the rule tags that
// drive all terrain semantics.
type TerrainRule struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Element     string   `json:"element"`
	Rules       []string `json:"rules,omitempty"`
}

// Terrain rule tags.
const (
	TagCover        = "cover"
	TagConcealing   = "concealing"
	TagDifficult    = "difficult"
	TagImpassable   = "impassable"
	TagDangerous    = "dangerous"
	TagPoisonous    = "poisonous"
	TagRevealing    = "revealing"
	TagConsuming    = "consuming"
	TagInvigorating = "invigorating"
	TagFlow         = "flow"
	TagEvanescent   = "evanescent"
	TagShifting     = "shifting"
)

// Has reports whether the surface carries the given rule tag.
func (t TerrainRule) Has(tag string) bool {
	for _, r := range t.Rules {
		if r == tag {
			return true
		}
	}
	return false
}

// RuleEffect is one effect column of an atomic rule. Value is a literal;
// ValueKey may instead name a computed source ("unitDamage" = the acting
// unit's effective damage stat at application time).
type RuleEffect struct {
	Effect   string `json:"effect"`
	Value    int    `json:"value,omitempty"`
	ValueKey string `json:"value_key,omitempty"`
}

// RuleType is the trigger category of an atomic rule.
type RuleType string

const (
	RuleHit        RuleType = "hit"
	RulePassive    RuleType = "passive"
	RuleDeath      RuleType = "death"
	RuleActivation RuleType = "activation"
	RuleAction     RuleType = "action"
	RuleRoundStart RuleType = "roundStart"
	RuleMovement   RuleType = "movement"
)

// AtomicRule is a single externally authored effect definition (layer 3).
type AtomicRule struct {
	ID        string          `json:"id"`
	Type      RuleType        `json:"type"`
	Target    string          `json:"target"`
	Effects   []RuleEffect    `json:"effects"`
	Condition string          `json:"condition,omitempty"`
	Range     int             `json:"range,omitempty"`
	AtkType   game.AttackType `json:"atk_type,omitempty"`
	LOS       bool            `json:"los,omitempty"`
	// Cost is the action-cost tag of action-type rules: "move", "attack" or
	// empty (free).
	Cost string `json:"cost,omitempty"`
}

// AbilityDef names a composed ability (layer 2): an ordered list of atomic
// rule ids plus the once-per-game flag.
type AbilityDef struct {
	Name        string   `json:"name"`
	RuleIDs     []string `json:"rule_ids"`
	OncePerGame bool     `json:"once_per_game,omitempty"`
	Text        string   `json:"text,omitempty"`
}

// Catalog is the full read-only data snapshot consumed by the engine.
type Catalog struct {
	Units     map[string]UnitTemplate
	UnitList  []UnitTemplate
	Terrain   map[string]TerrainRule
	Rules     map[string]AtomicRule
	Abilities map[string]AbilityDef
	// FactionTerrain lists the surfaces each faction may deploy.
	FactionTerrain map[string][]string
}

// Unit looks up a template by name (case-insensitive).
func (c *Catalog) Unit(name string) (UnitTemplate, bool) {
	t, ok := c.Units[strings.ToLower(name)]
	return t, ok
}

// Surface looks up a terrain rule by surface name.
func (c *Catalog) Surface(name string) (TerrainRule, bool) {
	t, ok := c.Terrain[name]
	return t, ok
}

// SurfaceHas reports whether a surface name exists and carries the tag.
func (c *Catalog) SurfaceHas(name, tag string) bool {
	t, ok := c.Terrain[name]
	return ok && t.Has(tag)
}

// Ability looks up an ability definition by name.
func (c *Catalog) Ability(name string) (AbilityDef, bool) {
	a, ok := c.Abilities[name]
	return a, ok
}

// Rule looks up an atomic rule by id.
func (c *Catalog) Rule(id string) (AtomicRule, bool) {
	r, ok := c.Rules[id]
	return r, ok
}
