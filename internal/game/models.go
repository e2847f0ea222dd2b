package game

import (
	"github.com/jamesjt/Tirs-sub000/internal/hexgrid"
)

// PlayerID identifies one of the two seats. 0 means "no player".
type PlayerID int

const (
	NoPlayer PlayerID = 0
	Player1  PlayerID = 1
	Player2  PlayerID = 2
)

// Other returns the opposing seat.
func (p PlayerID) Other() PlayerID {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return NoPlayer
}

// Phase is the top-level match state.
type Phase string

const (
	PhaseFactionRoster Phase = "faction_roster"
	PhaseTerrainDeploy Phase = "terrain_deploy"
	PhaseUnitDeploy    Phase = "unit_deploy"
	PhaseRoundStart    Phase = "round_start"
	PhaseBattle        Phase = "battle"
	PhaseRoundEnd      Phase = "round_end"
	PhaseGameOver      Phase = "game_over"
)

// AttackType selects the targeting pattern validated by the combat resolver.
type AttackType string

const (
	AttackDirect AttackType = "Direct"
	AttackLine   AttackType = "Line"
	AttackPath   AttackType = "Path"
)

// Duration tags control when a condition is cleared.
type Duration string

const (
	EndOfActivation Duration = "endOfActivation"
	EndOfRound      Duration = "endOfRound"
	UntilAttack     Duration = "untilAttack"
	Permanent       Duration = "permanent"
)

// ConditionID names a status effect. The set is open: catalog data may apply
// any id the engine's condition table knows about.
type ConditionID string

const (
	CondBurning      ConditionID = "burning"
	CondPoisoned     ConditionID = "poisoned"
	CondProtected    ConditionID = "protected"
	CondVulnerable   ConditionID = "vulnerable"
	CondStrengthened ConditionID = "strengthened"
	CondWeakness     ConditionID = "weakness"
	CondBreak        ConditionID = "break"
	CondTaunted      ConditionID = "taunted"
	CondDizzy        ConditionID = "dizzy"
	CondArcFire      ConditionID = "arcFire"
)

// Condition is one active status effect instance. Multiple instances of the
// same id may coexist (stacking is counted, not deduplicated).
type Condition struct {
	ID       ConditionID `json:"id"`
	Duration Duration    `json:"duration"`
	// SourceUnit is the id of the unit that caused this condition (for
	// example the taunter), or -1 when there is none.
	SourceUnit int `json:"source_unit"`
	// SourceTag distinguishes effect provenance for later negation logic
	// (for example "revealing" on terrain-granted vulnerable).
	SourceTag string `json:"source_tag,omitempty"`
}

// Unit is a deployed piece. Units are created once at deployment and mutated
// for the whole match; health <= 0 means dead but the unit stays in the list
// for log and undo bookkeeping.
type Unit struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Faction    string      `json:"faction"`
	Owner      PlayerID    `json:"owner"`
	Health     int         `json:"health"`
	MaxHealth  int         `json:"max_health"`
	Armor      int         `json:"armor"`
	Move       int         `json:"move"`
	AtkType    AttackType  `json:"atk_type"`
	Range      int         `json:"range"`
	Damage     int         `json:"damage"`
	Cost       int         `json:"cost"`
	Pos        hexgrid.Hex `json:"pos"`
	Activated  bool        `json:"activated"`
	Conditions []Condition `json:"conditions,omitempty"`
	// Abilities holds the bound ability names resolved from the unit's
	// template at creation. Unresolved names are dropped with a warning.
	Abilities []string `json:"abilities,omitempty"`
	// Spent marks once-per-game abilities already used.
	Spent map[string]bool `json:"spent,omitempty"`
	// ConsumedAt remembers the hex of the consuming terrain that swallowed
	// the unit, for round-end restoration.
	ConsumedAt *hexgrid.Hex `json:"consumed_at,omitempty"`
}

// Alive reports whether the unit is on the board and has health left.
func (u *Unit) Alive() bool {
	return u.Health > 0 && u.Pos != hexgrid.OffBoard
}

// TerrainCell is a placed surface on one hex.
type TerrainCell struct {
	Surface string   `json:"surface"`
	Player  PlayerID `json:"player"`
}

// Objective is a fixed board hex that accrues control and end-of-round
// points. Objective hexes may never hold terrain.
type Objective struct {
	Pos   hexgrid.Hex `json:"pos"`
	Value int         `json:"value"`
	Core  bool        `json:"core"`
	Owner PlayerID    `json:"owner"`
}

// CombatLogEntry is one line of the monotonically growing match log.
type CombatLogEntry struct {
	Text   string   `json:"text"`
	Player PlayerID `json:"player"`
	Round  int      `json:"round"`
}

// DelayedEffect is a stored attack intent resolved at the owning unit's next
// activation. Damage is computed at resolution time, not queue time.
type DelayedEffect struct {
	UnitID     int           `json:"unit_id"`
	Player     PlayerID      `json:"player"`
	Target     hexgrid.Hex   `json:"target"`
	AtkDamage  int           `json:"atk_damage"`
	Round      int           `json:"round"`
	AttackPath []hexgrid.Hex `json:"attack_path,omitempty"`
}

// EffectQueueEntry is one pending interactive effect (push/pull/move or
// terrain creation) awaiting a player-chosen destination.
type EffectQueueEntry struct {
	Type      string        `json:"type"` // push | pull | move | create
	UnitID    int           `json:"unit_id"`
	Ref       hexgrid.Hex   `json:"ref"`
	Remaining int           `json:"remaining"`
	Surface   string        `json:"surface,omitempty"`
	Valid     []hexgrid.Hex `json:"valid,omitempty"`
	Player    PlayerID      `json:"player"`
}

// BurningRedirect is the paused state after an attack by a burning unit with
// / a redirect ability: the player must pick an adjacent unit (or self) to
// take the stacked burning damage.
type BurningRedirect struct {
	UnitID int `json:"unit_id"`
	Damage int `json:"damage"`
}

// RoundStep is one entry of the round-start or round-end step queue. Auto
// steps run immediately; non-auto steps suspend the controller until the
// external caller resolves them.
type RoundStep struct {
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Auto   bool        `json:"auto"`
	UnitID int         `json:"unit_id,omitempty"`
	Hex    hexgrid.Hex `json:"hex,omitempty"`
	Dest   hexgrid.Hex `json:"dest,omitempty"`
	Value  int         `json:"value,omitempty"`
}

// Round step queue identifiers.
const (
	StepScoreObjectives  = "scoreObjectives"
	StepEvanescent       = "evanescent"
	StepShiftTerrain     = "shiftTerrain"
	StepShiftRide        = "shiftRide"
	StepConsumedReturn   = "consumedReturn"
	StepTerrainRetrigger = "terrainRetrigger"
	StepClearEndOfRound  = "clearEndOfRound"
	StepResetActivation  = "resetActivation"
	StepFirstToken       = "firstToken"
	StepArcFire          = "arcFire"
	StepRoundStartRules  = "roundStartRules"
)

// UndoKind tags an action-history record.
type UndoKind string

const (
	UndoMove    UndoKind = "move"
	UndoAttack  UndoKind = "attack"
	UndoAbility UndoKind = "ability"
	UndoTerrain UndoKind = "terrain"
	UndoToss    UndoKind = "toss"
)

// UndoRecord captures the state an action may disturb, taken just before
// the action runs. Undo restores every captured field, which makes it a true
// inverse by construction. Only the most recent record may be undone
// (single-step LIFO); Kind gates per-type table rules.
type UndoRecord struct {
	Kind   UndoKind `json:"kind"`
	UnitID int      `json:"unit_id"`

	Positions  map[int]hexgrid.Hex         `json:"positions"`
	Health     map[int]int                 `json:"health"`
	Conditions map[int][]Condition         `json:"conditions"`
	Spent      map[int]map[string]bool     `json:"spent,omitempty"`
	Terrain    map[hexgrid.Hex]TerrainCell `json:"terrain"`
	Owners     []PlayerID                  `json:"owners,omitempty"` // objective owners by index
	Consumed   []int                       `json:"consumed,omitempty"`
	Delayed    []DelayedEffect             `json:"delayed,omitempty"`
	Changed    []hexgrid.Hex               `json:"changed,omitempty"`

	PrevMoved      bool          `json:"prev_moved"`
	PrevAttacked   bool          `json:"prev_attacked"`
	PrevMoveDist   int           `json:"prev_move_dist"`
	PrevAttackPath []hexgrid.Hex `json:"prev_attack_path,omitempty"`

	// SpentAbility records a once-per-game charge consumed by this action.
	SpentAbility string `json:"spent_ability,omitempty"`

	// Log length before the action, so undo can trim appended lines.
	LogLen int `json:"log_len"`
}

// Activation is the transient per-unit turn state. It exists from SelectUnit
// until EndActivation.
type Activation struct {
	UnitID       int  `json:"unit_id"`
	Moved        bool `json:"moved"`
	Attacked     bool `json:"attacked"`
	MoveDistance int  `json:"move_distance"`

	AttackPath []hexgrid.Hex `json:"attack_path,omitempty"`

	// Parent pointers and reachable distances of the last GetMoveRange call,
	// used for path reconstruction when the move commits.
	Parent map[hexgrid.Hex]hexgrid.Hex `json:"parent,omitempty"`
	Reach  map[hexgrid.Hex]int         `json:"reach,omitempty"`

	History []UndoRecord `json:"history,omitempty"`
}

// TableRules are the match-level table configuration knobs.
type TableRules struct {
	TurnLimit      int  `json:"turn_limit"`
	CoreIncrement  int  `json:"core_increment"`
	ConfirmEndTurn bool `json:"confirm_end_turn"`
	CanUndoMove    bool `json:"can_undo_move"`
	CanUndoAttack  bool `json:"can_undo_attack"`
	HiddenDeploy   bool `json:"hidden_deploy"`
	PassFirstToken bool `json:"pass_first_token"`
}

// PlayerState is one seat's roster and score.
type PlayerState struct {
	Name            string   `json:"name"`
	Faction         string   `json:"faction"`
	RosterConfirmed bool     `json:"roster_confirmed"`
	Roster          []string `json:"roster,omitempty"` // template names to deploy
	TerrainPool     []string `json:"terrain_pool,omitempty"`
	Score           int      `json:"score"`
}

// Match is the whole mutable match state. Exactly one external caller drives
// it at a time; the engine provides no internal locking.
type Match struct {
	Phase         Phase          `json:"phase"`
	Round         int            `json:"round"`
	CurrentPlayer PlayerID       `json:"current_player"`
	FirstPlayer   PlayerID       `json:"first_player"`
	Winner        PlayerID       `json:"winner"`
	Rules         TableRules     `json:"rules"`
	Players       [2]PlayerState `json:"players"`

	Units      []*Unit                     `json:"units"`
	Terrain    map[hexgrid.Hex]TerrainCell `json:"terrain"`
	Objectives []*Objective                `json:"objectives"`

	// Consumed lists unit ids awaiting round-end restoration.
	Consumed []int `json:"consumed,omitempty"`

	Delayed     []DelayedEffect    `json:"delayed,omitempty"`
	EffectQueue []EffectQueueEntry `json:"effect_queue,omitempty"`
	Burning     *BurningRedirect   `json:"burning,omitempty"`

	Activation *Activation `json:"activation,omitempty"`

	Steps     []RoundStep `json:"steps,omitempty"`
	StepIndex int         `json:"step_index"`

	// ChangedTerrain tracks hexes whose surface changed this round, for the
	// round-end terrain re-trigger step.
	ChangedTerrain []hexgrid.Hex `json:"changed_terrain,omitempty"`

	Log []CombatLogEntry `json:"log,omitempty"`
}

// NewMatch builds an empty match in the roster phase with the given rules.
func NewMatch(rules TableRules) *Match {
	return &Match{
		Phase:   PhaseFactionRoster,
		Round:   1,
		Rules:   rules,
		Terrain: map[hexgrid.Hex]TerrainCell{},
	}
}

// Player returns the seat state for the given id.
func (m *Match) Player(p PlayerID) *PlayerState {
	if p != Player1 && p != Player2 {
		return nil
	}
	return &m.Players[p-1]
}

// UnitByID returns the unit with the given id, or nil.
func (m *Match) UnitByID(id int) *Unit {
	if id < 0 || id >= len(m.Units) {
		return nil
	}
	return m.Units[id]
}

// UnitAt returns the living unit occupying the hex, or nil.
func (m *Match) UnitAt(h hexgrid.Hex) *Unit {
	for _, u := range m.Units {
		if u.Alive() && u.Pos == h {
			return u
		}
	}
	return nil
}

// ObjectiveAt returns the objective at the hex, or nil.
func (m *Match) ObjectiveAt(h hexgrid.Hex) *Objective {
	for _, o := range m.Objectives {
		if o.Pos == h {
			return o
		}
	}
	return nil
}

// Logf appends one combat log line attributed to a player and round.
func (m *Match) Logf(p PlayerID, text string) {
	m.Log = append(m.Log, CombatLogEntry{Text: text, Player: p, Round: m.Round})
}

// ActiveUnit returns the unit of the current activation, or nil.
func (m *Match) ActiveUnit() *Unit {
	if m.Activation == nil {
		return nil
	}
	return m.UnitByID(m.Activation.UnitID)
}
