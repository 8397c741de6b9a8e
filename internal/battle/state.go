// Package battle defines the core data model shared by the reducer, the
// effect lifecycle, and turn order: units, the grid map, durable effects,
// and the battle state that ties them together. Grounded on the teacher's
// internal/state package (Actor/Player struct embedding, JSON-tagged plain
// structs with no behavior beyond small accessor helpers), generalized from
// continuous (float64 x/y, wall-clock health) actors to discrete grid units
// with integer HP pools and tactical-combat attributes.
package battle

import "tactics-engine/internal/grid"

// ConditionImmuneAll is the sentinel that grants immunity to every condition.
const ConditionImmuneAll = "all_conditions"

// DamageImmuneAll is the sentinel that grants immunity to every damage tag.
const DamageImmuneAll = "all"

// UnconsciousCondition is applied automatically whenever a unit's hp reaches 0.
const UnconsciousCondition = "unconscious"

// TempHP tracks a unit's temporary hit points, their narrative source, and
// the id of the effect that owns them (if any effect does).
type TempHP struct {
	Amount      int    `json:"amount"`
	Source      string `json:"source,omitempty"`
	OwnerEffect string `json:"ownerEffectId,omitempty"`
}

// Unit is a single combatant: a stable id, team tag, position, combat
// statistics, and the open-ended condition/resistance/weakness/immunity
// tables the damage pipeline consults.
type Unit struct {
	ID       string `json:"id"`
	Team     string `json:"team"`
	HP       int    `json:"hp"`
	MaxHP    int    `json:"maxHp"`
	Position grid.Point `json:"position"`

	Initiative   int    `json:"initiative"`
	AttackMod    int    `json:"attackMod"`
	AC           int    `json:"ac"`
	DamageFormula string `json:"damage"`

	TempHP TempHP `json:"tempHp"`

	AttackDamageType   string   `json:"attackDamageType,omitempty"`
	AttackDamageBypass []string `json:"attackDamageBypass,omitempty"`

	Fortitude int `json:"fortitude"`
	Reflex    int `json:"reflex"`
	Will      int `json:"will"`

	ActionsRemaining int  `json:"actionsRemaining"`
	ReactionAvailable bool `json:"reactionAvailable"`

	Conditions          map[string]int `json:"conditions,omitempty"`
	ConditionImmunities []string       `json:"conditionImmunities,omitempty"`
	Resistances         map[string]int `json:"resistances,omitempty"`
	Weaknesses          map[string]int `json:"weaknesses,omitempty"`
	Immunities          []string       `json:"immunities,omitempty"`

	Reach int `json:"reach"`
	Speed int `json:"speed"`
}

// Alive reports whether the unit still has hit points.
func (u *Unit) Alive() bool {
	return u.HP > 0
}

// NewUnit fills in the defaults called out in §3: reach 1, speed 5, three
// actions, a reaction available.
func NewUnit(id, team string) *Unit {
	return &Unit{
		ID:                id,
		Team:              team,
		ActionsRemaining:  3,
		ReactionAvailable: true,
		Reach:             1,
		Speed:             5,
	}
}

// TickTiming identifies when a durable effect's tick fires relative to a turn.
type TickTiming string

const (
	TickNone     TickTiming = ""
	TickTurnStart TickTiming = "turn_start"
	TickTurnEnd   TickTiming = "turn_end"
)

// EffectKind discriminates the behavior an effect's on_apply/on_tick/on_expire
// handlers implement.
type EffectKind string

const (
	EffectCondition       EffectKind = "condition"
	EffectTempHP          EffectKind = "temp_hp"
	EffectPersistentDamage EffectKind = "persistent_damage"
	EffectAffliction      EffectKind = "affliction"
	EffectSummon          EffectKind = "summon"
)

// AfflictionStage is one entry in an affliction's stage ladder: the stage
// number and the effects (conditions/damage) applied fresh on stage entry.
type AfflictionStage struct {
	Stage      int            `json:"stage"`
	Conditions map[string]int `json:"conditions,omitempty"`
	Damage     string         `json:"damage,omitempty"`
}

// AfflictionPayload is the structured payload for an EffectAffliction effect.
type AfflictionPayload struct {
	SaveType            string            `json:"saveType"`
	DC                  int               `json:"dc"`
	MaximumDurationRounds int             `json:"maximumDurationRounds"`
	Stages              []AfflictionStage `json:"stages"`
	CurrentStage        int               `json:"currentStage"`
	PersistentConditions []string         `json:"persistentConditions,omitempty"`
}

// Effect is a durable effect attached to the battle: a condition, a temp-hp
// grant, a persistent-damage tick, an affliction record, or a summon marker.
type Effect struct {
	ID             string     `json:"id"`
	Kind           EffectKind `json:"kind"`
	SourceUnitID   string     `json:"sourceUnitId,omitempty"`
	TargetUnitID   string     `json:"targetUnitId,omitempty"`
	Payload        map[string]any `json:"payload,omitempty"`
	DurationRounds *int       `json:"durationRounds,omitempty"`
	TickTiming     TickTiming `json:"tickTiming,omitempty"`

	Affliction *AfflictionPayload `json:"affliction,omitempty"`
}

// BattleState is the single mutable root the reducer consumes and replaces:
// a deterministic seed, turn order, unit and effect tables, and flags.
type BattleState struct {
	BattleID    string          `json:"battleId"`
	Seed        uint32          `json:"seed"`
	RoundNumber int             `json:"roundNumber"`
	TurnIndex   int             `json:"turnIndex"`
	TurnOrder   []string        `json:"turnOrder"`
	Units       map[string]*Unit `json:"units"`
	Map         grid.Map        `json:"map"`
	Effects     map[string]*Effect `json:"effects"`
	Flags       map[string]bool `json:"flags"`

	EventSequence uint64 `json:"eventSequence"`
	EffectSequence uint64 `json:"effectSequence"`
}

// ActiveUnitID returns the id of whichever unit the turn index currently
// points at, or "" if the turn order is empty.
func (s *BattleState) ActiveUnitID() string {
	if len(s.TurnOrder) == 0 {
		return ""
	}
	if s.TurnIndex < 0 || s.TurnIndex >= len(s.TurnOrder) {
		return ""
	}
	return s.TurnOrder[s.TurnIndex]
}

// Clone deep-copies the state so the reducer can operate on an isolated
// working copy, matching §4.11's "operates on a deep copy of state" contract.
func (s *BattleState) Clone() *BattleState {
	next := &BattleState{
		BattleID:       s.BattleID,
		Seed:           s.Seed,
		RoundNumber:    s.RoundNumber,
		TurnIndex:      s.TurnIndex,
		EventSequence:  s.EventSequence,
		EffectSequence: s.EffectSequence,
	}
	next.TurnOrder = append([]string(nil), s.TurnOrder...)

	next.Map = s.Map.Clone()

	next.Units = make(map[string]*Unit, len(s.Units))
	for id, u := range s.Units {
		cloned := *u
		cloned.Position = u.Position
		cloned.Conditions = cloneIntMap(u.Conditions)
		cloned.Resistances = cloneIntMap(u.Resistances)
		cloned.Weaknesses = cloneIntMap(u.Weaknesses)
		cloned.Immunities = append([]string(nil), u.Immunities...)
		cloned.ConditionImmunities = append([]string(nil), u.ConditionImmunities...)
		cloned.AttackDamageBypass = append([]string(nil), u.AttackDamageBypass...)
		next.Units[id] = &cloned
	}

	next.Effects = make(map[string]*Effect, len(s.Effects))
	for id, e := range s.Effects {
		cloned := *e
		cloned.Payload = clonePayload(e.Payload)
		if e.DurationRounds != nil {
			d := *e.DurationRounds
			cloned.DurationRounds = &d
		}
		if e.Affliction != nil {
			a := *e.Affliction
			a.Stages = append([]AfflictionStage(nil), e.Affliction.Stages...)
			a.PersistentConditions = append([]string(nil), e.Affliction.PersistentConditions...)
			cloned.Affliction = &a
		}
		next.Effects[id] = &cloned
	}

	next.Flags = make(map[string]bool, len(s.Flags))
	for k, v := range s.Flags {
		next.Flags[k] = v
	}

	return next
}

func cloneIntMap(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clonePayload(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// NextEventID pre-increments event_sequence and formats it per §4.15.
func (s *BattleState) NextEventID() (string, uint64) {
	s.EventSequence++
	return formatEventID(s.EventSequence), s.EventSequence
}

// NextEffectID mints a new "eff_NNNN" ordinal id.
func (s *BattleState) NextEffectID() string {
	s.EffectSequence++
	return formatEffectID(s.EffectSequence)
}
