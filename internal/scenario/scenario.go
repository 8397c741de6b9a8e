// Package scenario defines the inbound scenario document (§6), validates it
// strictly (unknown fields rejected), and assembles it into a
// battle.BattleState. Grounded on the teacher's effects/catalog package: a
// JSON-tagged document struct, a Resolver-shaped loader, and
// invopop/jsonschema reflection of the document shape (BuildSchema; Validate
// itself checks strictly by decoding with unknown fields disallowed), generalized from
// a single designer-authored effect entry to a full scenario document
// (map, units, commands, objectives, hazards, content packs).
package scenario

import "tactics-engine/internal/grid"

// Document is the top-level scenario JSON shape from §6.
type Document struct {
	BattleID  string        `json:"battle_id" jsonschema:"required,minLength=1"`
	Seed      uint32        `json:"seed"`
	EnginePhase int         `json:"engine_phase,omitempty"`
	Map       MapDocument   `json:"map" jsonschema:"required"`
	Units     []UnitDocument `json:"units" jsonschema:"required"`
	Commands  []map[string]any `json:"commands,omitempty"`
	Flags     map[string]bool  `json:"flags,omitempty"`

	Objectives            []map[string]any `json:"objectives,omitempty"`
	ObjectivePacks         []map[string]any `json:"objective_packs,omitempty"`
	EnemyPolicy            map[string]any   `json:"enemy_policy,omitempty"`
	MissionEvents          []map[string]any `json:"mission_events,omitempty"`
	ReinforcementWaves     []map[string]any `json:"reinforcement_waves,omitempty"`
	HazardRoutines         []map[string]any `json:"hazard_routines,omitempty"`
	ContentPacks           []string         `json:"content_packs,omitempty"`
	ContentPackID          string           `json:"content_pack_id,omitempty"`
	RequiredContentFeatures []string        `json:"required_content_features,omitempty"`
}

// MapDocument is the inbound map block.
type MapDocument struct {
	Width   int     `json:"width" jsonschema:"required,minimum=1"`
	Height  int     `json:"height" jsonschema:"required,minimum=1"`
	Blocked [][2]int `json:"blocked,omitempty"`
}

// UnitDocument is the inbound per-unit shape, prior to defaulting into
// battle.Unit.
type UnitDocument struct {
	ID                 string         `json:"id" jsonschema:"required,minLength=1"`
	Team               string         `json:"team" jsonschema:"required,minLength=1"`
	HP                 int            `json:"hp" jsonschema:"required,minimum=1"`
	MaxHP              int            `json:"max_hp,omitempty"`
	Position           [2]int         `json:"position" jsonschema:"required"`
	Initiative         int            `json:"initiative"`
	AttackMod          int            `json:"attack_mod"`
	AC                 int            `json:"ac"`
	Damage             string         `json:"damage"`
	TempHP             int            `json:"temp_hp,omitempty"`
	AttackDamageType   string         `json:"attack_damage_type,omitempty"`
	AttackDamageBypass []string       `json:"attack_damage_bypass,omitempty"`
	Fortitude          int            `json:"fortitude"`
	Reflex             int            `json:"reflex"`
	Will               int            `json:"will"`
	Resistances        map[string]int `json:"resistances,omitempty"`
	Weaknesses         map[string]int `json:"weaknesses,omitempty"`
	Immunities         []string       `json:"immunities,omitempty"`
	ConditionImmunities []string      `json:"condition_immunities,omitempty"`
}

// ToPoint converts the inbound [x,y] pair to a grid.Point.
func (u UnitDocument) ToPoint() grid.Point {
	return grid.Point{X: u.Position[0], Y: u.Position[1]}
}
