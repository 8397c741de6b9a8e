// Package reducer implements the pure command dispatcher: apply(state,
// command, rng) -> (next_state, events). Grounded on the teacher's
// internal/sim.Command shape (a Type discriminator plus pointer-optional
// payload structs, one per command kind) generalized from five real-time
// movement/action commands to the fourteen turn-based command variants this
// engine supports.
package reducer

import "tactics-engine/internal/grid"

// CommandType discriminates the reducer's command variants.
type CommandType string

const (
	CommandMove                CommandType = "move"
	CommandStrike              CommandType = "strike"
	CommandEndTurn             CommandType = "end_turn"
	CommandCastSpell           CommandType = "cast_spell"
	CommandSaveDamage          CommandType = "save_damage"
	CommandAreaSaveDamage      CommandType = "area_save_damage"
	CommandApplyEffect         CommandType = "apply_effect"
	CommandUseFeat             CommandType = "use_feat"
	CommandUseItem             CommandType = "use_item"
	CommandInteract            CommandType = "interact"
	CommandSetFlag             CommandType = "set_flag"
	CommandSpawnUnit           CommandType = "spawn_unit"
	CommandTriggerHazardSource CommandType = "trigger_hazard_source"
	CommandRunHazardRoutine    CommandType = "run_hazard_routine"
)

// MovePayload carries the destination tile for a move command.
type MovePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// StrikePayload identifies the strike's target and whether a forecast should
// be attached to the resulting event.
type StrikePayload struct {
	Target       string `json:"target"`
	EmitForecast bool   `json:"emit_forecast,omitempty"`
}

// SaveBasedPayload is shared by cast_spell and save_damage: a DC, save type,
// damage formula, and optional damage-type/bypass overrides.
type SaveBasedPayload struct {
	SpellID        string   `json:"spell_id,omitempty"`
	Target         string   `json:"target"`
	DC             int      `json:"dc"`
	SaveType       string   `json:"save_type"`
	Damage         string   `json:"damage"`
	ActionCost     int      `json:"action_cost,omitempty"`
	DamageType     string   `json:"damage_type,omitempty"`
	DamageBypass   []string `json:"damage_bypass,omitempty"`
	Mode           string   `json:"mode,omitempty"`
	ContentEntryID string   `json:"content_entry_id,omitempty"`
}

// AreaSaveDamagePayload describes a save-for-half area burst centered on a
// tile, expressed in feet per §4.11.
type AreaSaveDamagePayload struct {
	CenterX      int      `json:"center_x"`
	CenterY      int      `json:"center_y"`
	RadiusFeet   int      `json:"radius_feet"`
	IncludeActor bool     `json:"include_actor,omitempty"`
	SaveType     string   `json:"save_type"`
	DC           int      `json:"dc"`
	Damage       string   `json:"damage"`
	Mode         string   `json:"mode,omitempty"`
	DamageType   string   `json:"damage_type,omitempty"`
	DamageBypass []string `json:"damage_bypass,omitempty"`
}

// ApplyEffectPayload instantiates a durable effect directly.
type ApplyEffectPayload struct {
	Target         string         `json:"target"`
	EffectKind     string         `json:"effect_kind"`
	Payload        map[string]any `json:"payload,omitempty"`
	DurationRounds *int           `json:"duration_rounds,omitempty"`
	TickTiming     string         `json:"tick_timing,omitempty"`
}

// FeatItemPayload is shared by use_feat and use_item.
type FeatItemPayload struct {
	FeatID         string         `json:"feat_id,omitempty"`
	ItemID         string         `json:"item_id,omitempty"`
	Target         string         `json:"target"`
	EffectKind     string         `json:"effect_kind"`
	Payload        map[string]any `json:"payload,omitempty"`
	DurationRounds *int           `json:"duration_rounds,omitempty"`
	TickTiming     string         `json:"tick_timing,omitempty"`
	ActionCost     int            `json:"action_cost,omitempty"`
	ContentEntryID string         `json:"content_entry_id,omitempty"`
}

// InteractPayload optionally sets a flag and/or applies an effect.
type InteractPayload struct {
	InteractID string         `json:"interact_id"`
	Target     string         `json:"target,omitempty"`
	EffectKind string         `json:"effect_kind,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	Duration   *int           `json:"duration_rounds,omitempty"`
	TickTiming string         `json:"tick_timing,omitempty"`
	Flag       string         `json:"flag,omitempty"`
	FlagValue  *bool          `json:"value,omitempty"`
	ActionCost int            `json:"action_cost,omitempty"`
}

// SetFlagPayload mutates the flags map.
type SetFlagPayload struct {
	Flag  string `json:"flag"`
	Value bool   `json:"value"`
}

// SpawnUnitPayload inserts a new unit into the battle.
type SpawnUnitPayload struct {
	Unit            SpawnUnitSpec `json:"unit"`
	PlacementPolicy string        `json:"placement_policy,omitempty"`
	SpendAction     bool          `json:"spend_action,omitempty"`
}

// SpawnUnitSpec is the inbound shape of a spawned unit, prior to defaulting.
type SpawnUnitSpec struct {
	ID                  string         `json:"id"`
	Team                string         `json:"team"`
	HP                  int            `json:"hp"`
	MaxHP               int            `json:"max_hp,omitempty"`
	Position            grid.Point     `json:"position"`
	Initiative          int            `json:"initiative,omitempty"`
	AttackMod           int            `json:"attack_mod,omitempty"`
	AC                  int            `json:"ac,omitempty"`
	Damage              string         `json:"damage,omitempty"`
	Fortitude           int            `json:"fortitude,omitempty"`
	Reflex              int            `json:"reflex,omitempty"`
	Will                int            `json:"will,omitempty"`
	Resistances         map[string]int `json:"resistances,omitempty"`
	Weaknesses          map[string]int `json:"weaknesses,omitempty"`
	Immunities          []string       `json:"immunities,omitempty"`
	ConditionImmunities []string       `json:"condition_immunities,omitempty"`
}

// HazardPayload is shared by trigger_hazard_source and run_hazard_routine.
type HazardPayload struct {
	HazardID     string `json:"hazard_id"`
	SourceName   string `json:"source_name"`
	SourceType   string `json:"source_type,omitempty"`
	CenterX      *int   `json:"center_x,omitempty"`
	CenterY      *int   `json:"center_y,omitempty"`
	Target       string `json:"target,omitempty"`
	ModelPath    string `json:"model_path,omitempty"`
	TargetPolicy string `json:"target_policy,omitempty"`

	// resolvedDescriptors is the effects list the orchestrator looked up
	// from the effect-model catalog for (HazardID, SourceName, SourceType)
	// before constructing the command. The reducer stays pure: it never
	// performs catalog IO itself, only consumes what the orchestrator
	// already resolved.
	resolvedDescriptors []EffectDescriptor
}

// WithResolvedDescriptors attaches the orchestrator's catalog lookup result
// to a hazard command payload.
func (p *HazardPayload) WithResolvedDescriptors(descriptors []EffectDescriptor) *HazardPayload {
	p.resolvedDescriptors = descriptors
	return p
}

// Command is the tagged-variant dispatch input: Actor plus exactly one
// populated payload matching Type. Every variant must be handled in
// Apply's switch; a type without a case falls to the default branch and is
// rejected with a CodeUnknownCommand ReductionError, which is this
// codebase's stand-in for the "compile-time exhaustiveness"
// design note since Go has no sum types.
type Command struct {
	Actor string
	Type  CommandType

	Move            *MovePayload
	Strike          *StrikePayload
	CastSpell       *SaveBasedPayload
	SaveDamage      *SaveBasedPayload
	AreaSaveDamage  *AreaSaveDamagePayload
	ApplyEffect     *ApplyEffectPayload
	UseFeat         *FeatItemPayload
	UseItem         *FeatItemPayload
	Interact        *InteractPayload
	SetFlag         *SetFlagPayload
	SpawnUnit       *SpawnUnitPayload
	TriggerHazard   *HazardPayload
	RunHazardRoutine *HazardPayload
}
