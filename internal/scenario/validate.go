package scenario

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ValidationError aggregates every shape violation found in a scenario
// document, mirroring the teacher's catalog.Resolver.Reload wrapping style
// ("catalog: ...: %w") but collecting every failure instead of stopping at
// the first, since §7 requires "a specific message" surfaced as a whole.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("scenario: invalid: %s", e.Issues[0])
	}
	return fmt.Sprintf("scenario: invalid (%d issues): %s", len(e.Issues), e.Issues[0])
}

func (e *ValidationError) add(format string, args ...any) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, args...))
}

// allowedCommandFields are the strict-shape field sets validation enforces
// via the generic "unknown fields are rejected" rule in §6. Rather than
// reflect every command's typed struct (the reducer's Command type is an
// internal dispatch shape, not the wire shape), the validator checks the
// JSON document directly against the per-command-type field allowlist.
var allowedCommandFields = map[string]map[string]bool{
	"move":                  setOf("actor", "type", "x", "y"),
	"strike":                setOf("actor", "type", "target", "emit_forecast"),
	"end_turn":              setOf("actor", "type"),
	"cast_spell":            setOf("actor", "type", "spell_id", "target", "dc", "save_type", "damage", "action_cost", "damage_type", "damage_bypass", "mode", "content_entry_id"),
	"save_damage":           setOf("actor", "type", "target", "dc", "save_type", "damage", "action_cost", "damage_type", "damage_bypass", "mode"),
	"area_save_damage":      setOf("actor", "type", "center_x", "center_y", "radius_feet", "include_actor", "save_type", "dc", "damage", "mode", "damage_type", "damage_bypass"),
	"apply_effect":          setOf("actor", "type", "target", "effect_kind", "payload", "duration_rounds", "tick_timing"),
	"use_feat":              setOf("actor", "type", "feat_id", "target", "effect_kind", "payload", "duration_rounds", "tick_timing", "action_cost", "content_entry_id"),
	"use_item":              setOf("actor", "type", "item_id", "target", "effect_kind", "payload", "duration_rounds", "tick_timing", "action_cost", "content_entry_id"),
	"interact":              setOf("actor", "type", "interact_id", "target", "effect_kind", "payload", "duration_rounds", "tick_timing", "flag", "value", "action_cost"),
	"set_flag":              setOf("actor", "type", "flag", "value"),
	"spawn_unit":            setOf("actor", "type", "unit", "placement_policy", "spend_action"),
	"trigger_hazard_source": setOf("actor", "type", "hazard_id", "source_name", "source_type", "center_x", "center_y", "target", "model_path"),
	"run_hazard_routine":    setOf("actor", "type", "hazard_id", "source_name", "source_type", "center_x", "center_y", "target", "model_path", "target_policy"),
}

func setOf(fields ...string) map[string]bool {
	out := make(map[string]bool, len(fields))
	for _, f := range fields {
		out[f] = true
	}
	return out
}

// Validate performs the strict-shape checks required keys, types, and
// unknown-field rejection for a raw scenario JSON document.
func Validate(raw []byte) (*Document, error) {
	verr := &ValidationError{}

	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		verr.add("malformed JSON: %v", err)
		return nil, verr
	}

	requiredTopLevel := []string{"battle_id", "seed", "map", "units"}
	for _, key := range requiredTopLevel {
		if _, ok := generic[key]; !ok {
			verr.add("missing required top-level key %q", key)
		}
	}

	var doc Document
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		verr.add("unknown or malformed field: %v", err)
	}

	if doc.BattleID == "" {
		verr.add("battle_id must be non-empty")
	}
	if doc.Map.Width <= 0 || doc.Map.Height <= 0 {
		verr.add("map width and height must both be positive")
	}
	if len(doc.Units) == 0 {
		verr.add("units must be non-empty")
	}

	seenUnitIDs := make(map[string]bool, len(doc.Units))
	for i, u := range doc.Units {
		if u.ID == "" {
			verr.add("units[%d]: id must be non-empty", i)
			continue
		}
		if seenUnitIDs[u.ID] {
			verr.add("units[%d]: duplicate unit id %q", i, u.ID)
		}
		seenUnitIDs[u.ID] = true
		if u.HP <= 0 {
			verr.add("units[%d] (%s): hp must be positive", i, u.ID)
		}
		if u.Team == "" {
			verr.add("units[%d] (%s): team must be non-empty", i, u.ID)
		}
	}

	for i, raw := range doc.Commands {
		typeName, _ := raw["type"].(string)
		allowed, known := allowedCommandFields[typeName]
		if !known {
			verr.add("commands[%d]: unknown command type %q", i, typeName)
			continue
		}
		for field := range raw {
			if !allowed[field] {
				verr.add("commands[%d] (%s): unknown field %q", i, typeName, field)
			}
		}
	}

	if len(doc.ContentPacks) > 1 && doc.ContentPackID == "" {
		verr.add("content_pack_id is required when multiple content_packs are listed")
	}

	if len(verr.Issues) > 0 {
		return nil, verr
	}
	return &doc, nil
}
