package orchestrator

import (
	"encoding/json"
	"fmt"

	"tactics-engine/internal/reducer"
)

// decodeCommand converts a raw (already materialized) command map into the
// reducer's typed Command by round-tripping through JSON, dispatching on
// the "type" field. This is the boundary between the orchestrator's
// loosely-typed scenario JSON and the reducer's tagged-variant dispatch.
func decodeCommand(raw map[string]any) (reducer.Command, error) {
	actor, _ := raw["actor"].(string)
	typeName, _ := raw["type"].(string)
	cmd := reducer.Command{Actor: actor, Type: reducer.CommandType(typeName)}

	body, err := json.Marshal(raw)
	if err != nil {
		return cmd, fmt.Errorf("orchestrator: marshal command: %w", err)
	}

	switch cmd.Type {
	case reducer.CommandMove:
		var p reducer.MovePayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.Move = &p
	case reducer.CommandStrike:
		var p reducer.StrikePayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.Strike = &p
	case reducer.CommandEndTurn:
		// no payload
	case reducer.CommandCastSpell:
		var p reducer.SaveBasedPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.CastSpell = &p
	case reducer.CommandSaveDamage:
		var p reducer.SaveBasedPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.SaveDamage = &p
	case reducer.CommandAreaSaveDamage:
		var p reducer.AreaSaveDamagePayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.AreaSaveDamage = &p
	case reducer.CommandApplyEffect:
		var p reducer.ApplyEffectPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.ApplyEffect = &p
	case reducer.CommandUseFeat:
		var p reducer.FeatItemPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.UseFeat = &p
	case reducer.CommandUseItem:
		var p reducer.FeatItemPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.UseItem = &p
	case reducer.CommandInteract:
		var p reducer.InteractPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.Interact = &p
	case reducer.CommandSetFlag:
		var p reducer.SetFlagPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.SetFlag = &p
	case reducer.CommandSpawnUnit:
		var p reducer.SpawnUnitPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.SpawnUnit = &p
	case reducer.CommandTriggerHazardSource:
		var p reducer.HazardPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.TriggerHazard = &p
	case reducer.CommandRunHazardRoutine:
		var p reducer.HazardPayload
		if err := json.Unmarshal(body, &p); err != nil {
			return cmd, err
		}
		cmd.RunHazardRoutine = &p
	default:
		return cmd, fmt.Errorf("orchestrator: unknown command type %q", typeName)
	}

	return cmd, nil
}
