package reducer

import (
	"encoding/json"

	"tactics-engine/internal/battle"
)

// payloadInt reads a numeric field out of an opaque effect-descriptor
// payload. JSON-decoded documents hand back numbers as float64 (map[string]any
// from encoding/json never produces int), so a direct type assertion against
// int always misses; this normalizes both encodings callers might see.
func payloadInt(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// payloadStringSlice reads a string-list field out of an opaque payload.
// JSON arrays decode to []any, not []string, so this re-types each element.
func payloadStringSlice(payload map[string]any, key string) []string {
	raw, ok := payload[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// payloadStages decodes an affliction descriptor's "stages" field into
// battle.AfflictionStage values. It arrives as []any (each element
// map[string]any) when the descriptor came off the wire, so this round-trips
// through encoding/json rather than asserting the concrete type directly.
func payloadStages(payload map[string]any) []battle.AfflictionStage {
	raw, ok := payload["stages"]
	if !ok {
		return nil
	}
	body, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var stages []battle.AfflictionStage
	if err := json.Unmarshal(body, &stages); err != nil {
		return nil
	}
	return stages
}
