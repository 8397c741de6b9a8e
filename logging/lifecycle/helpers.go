// Package lifecycle publishes operational telemetry about a scenario run
// starting, ending, and spawning new units mid-battle.
package lifecycle

import (
	"context"

	"tactics-engine/logging"
)

const (
	// EventBattleStarted is emitted once the orchestrator begins a scenario.
	EventBattleStarted logging.EventType = "lifecycle.battle_started"
	// EventBattleEnded is emitted once the orchestrator halts the loop.
	EventBattleEnded logging.EventType = "lifecycle.battle_ended"
	// EventUnitSpawned is emitted when spawn_unit inserts a new unit.
	EventUnitSpawned logging.EventType = "lifecycle.unit_spawned"
)

// BattleStartedPayload captures the seed and phase a scenario launched with.
type BattleStartedPayload struct {
	Seed        uint32 `json:"seed"`
	EnginePhase int    `json:"enginePhase"`
}

// BattleEndedPayload captures why the orchestrator loop stopped.
type BattleEndedPayload struct {
	StopReason string `json:"stopReason"`
	EventCount int    `json:"eventCount"`
}

// UnitSpawnedPayload captures the placement outcome for a spawned unit.
type UnitSpawnedPayload struct {
	UnitID   string `json:"unitId"`
	Policy   string `json:"placementPolicy"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

// BattleStarted publishes a battle-start event.
func BattleStarted(ctx context.Context, pub logging.Publisher, payload BattleStartedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBattleStarted,
		Severity: logging.SeverityInfo,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	})
}

// BattleEnded publishes a battle-end event.
func BattleEnded(ctx context.Context, pub logging.Publisher, round int, payload BattleEndedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBattleEnded,
		Tick:     uint64(round),
		Severity: logging.SeverityInfo,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	})
}

// UnitSpawned publishes a unit-spawn event.
func UnitSpawned(ctx context.Context, pub logging.Publisher, round int, payload UnitSpawnedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventUnitSpawned,
		Tick:     uint64(round),
		Severity: logging.SeverityInfo,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	})
}
