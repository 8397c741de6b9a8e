// Package combat publishes operational telemetry about strikes, saves, and
// damage resolution. These events are diagnostic only; the authoritative,
// replay-hashed record lives in the engine's own event log (see eventlog).
package combat

import (
	"context"

	"tactics-engine/logging"
)

const (
	// EventStrike is emitted when a strike command resolves.
	EventStrike logging.EventType = "combat.strike"
	// EventSave is emitted when a save-based command resolves.
	EventSave logging.EventType = "combat.save"
	// EventDamage is emitted when damage is applied to a target's pool.
	EventDamage logging.EventType = "combat.damage"
	// EventDefeat is emitted when a target's hp reaches zero.
	EventDefeat logging.EventType = "combat.defeat"
)

// StrikePayload captures the roll and outcome of a strike command.
type StrikePayload struct {
	Die         int    `json:"die"`
	Total       int    `json:"total"`
	EffectiveAC int    `json:"effectiveAc"`
	Degree      string `json:"degree"`
}

// SavePayload captures the roll and outcome of a save-based command.
type SavePayload struct {
	SaveType string  `json:"saveType"`
	Die      int     `json:"die"`
	Total    int     `json:"total"`
	DC       int     `json:"dc"`
	Degree   string  `json:"degree"`
	Multi    float64 `json:"multiplier"`
}

// DamagePayload captures the amount applied to a target's pool.
type DamagePayload struct {
	Raw      int  `json:"raw"`
	Applied  int  `json:"applied"`
	Absorbed int  `json:"absorbed"`
	Immune   bool `json:"immune"`
}

// DefeatPayload describes the context for a unit falling unconscious.
type DefeatPayload struct {
	Command string `json:"command"`
}

// Strike publishes a strike resolution event.
func Strike(ctx context.Context, pub logging.Publisher, round int, actor logging.EntityRef, target logging.EntityRef, payload StrikePayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStrike,
		Tick:     uint64(round),
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: "combat",
		Payload:  payload,
		Extra:    extra,
	})
}

// Save publishes a save resolution event.
func Save(ctx context.Context, pub logging.Publisher, round int, actor logging.EntityRef, target logging.EntityRef, payload SavePayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSave,
		Tick:     uint64(round),
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: "combat",
		Payload:  payload,
		Extra:    extra,
	})
}

// Damage publishes a damage application event.
func Damage(ctx context.Context, pub logging.Publisher, round int, target logging.EntityRef, payload DamagePayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDamage,
		Tick:     uint64(round),
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: "combat",
		Payload:  payload,
		Extra:    extra,
	})
}

// Defeat publishes a defeat event for the affected unit.
func Defeat(ctx context.Context, pub logging.Publisher, round int, target logging.EntityRef, payload DefeatPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDefeat,
		Tick:     uint64(round),
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityWarn,
		Category: "combat",
		Payload:  payload,
		Extra:    extra,
	})
}
