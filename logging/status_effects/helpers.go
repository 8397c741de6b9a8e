// Package status_effects publishes operational telemetry about the durable
// effect lifecycle (apply, tick, expire, affliction stage changes). These
// events are diagnostic only; they are never consulted by the reducer and do
// not participate in the replay hash.
package status_effects

import (
	"context"

	"tactics-engine/logging"
)

const (
	// EventApplied is emitted when an effect is attached to a target.
	EventApplied logging.EventType = "status_effects.applied"
	// EventExpired is emitted when an effect is removed after its duration elapses.
	EventExpired logging.EventType = "status_effects.expired"
	// EventAfflictionStage is emitted when an affliction's stage changes.
	EventAfflictionStage logging.EventType = "status_effects.affliction_stage"
)

// AppliedPayload captures details about an effect application.
type AppliedPayload struct {
	EffectID     string `json:"effectId"`
	Kind         string `json:"kind"`
	SourceID     string `json:"sourceId,omitempty"`
	DurationRnds *int   `json:"durationRounds,omitempty"`
}

// ExpiredPayload captures details about an effect removal.
type ExpiredPayload struct {
	EffectID string `json:"effectId"`
	Kind     string `json:"kind"`
	Round    int    `json:"round"`
}

// AfflictionStagePayload captures a stage transition for an affliction effect.
type AfflictionStagePayload struct {
	EffectID  string `json:"effectId"`
	FromStage int    `json:"fromStage"`
	ToStage   int    `json:"toStage"`
	Removed   bool   `json:"removed"`
}

// Applied publishes an effect application event.
func Applied(ctx context.Context, pub logging.Publisher, round int, actor logging.EntityRef, target logging.EntityRef, payload AppliedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventApplied,
		Tick:     uint64(round),
		Actor:    actor,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: "status_effects",
		Payload:  payload,
		Extra:    extra,
	})
}

// Expired publishes an effect expiry event.
func Expired(ctx context.Context, pub logging.Publisher, round int, target logging.EntityRef, payload ExpiredPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventExpired,
		Tick:     uint64(round),
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: "status_effects",
		Payload:  payload,
		Extra:    extra,
	})
}

// AfflictionStage publishes an affliction stage transition event.
func AfflictionStage(ctx context.Context, pub logging.Publisher, round int, target logging.EntityRef, payload AfflictionStagePayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAfflictionStage,
		Tick:     uint64(round),
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityInfo,
		Category: "status_effects",
		Payload:  payload,
		Extra:    extra,
	})
}
