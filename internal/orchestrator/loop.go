package orchestrator

import (
	"context"
	"fmt"

	"tactics-engine/internal/battle"
	"tactics-engine/internal/contentpack"
	"tactics-engine/internal/effectmodel"
	"tactics-engine/internal/eventlog"
	"tactics-engine/internal/reducer"
	"tactics-engine/internal/rng"
	"tactics-engine/internal/scenario"
	"tactics-engine/logging"
)

// loop holds the orchestrator's working state across steps: the battle
// state (exclusively owned here per §5), the rng (stepped only by the
// reducer), and the bookkeeping each priority tier needs.
type loop struct {
	state   *battle.BattleState
	rng     *rng.Source
	doc     *scenario.Document
	pack    *contentpack.Pack
	catalog *effectmodel.Catalog
	cfg     Config

	missionEvents  []missionEvent
	hazardRoutines []hazardRoutine
	objectives     []objective

	scriptCursor int
	executed     int
	autoExecuted int

	// missionFired tracks "round:turn_index:mission_id" keys already
	// consumed, enforcing at-most-once-per-turn semantics.
	missionFired map[string]bool

	// hazardFired counts total triggers per routine id (max_triggers gate).
	hazardFired map[string]int
	// hazardTurnFired tracks "round:turn_index:routine_id" to prevent a
	// routine firing twice within the same unit's turn.
	hazardTurnFired map[string]bool

	lastObjectiveStatuses map[string]bool

	// initialTeams records every team present at battle start; the
	// sole-surviving-team fallback only applies when combat started with
	// more than one team, so a single-team scenario with no scripted
	// objectives doesn't end the battle before any command runs.
	initialTeams map[string]bool

	stepCounter int
	events      []eventlog.Event

	// pub/ctx drive the diagnostic telemetry bridge (logging/lifecycle,
	// logging/combat, logging/status_effects); both are nil-safe, leaving
	// telemetry off by default.
	pub logging.Publisher
	ctx context.Context

	// fatalErr is set when a command dispatched from within a mission event
	// or hazard routine branch fails; the main loop checks it after each
	// such tier and terminates with stop_reason=command_error.
	fatalErr error
}

// prepare decodes the document's loosely-typed JSON blocks (mission events,
// hazard routines, objectives/objective packs, enemy policy) into the
// orchestrator's working structs.
func (l *loop) prepare() {
	l.missionEvents = decodeMissionEvents(l.doc.MissionEvents)
	l.missionEvents = append(l.missionEvents, compileReinforcementWaves(l.doc.ReinforcementWaves)...)

	l.hazardRoutines = decodeHazardRoutines(l.doc.HazardRoutines)

	l.objectives = decodeObjectives(l.doc.Objectives)
	l.objectives = append(l.objectives, expandObjectivePacks(l.doc.ObjectivePacks)...)

	l.lastObjectiveStatuses = make(map[string]bool, len(l.objectives))

	l.initialTeams = make(map[string]bool)
	for _, u := range l.state.Units {
		l.initialTeams[u.Team] = true
	}
}

// nextStepID mints an orchestrator-emitted event id with the given prefix
// and a zero-padded step counter distinct from the reducer's event_sequence,
// per §4.15.
func (l *loop) nextStepID(prefix string) string {
	l.stepCounter++
	return fmt.Sprintf("%s%06d", prefix, l.stepCounter)
}

// emitOrchestratorEvent appends an orchestrator-originated event (as
// opposed to a reducer-originated one, which already carries its own id).
func (l *loop) emitOrchestratorEvent(prefix, eventType string, payload map[string]any) {
	l.events = append(l.events, eventlog.Event{
		EventID:    l.nextStepID(prefix),
		Round:      l.state.RoundNumber,
		ActiveUnit: l.state.ActiveUnitID(),
		Type:       eventType,
		Payload:    payload,
	})
}

// dispatch materializes content-entry fields (if any), decodes the raw
// command into the reducer's typed Command, resolves hazard-source
// descriptors from the effect-model catalog when needed, and invokes the
// reducer, appending its events and replacing the working state.
func (l *loop) dispatch(raw map[string]any) error {
	if l.pack != nil {
		materialized, err := l.pack.Materialize(raw)
		if err != nil {
			return err
		}
		raw = materialized
	}

	cmd, err := decodeCommand(raw)
	if err != nil {
		return err
	}

	if cmd.Type == reducer.CommandTriggerHazardSource || cmd.Type == reducer.CommandRunHazardRoutine {
		if err := l.resolveHazardDescriptors(&cmd); err != nil {
			return err
		}
	}

	next, events, err := reducer.Apply(l.state, cmd, l.rng)
	if err != nil {
		return err
	}
	l.state = next
	l.events = append(l.events, events...)
	l.publishDelta(events)
	return nil
}

func (l *loop) resolveHazardDescriptors(cmd *reducer.Command) error {
	p := cmd.TriggerHazard
	if cmd.Type == reducer.CommandRunHazardRoutine {
		p = cmd.RunHazardRoutine
	}
	if l.catalog == nil {
		return fmt.Errorf("orchestrator: no effect-model catalog loaded for hazard source (%s,%s,%s)", p.HazardID, p.SourceName, p.SourceType)
	}
	descriptors, _, ok := l.catalog.Lookup(p.HazardID, p.SourceName, p.SourceType)
	if !ok {
		return fmt.Errorf("orchestrator: unknown hazard source (%s,%s,%s)", p.HazardID, p.SourceName, p.SourceType)
	}
	resolved := make([]reducer.EffectDescriptor, len(descriptors))
	copy(resolved, descriptors)
	p = p.WithResolvedDescriptors(resolved)
	if cmd.Type == reducer.CommandTriggerHazardSource {
		cmd.TriggerHazard = p
	} else {
		cmd.RunHazardRoutine = p
	}
	return nil
}

// emitCommandError appends a command_error event describing the offending
// raw command and the reduction failure.
func (l *loop) emitCommandError(raw map[string]any, err error) {
	l.emitOrchestratorEvent("ev_error_", "command_error", map[string]any{
		"command": raw,
		"message": err.Error(),
	})
}

// nextCommand returns the next scripted command, or an enemy-policy
// decision once the script is exhausted, per priority tier 3. fromPolicy
// reports whether the command came from the enemy policy (which gets a
// one-shot end_turn retry on dispatch failure, per §7).
func (l *loop) nextCommand() (cmd map[string]any, auto, fromPolicy, ok bool) {
	if l.scriptCursor < len(l.doc.Commands) {
		return l.doc.Commands[l.scriptCursor], false, false, true
	}
	if c, hit := l.decideEnemyPolicy(); hit {
		return c, true, true, true
	}
	return nil, false, false, false
}

// autoEndTurnAfterPolicy emits an end_turn if the enemy policy's
// auto_end_turn option is set, the actor is still active, and still alive.
func (l *loop) autoEndTurnAfterPolicy(actorID string) {
	policy, ok := l.decodeEnemyPolicy()
	if !ok || !policy.AutoEndTurn {
		return
	}
	if l.state.ActiveUnitID() != actorID {
		return
	}
	u, alive := l.state.Units[actorID]
	if !alive || !u.Alive() {
		return
	}
	cmd := map[string]any{"actor": actorID, "type": "end_turn"}
	if err := l.dispatch(cmd); err == nil {
		l.autoExecuted++
	}
}
