// Package orchestrator runs the scenario loop: it interleaves mission
// events, hazard routines, scripted commands, and enemy-policy decisions,
// invoking the reducer for each, evaluating objectives after every
// invocation, and finishing with a canonicalized, hashed event log.
// Grounded on the teacher's world tick loop shape (a single-threaded,
// synchronous step function with a step counter distinct from any
// per-entity sequence), generalized from a real-time fixed-tick simulation
// to a turn-based, priority-ordered scenario driver.
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
	"tactics-engine/internal/telemetry"
	"tactics-engine/logging"
)

// Config tunes the loop's stop conditions and optional diagnostic telemetry.
type Config struct {
	EnginePhase  int
	MaxSteps     int
	TickWarnStep int

	// Publisher receives diagnostic lifecycle/combat/status-effect
	// telemetry (see telemetry.go); nil disables it entirely. Telemetry
	// never feeds back into the engine and never affects the replay hash.
	Publisher logging.Publisher
	Ctx       context.Context

	// Logger and Metrics are the small adapter seams callers depend on
	// instead of a concrete *log.Logger/*logging.Metrics; either may be
	// nil, in which case Run skips the corresponding diagnostic.
	Logger  telemetry.Logger
	Metrics telemetry.Metrics
}

// StopReason names why the loop terminated.
type StopReason string

const (
	StopScriptExhausted StopReason = "script_exhausted"
	StopMaxSteps        StopReason = "max_steps"
	StopBattleEnd       StopReason = "battle_end"
	StopCommandError    StopReason = "command_error"
)

// FinalStateSnapshot is the trimmed battle-state view the result surfaces.
type FinalStateSnapshot struct {
	BattleID   string                    `json:"battle_id"`
	Round      int                       `json:"round"`
	ActiveUnit string                    `json:"active_unit"`
	Units      map[string]*battle.Unit  `json:"units"`
	Flags      map[string]bool          `json:"flags"`
}

// ScenarioResult is the orchestrator's output per §4.14/§6.
type ScenarioResult struct {
	BattleID            string             `json:"battle_id"`
	Seed                uint32             `json:"seed"`
	EnginePhase         int                `json:"engine_phase"`
	ExecutedCommands    int                `json:"executed_commands"`
	AutoExecutedCommands int               `json:"auto_executed_commands"`
	StopReason          StopReason         `json:"stop_reason"`
	EventCount          int                `json:"event_count"`
	ReplayHash          string             `json:"replay_hash"`
	FinalState          FinalStateSnapshot `json:"final_state"`
	ContentPackContext  string             `json:"content_pack_context,omitempty"`
	Events              []eventlog.Event   `json:"events"`
}

// Run drives the scenario loop to completion.
func Run(doc *scenario.Document, pack *contentpack.Pack, catalog *effectmodel.Catalog, cfg Config) (*ScenarioResult, error) {
	state, err := scenario.Assemble(doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: assemble: %w", err)
	}
	r := rng.New(state.Seed)

	ctx := cfg.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	loop := &loop{
		state:        state,
		rng:          r,
		doc:          doc,
		pack:         pack,
		catalog:      catalog,
		cfg:          cfg,
		scriptCursor: 0,
		missionFired: make(map[string]bool),
		hazardFired:  make(map[string]int),
		hazardTurnFired: make(map[string]bool),
		pub:          cfg.Publisher,
		ctx:          ctx,
	}
	loop.prepare()
	publishBattleStarted(ctx, cfg.Publisher, state.Seed, cfg.EnginePhase)
	if cfg.Logger != nil {
		cfg.Logger.Printf("orchestrator: battle %s starting seed=%d engine_phase=%d", state.BattleID, state.Seed, cfg.EnginePhase)
	}
	if cfg.Metrics != nil {
		cfg.Metrics.Add("orchestrator.battles_started", 1)
	}

	maxSteps := cfg.MaxSteps
	if maxSteps <= 0 {
		maxSteps = len(doc.Commands) + 1000
	}

	stop := StopScriptExhausted
stepping:
	for step := 0; step < maxSteps; step++ {
		if loop.checkObjectives() {
			stop = StopBattleEnd
			break stepping
		}

		if loop.runEligibleMissionEvent() {
			if loop.fatalErr != nil {
				stop = StopCommandError
				break stepping
			}
			continue
		}
		if loop.runEligibleHazardRoutine() {
			if loop.fatalErr != nil {
				stop = StopCommandError
				break stepping
			}
			continue
		}

		cmd, auto, fromPolicy, ok := loop.nextCommand()
		if !ok {
			stop = StopScriptExhausted
			break stepping
		}
		if !auto {
			loop.scriptCursor++
		}

		actorID, _ := cmd["actor"].(string)
		if err := loop.dispatch(cmd); err != nil {
			if fromPolicy {
				retryCmd := map[string]any{"actor": actorID, "type": "end_turn"}
				if retryErr := loop.dispatch(retryCmd); retryErr == nil {
					loop.autoExecuted++
					loop.executed++
					continue
				}
			}
			loop.emitCommandError(cmd, err)
			stop = StopCommandError
			break stepping
		}
		if auto {
			loop.autoExecuted++
		}
		loop.executed++
		if fromPolicy {
			loop.autoEndTurnAfterPolicy(actorID)
		}

		if loop.checkObjectives() {
			stop = StopBattleEnd
			break stepping
		}
	}
	if stop == StopScriptExhausted && loop.executed+loop.autoExecuted >= maxSteps {
		stop = StopMaxSteps
	}

	hash, err := eventlog.ReplayHash(loop.events)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: replay hash: %w", err)
	}
	publishBattleEnded(ctx, cfg.Publisher, loop.state.RoundNumber, stop, len(loop.events))
	if cfg.Logger != nil {
		cfg.Logger.Printf("orchestrator: battle %s stopped reason=%s executed=%d events=%d", state.BattleID, stop, loop.executed, len(loop.events))
	}
	if cfg.Metrics != nil {
		cfg.Metrics.Store("orchestrator.last_event_count", uint64(len(loop.events)))
		if stop == StopCommandError {
			cfg.Metrics.Add("orchestrator.command_errors", 1)
		}
	}

	contentContext := ""
	if pack != nil {
		contentContext = pack.PackID
	}

	return &ScenarioResult{
		BattleID:             state.BattleID,
		Seed:                 state.Seed,
		EnginePhase:          cfg.EnginePhase,
		ExecutedCommands:     loop.executed,
		AutoExecutedCommands: loop.autoExecuted,
		StopReason:           stop,
		EventCount:           len(loop.events),
		ReplayHash:           hash,
		FinalState: FinalStateSnapshot{
			BattleID:   loop.state.BattleID,
			Round:      loop.state.RoundNumber,
			ActiveUnit: loop.state.ActiveUnitID(),
			Units:      loop.state.Units,
			Flags:      loop.state.Flags,
		},
		ContentPackContext: contentContext,
		Events:             loop.events,
	}, nil
}
