// Command tacticsengine validates and runs a single scenario document to
// completion, printing its replay hash and stop reason. Grounded on the
// teacher's cmd/server/main.go (a thin flag/logger/Run wrapper, fatal on
// error), generalized from a long-running HTTP server to a one-shot batch
// runner over the scenario loop.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"tactics-engine/internal/contentpack"
	"tactics-engine/internal/effectmodel"
	"tactics-engine/internal/orchestrator"
	"tactics-engine/internal/scenario"
	"tactics-engine/internal/telemetry"
	"tactics-engine/logging"
	"tactics-engine/logging/sinks"
)

func main() {
	var (
		scenarioPath string
		contentPath  string
		modelPath    string
		enginePhase  int
		maxSteps     int
		verbose      bool
	)
	flag.StringVar(&scenarioPath, "scenario", "", "path to the scenario JSON document (required)")
	flag.StringVar(&contentPath, "content-pack", "", "path to an optional content pack JSON document")
	flag.StringVar(&modelPath, "effect-model", "", "path to an optional effect-model hazard catalog JSON document")
	flag.IntVar(&enginePhase, "engine-phase", 7, "engine phase to run under")
	flag.IntVar(&maxSteps, "max-steps", 0, "loop step cap (0 uses the default len(commands)+1000)")
	flag.BoolVar(&verbose, "verbose", false, "emit diagnostic lifecycle/combat/status-effect telemetry to stderr")
	flag.Parse()

	if scenarioPath == "" {
		log.Fatal("tacticsengine: -scenario is required")
	}

	result, err := run(scenarioPath, contentPath, modelPath, enginePhase, maxSteps, verbose)
	if err != nil {
		log.Fatalf("tacticsengine: %v", err)
	}

	fmt.Printf("battle_id=%s stop_reason=%s executed=%d auto_executed=%d events=%d replay_hash=%s\n",
		result.BattleID, result.StopReason, result.ExecutedCommands, result.AutoExecutedCommands, result.EventCount, result.ReplayHash)
}

func run(scenarioPath, contentPath, modelPath string, enginePhase, maxSteps int, verbose bool) (*orchestrator.ScenarioResult, error) {
	raw, err := os.ReadFile(scenarioPath)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	doc, err := scenario.Validate(raw)
	if err != nil {
		return nil, fmt.Errorf("validating scenario: %w", err)
	}

	var pack *contentpack.Pack
	if contentPath != "" {
		packRaw, err := os.ReadFile(contentPath)
		if err != nil {
			return nil, fmt.Errorf("reading content pack: %w", err)
		}
		pack, err = contentpack.Parse(packRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing content pack: %w", err)
		}
		if !pack.CompatibleWithPhase(enginePhase) {
			return nil, fmt.Errorf("content pack %q is not compatible with engine phase %d", pack.PackID, enginePhase)
		}
	}

	var catalog *effectmodel.Catalog
	if modelPath != "" {
		modelRaw, err := os.ReadFile(modelPath)
		if err != nil {
			return nil, fmt.Errorf("reading effect model: %w", err)
		}
		catalog, err = effectmodel.Parse(modelRaw)
		if err != nil {
			return nil, fmt.Errorf("parsing effect model: %w", err)
		}
	}

	logger := telemetry.WrapLogger(log.New(os.Stderr, "tacticsengine: ", log.LstdFlags))

	var pub logging.Publisher
	var metrics telemetry.Metrics
	if verbose {
		router, err := newStderrRouter()
		if err != nil {
			return nil, fmt.Errorf("building telemetry router: %w", err)
		}
		pub = router
		metrics = telemetry.WrapMetrics(router.Metrics())
	}

	return orchestrator.Run(doc, pack, catalog, orchestrator.Config{
		EnginePhase: enginePhase,
		MaxSteps:    maxSteps,
		Publisher:   pub,
		Ctx:         context.Background(),
		Logger:      logger,
		Metrics:     metrics,
	})
}

// newStderrRouter wires a console sink for -verbose runs, grounded on the
// teacher's logging router construction.
func newStderrRouter() (*logging.Router, error) {
	cfg := logging.DefaultConfig()
	console := sinks.NewConsoleSink(os.Stderr, logging.ConsoleConfig{Prefix: "tacticsengine"})
	return logging.NewRouter(cfg, logging.SystemClock{}, log.New(os.Stderr, "", log.LstdFlags), map[string]logging.Sink{
		"console": console,
	})
}
