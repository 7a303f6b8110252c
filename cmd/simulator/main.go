package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/lifelinesims/lifeline-simulator/core"
	"github.com/lifelinesims/lifeline-simulator/internal/config"
	"github.com/lifelinesims/lifeline-simulator/internal/logging"
	"github.com/lifelinesims/lifeline-simulator/internal/observability"
	"github.com/lifelinesims/lifeline-simulator/kb"
	"github.com/lifelinesims/lifeline-simulator/model"
	"github.com/lifelinesims/lifeline-simulator/timegrid"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML simulation config; defaults apply when empty")
	scenarioPath := flag.String("scenario", "", "disruption scenario CSV (overrides the config)")
	depsPath := flag.String("deps", "", "cross-domain dependency CSV (overrides the config)")
	order := flag.String(
		"order",
		"",
		"comma-separated repair order; when empty the optimizer searches for one",
	)
	metricsListen := flag.String("metrics-listen", "", "address for the Prometheus /metrics endpoint (disabled when empty)")

	flag.Parse()

	log := logging.NewFromEnv()
	ctx := logging.ContextWithLogger(context.Background(), log)

	if err := run(ctx, log, *configPath, *scenarioPath, *depsPath, *order, *metricsListen); err != nil {
		log.Error(ctx, "simulation failed", logging.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, log logging.Logger, configPath, scenarioPath, depsPath, order, metricsListen string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if scenarioPath != "" {
		cfg.ScenarioFile = scenarioPath
	}
	if depsPath != "" {
		cfg.DependencyFile = depsPath
	}

	shutdown, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdown, log)

	collector, err := observability.NewSimCollector(nil)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	if metricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(metricsListen, mux); err != nil {
				log.Warn(ctx, "metrics listener stopped", logging.String("error", err.Error()))
			}
		}()
		log.Info(ctx, "metrics endpoint up", logging.String("addr", metricsListen))
	}

	net, err := buildDemoNetwork(cfg, log)
	if err != nil {
		return err
	}

	if cfg.ScenarioFile != "" && cfg.DependencyFile != "" {
		if err := net.Load(cfg.ScenarioFile, cfg.DependencyFile); err != nil {
			return err
		}
	} else {
		log.Info(ctx, "no scenario files configured; using the built-in demo disruptions")
		net.SetDisruptedComponents(demoDisruptions())
	}

	if err := net.GenerateGraph(); err != nil {
		return err
	}
	if err := net.GenerateDependencies(); err != nil {
		return err
	}
	collector.SetScenarioCounts(len(net.DisruptedIDs()), len(net.Deps.Couplings()))

	repairOrder, err := resolveOrder(ctx, log, collector, cfg, net, order)
	if err != nil {
		return err
	}
	log.Info(ctx, "repair order settled", logging.String("order", strings.Join(repairOrder, ",")))

	opts := core.PipelineOptions{
		AddPoints:            cfg.AddPoints,
		PatternIntervalHours: cfg.PatternIntervalHours,
	}
	tracker, err := core.RunPipeline(ctx, net.Clone(), repairOrder, opts)
	if err != nil {
		return err
	}

	waterAUC, powerAUC, err := tracker.AUC()
	if err != nil {
		return err
	}
	collector.SetResilience(powerAUC, waterAUC)

	path, err := core.WriteResults(cfg.ResultsDir, tracker.Samples())
	if err != nil {
		return err
	}
	log.Info(ctx, "simulation complete",
		logging.String("results", path),
		logging.Any("power_auc", powerAUC),
		logging.Any("water_auc", waterAUC),
		logging.Int("samples", len(tracker.Samples())),
	)
	return nil
}

// resolveOrder turns the -order flag into a repair order, running the
// optimizer when none was supplied.
func resolveOrder(ctx context.Context, log logging.Logger, collector *observability.SimCollector, cfg config.Config, net *core.InfraNetwork, order string) ([]string, error) {
	if order != "" {
		var out []string
		for _, id := range strings.Split(order, ",") {
			if id = strings.TrimSpace(id); id != "" {
				out = append(out, id)
			}
		}
		return out, nil
	}

	opt := core.NewRepairOptimizer(core.OptimizerConfig{
		PredictionHorizon: cfg.PredictionHorizon,
		TrialTimeout:      cfg.TrialTimeout(),
		Workers:           cfg.Workers,
		Pipeline: core.PipelineOptions{
			AddPoints:            cfg.AddPoints,
			PatternIntervalHours: cfg.PatternIntervalHours,
		},
	}, log, collector)
	return opt.FindOptimalRecovery(ctx, net)
}

// buildDemoNetwork assembles a small three-domain network over the fake
// solvers: a generator and a pump motor feeding two pumps, a pre-split
// pipe, a tank, and a handful of road nodes. Real deployments swap the
// fakes for the external hydraulic and power-flow solvers.
func buildDemoNetwork(cfg config.Config, log logging.Logger) (*core.InfraNetwork, error) {
	store := kb.NewStore()
	for _, n := range []*model.Node{
		{ID: "P_N1", Domain: model.DomainPower, X: 0, Y: 0},
		{ID: "P_N2", Domain: model.DomainPower, X: 8, Y: 2},
		{ID: "W_N1", Domain: model.DomainWater, X: 3, Y: 5},
		{ID: "W_N2", Domain: model.DomainWater, X: 12, Y: 4},
		{ID: "W_N3", Domain: model.DomainWater, X: 18, Y: 1},
		{ID: "T_N1", Domain: model.DomainTransportation, X: 1, Y: 1},
		{ID: "T_N2", Domain: model.DomainTransportation, X: 10, Y: 3},
		{ID: "T_N3", Domain: model.DomainTransportation, X: 17, Y: 2},
	} {
		if err := store.AddNode(n); err != nil {
			return nil, fmt.Errorf("demo network: %w", err)
		}
	}
	for comp, node := range map[string]string{
		"P_G1":   "P_N1",
		"P_MP1":  "P_N2",
		"W_WP1":  "W_N1",
		"W_WP2":  "W_N2",
		"W_PMA1": "W_N2",
		"W_T1":   "W_N3",
	} {
		if err := store.BindComponent(comp, node); err != nil {
			return nil, fmt.Errorf("demo network: %w", err)
		}
	}

	power := core.NewFakePowerSolver(
		map[string]float64{"P_G1": 80},
		map[string]float64{"P_MP1": 20},
	)
	water := core.NewFakeWaterSolver(
		map[string][]float64{
			"W_J1": {40, 60, 80, 60},
			"W_J2": {20, 30, 40, 30},
		},
		map[string]float64{"W_PMA1": 1.5},
		cfg.PatternIntervalHours,
	)
	travel := core.NewFakeTravelEstimator(15)
	travel.SetMinutes("T_N1", "T_N2", 20)
	travel.SetMinutes("T_N2", "T_N3", 25)
	travel.SetMinutes("T_N1", "T_N3", 40)

	grid, err := timegrid.New(cfg.StepSeconds)
	if err != nil {
		return nil, err
	}

	offices := map[model.Domain]string{
		model.DomainPower:          "T_N1",
		model.DomainWater:          "T_N2",
		model.DomainTransportation: "T_N1",
	}
	for domain, node := range cfg.CrewOffices {
		offices[model.Domain(domain)] = node
	}

	net, err := core.NewInfraNetwork(core.NetworkParams{
		Store:   store,
		Power:   power,
		Water:   water,
		Travel:  travel,
		Grid:    grid,
		Offices: offices,
		Log:     log,
	})
	if err != nil {
		return nil, err
	}

	// The demo coupling: the motor on P_N2 drives the pump on W_N1.
	net.SetCouplingRows([][2]string{{"P_MP1", "W_WP1"}})
	return net, nil
}

func demoDisruptions() []model.DisruptionRow {
	return []model.DisruptionRow{
		{Time: 0, ComponentID: "P_MP1", FailPercent: 100},
		{Time: 0, ComponentID: "W_PMA1", FailPercent: 60},
		{Time: 600, ComponentID: "W_T1", FailPercent: 40},
	}
}
