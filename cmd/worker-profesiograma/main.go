// Command worker-profesiograma runs the Temporal workers for profile
// submissions. Supports stub mode (fixtures) and production mode (SST backend).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"golang.org/x/sync/errgroup"

	"github.com/sgsst/profesiograma-go/internal/config"
	"github.com/sgsst/profesiograma-go/internal/connectors"
	"github.com/sgsst/profesiograma-go/internal/emo"
	"github.com/sgsst/profesiograma-go/internal/observability"
	"github.com/sgsst/profesiograma-go/internal/persist"
	"github.com/sgsst/profesiograma-go/internal/ratelimit"
	"github.com/sgsst/profesiograma-go/internal/temporal/activities"
	"github.com/sgsst/profesiograma-go/internal/temporal/queues"
	"github.com/sgsst/profesiograma-go/internal/temporal/workflows"
)

// Per-position activity budget.
const (
	budgetPerWindow = 30
	budgetWindow    = time.Hour
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		slog.Error("config error", "error", err)
		os.Exit(1)
	}
	logger := observability.InitLogger(cfg.LogLevel, "worker")

	shutdown, err := observability.InitTracer(context.Background(), "worker", cfg.OTelEnabled)
	if err != nil {
		logger.Error("otel init failed", "error", err)
	} else {
		defer shutdown(context.Background())
	}
	metrics, err := observability.NewMetrics()
	if err != nil {
		logger.Error("metrics init failed", "error", err)
	}

	names, err := queues.ParseQueues(cfg.TaskQueues)
	if err != nil {
		logger.Error("invalid task queues", "error", err)
		os.Exit(1)
	}

	backend, err := connectors.NewBackend(cfg, logger)
	if err != nil {
		logger.Error("backend init failed", "error", err)
		os.Exit(1)
	}

	budget := ratelimit.NewActivityBudget(budgetPerWindow, budgetWindow)
	acts := &activities.Activities{
		Suggester: emo.NewSharedSuggester(backend, cfg.EMOTimeout),
		Saver:     persist.NewSaver(backend, persist.WithBudget(budget), persist.WithLogger(logger.With("component", "persist"))),
		Budget:    budget,
		Metrics:   metrics,
		Profiles:  backend,
	}

	c, err := client.Dial(client.Options{
		Logger: observability.NewTemporalSlogAdapter(logger),
	})
	if err != nil {
		logger.Error("unable to create Temporal client", "error", err)
		os.Exit(1)
	}
	defer c.Close()

	configs := queues.DefaultConfigs()
	var g errgroup.Group
	for _, name := range names {
		qc := configs[name]
		w := worker.New(c, qc.Name, qc.Options)
		if err := register(w, qc, acts); err != nil {
			logger.Error("worker registration failed", "queue", qc.Name, "error", err)
			os.Exit(1)
		}
		g.Go(func() error {
			logger.Info("starting worker", "queue", qc.Name, "mode", cfg.Mode)
			return w.Run(worker.InterruptCh())
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("worker failed", "error", err)
		os.Exit(1)
	}
}

// register adds the workflows and activities a queue hosts.
func register(w worker.Registry, qc queues.QueueConfig, acts *activities.Activities) error {
	if qc.Workflows {
		w.RegisterWorkflow(workflows.SubmitProfileWorkflow)
	}
	for _, name := range qc.Activities {
		var fn any
		switch name {
		case activities.NameDraftEmoJustification:
			fn = acts.DraftEmoJustification
		case activities.NamePersistProfile:
			fn = acts.PersistProfile
		default:
			return fmt.Errorf("unknown activity %q", name)
		}
		w.RegisterActivityWithOptions(fn, activity.RegisterOptions{Name: name})
	}
	return nil
}
