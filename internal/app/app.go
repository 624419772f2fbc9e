// Package app wires the grid loader, the graph executor, and the worker
// pool into a runnable application with structured logging, optional hot
// reload, and an optional metrics endpoint.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vk/taskgraph/ctxlog"
	"github.com/vk/taskgraph/dag"
	"github.com/vk/taskgraph/internal/gridfile"
	"github.com/vk/taskgraph/pool"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// New is the constructor for the main application. Logs go to logW so user
// output on outW stays machine-readable. A Config carrying an unknown log
// level or format is rejected here.
func New(outW, logW io.Writer, cfg *Config) (*App, error) {
	logger, err := newLogger(cfg, logW)
	if err != nil {
		return nil, err
	}
	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}, nil
}

// Run executes the configured grid: once-per-pass in the default mode, or
// repeatedly on file change in watch mode. It blocks until done or until
// ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if a.config.MetricsPort > 0 {
		a.startMetricsServer(a.config.MetricsPort)
	}

	p := pool.New(a.config.Workers, pool.WithLogger(a.logger))
	defer p.Stop()
	a.logger.Info("Worker pool started.", "workers", p.Workers())

	if a.config.Watch {
		return a.watch(ctx, p)
	}
	return a.loadAndRun(ctx, p)
}

// loadAndRun loads the grid file, builds the graph, and runs the configured
// number of passes over it.
func (a *App) loadAndRun(ctx context.Context, p *pool.Pool) error {
	grid, err := gridfile.Load(a.config.GridPath)
	if err != nil {
		return fmt.Errorf("load grid: %w", err)
	}

	g, err := buildGraph(grid)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	a.logger.Info("Graph built.", "nodes", g.NodeCount(), "edges", g.EdgeCount())

	for i := 0; i < a.config.Passes; i++ {
		if err := a.runPass(ctx, p, g, i); err != nil {
			return err
		}
	}
	return nil
}

// runPass executes a single pass and reports per-node results.
func (a *App) runPass(ctx context.Context, p *pool.Pool, g *dag.Graph[gridNode], pass int) error {
	logger := a.logger.With("passID", uuid.NewString(), "pass", pass)
	passCtx := ctxlog.WithLogger(ctx, logger)

	start := time.Now()
	if err := g.Execute(passCtx, p, nodeWork(g)); err != nil {
		return fmt.Errorf("pass %d: %w", pass, err)
	}
	logger.Info("Pass complete.", "duration", time.Since(start))

	for i := 0; i < g.NodeCount(); i++ {
		n, err := g.Node(dag.NodeID(i))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.outW, "%s = %d\n", n.spec.Name, n.result)
	}
	return nil
}
