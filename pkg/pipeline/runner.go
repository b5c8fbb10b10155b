// Package pipeline orchestrates the full analysis flow: detection
// ingest, graph assembly, validation, and export document building.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oxbow-labs/diagraph/pkg/assemble"
	"github.com/oxbow-labs/diagraph/pkg/detect"
	"github.com/oxbow-labs/diagraph/pkg/export"
	"github.com/oxbow-labs/diagraph/pkg/graph"
	"github.com/oxbow-labs/diagraph/pkg/logging"
	"github.com/oxbow-labs/diagraph/pkg/metrics"
	"github.com/oxbow-labs/diagraph/pkg/validate"
)

// Options configures a Runner.
type Options struct {
	Assemble   assemble.Options
	Validate   validate.Options
	Vocabulary detect.Vocabulary
	Logger     logging.Logger
	Metrics    *metrics.Registry
}

// Stats summarizes one analysis run.
type Stats struct {
	Nodes     int           `json:"nodes"`
	Edges     int           `json:"edges"`
	Junctions int           `json:"junctions"`
	Issues    int           `json:"issues"`
	Duration  time.Duration `json:"duration_ns"`
}

// Result is the output of one analysis run.
type Result struct {
	ID        string           `json:"id"`
	CreatedAt time.Time        `json:"created_at"`
	Graph     *graph.Graph     `json:"-"`
	Document  *export.Document `json:"document"`
	Stats     Stats            `json:"stats"`
}

// Runner executes analysis runs. It is stateless and safe for
// concurrent use.
type Runner struct {
	opts Options
}

// NewRunner creates a runner, filling unset options with defaults.
func NewRunner(opts Options) *Runner {
	if opts.Vocabulary == nil {
		opts.Vocabulary = detect.DefaultVocabulary()
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}
	return &Runner{opts: opts}
}

// Run assembles and validates the graph for one detection set. The
// returned Result carries both the graph and its export document.
func (r *Runner) Run(ctx context.Context, set *detect.Set) (*Result, error) {
	runID := uuid.NewString()
	log := r.opts.Logger.With(logging.RunID(runID), logging.Component("pipeline"))
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := set.Validate(); err != nil {
		r.opts.Metrics.RecordRun("error", time.Since(start), 0, 0, 0)
		log.Error("detection set rejected", logging.Err(err))
		return nil, fmt.Errorf("invalid detection set: %w", err)
	}

	symbols, lines, texts, err := r.stagedInputs(log, set)
	if err != nil {
		r.opts.Metrics.RecordRun("error", time.Since(start), 0, 0, 0)
		return nil, err
	}

	stageStart := time.Now()
	g, err := assemble.NewBuilder(r.opts.Assemble).Assemble(symbols, lines, texts)
	if err != nil {
		r.opts.Metrics.RecordRun("error", time.Since(start), 0, 0, 0)
		log.Error("assembly failed", logging.Err(err))
		return nil, fmt.Errorf("assemble graph: %w", err)
	}
	r.opts.Metrics.RecordStage("assemble", time.Since(stageStart))
	log.Info("graph assembled",
		logging.Stage("assemble"),
		logging.Int("nodes", len(g.Nodes)),
		logging.Int("edges", len(g.Edges)),
		logging.Duration("elapsed", time.Since(stageStart)))

	stageStart = time.Now()
	g.Issues = validate.Validate(g, r.opts.Validate)
	r.opts.Metrics.RecordStage("validate", time.Since(stageStart))
	for _, issue := range g.Issues {
		r.opts.Metrics.RecordIssue(string(issue.Severity))
	}
	log.Info("graph validated",
		logging.Stage("validate"),
		logging.Int("issues", len(g.Issues)),
		logging.Duration("elapsed", time.Since(stageStart)))

	stageStart = time.Now()
	doc := export.FromGraph(g)
	r.opts.Metrics.RecordStage("export", time.Since(stageStart))

	junctions := 0
	for _, n := range g.Nodes {
		if n.Kind == graph.KindJunction {
			junctions++
		}
	}

	elapsed := time.Since(start)
	r.opts.Metrics.RecordRun("ok", elapsed, len(g.Nodes), len(g.Edges), junctions)
	log.Info("run complete",
		logging.Int("junctions", junctions),
		logging.Duration("elapsed", elapsed))

	return &Result{
		ID:        runID,
		CreatedAt: start.UTC(),
		Graph:     g,
		Document:  doc,
		Stats: Stats{
			Nodes:     len(g.Nodes),
			Edges:     len(g.Edges),
			Junctions: junctions,
			Issues:    len(g.Issues),
			Duration:  elapsed,
		},
	}, nil
}

func (r *Runner) stagedInputs(log logging.Logger, set *detect.Set) ([]*graph.Node, []*graph.Edge, []*graph.Text, error) {
	stageStart := time.Now()
	symbols, lines, texts, err := set.ToGraphInputs(r.opts.Vocabulary)
	if err != nil {
		log.Error("detection conversion failed", logging.Err(err))
		return nil, nil, nil, fmt.Errorf("convert detections: %w", err)
	}
	r.opts.Metrics.RecordStage("ingest", time.Since(stageStart))
	log.Info("detections ingested",
		logging.Stage("ingest"),
		logging.Int("symbols", len(symbols)),
		logging.Int("lines", len(lines)),
		logging.Int("texts", len(texts)))
	return symbols, lines, texts, nil
}
