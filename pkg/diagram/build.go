package diagram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/graph"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/harness"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/layout"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/stitch"
)

// Builder draws harnesses with a layout engine.
type Builder struct {
	engine layout.Engine
	log    *zap.SugaredLogger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// NewBuilder returns a builder using engine for layout.
func NewBuilder(engine layout.Engine, opts ...Option) *Builder {
	b := &Builder{engine: engine, log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build describes h, lays it out and stitches the wires. The returned graph
// has fixed node positions and edge paths and is meant to be rendered with
// "neato -n2". On any error nothing is returned.
func (b *Builder) Build(ctx context.Context, h *harness.Harness) (*graph.Graph, error) {
	desc, err := Describe(h)
	if err != nil {
		return nil, err
	}
	b.log.Debugw("diagram described",
		"nodes", len(desc.Graph.Nodes), "edges", len(desc.Graph.Edges), "wires", len(desc.Tags))

	laid, err := b.engine.Layout(ctx, desc.Graph)
	if err != nil {
		if !errors.Is(err, layout.ErrEngineFailure) {
			err = fmt.Errorf("%w: %w", layout.ErrEngineFailure, err)
		}
		return nil, err
	}
	if laid == nil {
		return nil, fmt.Errorf("%w: engine returned no graph", layout.ErrEngineFailure)
	}
	if err := checkTags(desc, laid); err != nil {
		return nil, err
	}

	edges, err := stitch.Stitch(laid.Edges)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", layout.ErrEngineFailure, err)
	}

	out := graph.New("")
	out.Attrs = graph.Attributes{"rankdir": "LR", "outputorder": "nodesfirst"}
	if bb, ok := laid.Attrs["bb"]; ok {
		out.Attrs["bb"] = bb
	}
	out.NodeDefaults = laid.NodeDefaults.Clone()
	delete(out.NodeDefaults, "label")
	out.Nodes = laid.Nodes
	out.Edges = edges

	b.log.Debugw("diagram built", "edges", len(edges))
	return out, nil
}

// Build is a shorthand for NewBuilder(engine).Build(ctx, h).
func Build(ctx context.Context, h *harness.Harness, engine layout.Engine) (*graph.Graph, error) {
	return NewBuilder(engine).Build(ctx, h)
}

// checkTags makes sure every tagged edge came back from the engine.
func checkTags(desc *Description, laid *graph.Graph) error {
	returned := make(map[string]bool, len(laid.Edges))
	for _, e := range laid.Edges {
		if id := e.ID(); id != "" {
			returned[id] = true
		}
	}
	for wire, ids := range desc.Tags {
		for _, id := range ids {
			if !returned[id] {
				return fmt.Errorf("%w: edge %s of wire %d missing from layout", layout.ErrEngineFailure, id, wire)
			}
		}
	}
	return nil
}
