// Package layout is the port to the external graph layout engine.
package layout

import (
	"context"
	"errors"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/graph"
)

// ErrEngineFailure is returned when the engine fails or returns geometry
// that cannot be used.
var ErrEngineFailure = errors.New("layout: engine failure")

// Engine lays out and renders graphs.
type Engine interface {
	// Layout returns a copy of g in which every edge carries its path and
	// every node its position. Edge attributes are kept.
	Layout(ctx context.Context, g *graph.Graph) (*graph.Graph, error)

	// Render draws a graph whose geometry is already fixed. Format is an
	// output format such as "svg", "png", "pdf" or "gv".
	Render(ctx context.Context, g *graph.Graph, format string) ([]byte, error)
}
