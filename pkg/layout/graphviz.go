package layout

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/dot"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/graph"
)

// Graphviz runs the Graphviz binaries as subprocesses. Layout uses dot,
// rendering uses neato -n2 so that the positions computed by Layout (and
// the stitched edge paths) are drawn as they are.
type Graphviz struct {
	dotPath   string
	neatoPath string
	timeout   time.Duration
	log       *zap.SugaredLogger
	parser    *dot.Parser
}

// Option configures a Graphviz engine.
type Option func(*Graphviz)

// WithBinaries overrides the dot and neato executables.
func WithBinaries(dotPath, neatoPath string) Option {
	return func(g *Graphviz) {
		if dotPath != "" {
			g.dotPath = dotPath
		}
		if neatoPath != "" {
			g.neatoPath = neatoPath
		}
	}
}

// WithTimeout bounds every subprocess call. Zero means no limit beyond the
// caller's context.
func WithTimeout(d time.Duration) Option {
	return func(g *Graphviz) { g.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(g *Graphviz) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGraphviz returns an engine using "dot" and "neato" from PATH.
func NewGraphviz(opts ...Option) (*Graphviz, error) {
	p, err := dot.NewParser()
	if err != nil {
		return nil, err
	}
	g := &Graphviz{
		dotPath:   "dot",
		neatoPath: "neato",
		log:       zap.NewNop().Sugar(),
		parser:    p,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.log = g.log.With("engine", "graphviz")
	return g, nil
}

// AssertReady checks that both binaries can be found.
func (g *Graphviz) AssertReady() error {
	for _, bin := range []string{g.dotPath, g.neatoPath} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%w: missing required binary %q in PATH: %w", ErrEngineFailure, bin, err)
		}
	}
	return nil
}

// Layout runs "dot -Tdot" and reads the laid-out graph back.
func (g *Graphviz) Layout(ctx context.Context, in *graph.Graph) (*graph.Graph, error) {
	out, err := g.run(ctx, g.dotPath, []string{"-Tdot"}, in.String())
	if err != nil {
		return nil, err
	}
	laid, err := g.parser.ParseString(string(out))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s output: %w", ErrEngineFailure, g.dotPath, err)
	}
	return laid, nil
}

// Render runs "neato -n2 -T<format>". The "gv" format returns the graph as
// DOT text.
func (g *Graphviz) Render(ctx context.Context, in *graph.Graph, format string) ([]byte, error) {
	if format == "gv" {
		format = "dot"
	}
	return g.run(ctx, g.neatoPath, []string{"-n2", "-T" + format}, in.String())
}

func (g *Graphviz) run(ctx context.Context, bin string, args []string, input string) ([]byte, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = strings.NewReader(input)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		g.log.Warnw("graphviz failed", "bin", bin, "args", args, "stderr", stderr.String())
		return nil, fmt.Errorf("%w: %s %s failed: %w; out=%s",
			ErrEngineFailure, bin, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	if stderr.Len() > 0 {
		g.log.Debugw("graphviz warnings", "bin", bin, "stderr", stderr.String())
	}
	g.log.Debugw("graphviz done", "bin", bin, "args", args, "bytes", stdout.Len(), "elapsed", time.Since(start))
	return stdout.Bytes(), nil
}
