// Package output writes the artifacts of one harness: the laid-out graph
// source, rendered images, the BOM as TSV and an HTML page combining the
// diagram with the BOM.
package output

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/graph"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/layout"
)

// DefaultFormats are rendered when no formats are configured.
var DefaultFormats = []string{"svg", "png"}

// Writer renders and stores the artifacts of a built diagram.
type Writer struct {
	engine      layout.Engine
	formats     []string
	html        bool
	concurrency int
	log         *zap.SugaredLogger
}

// Option configures a Writer.
type Option func(*Writer)

// WithFormats sets the image formats to render, e.g. "svg", "png", "pdf".
func WithFormats(formats ...string) Option {
	return func(w *Writer) {
		w.formats = slices.Clone(formats)
	}
}

// WithHTML enables or disables the HTML page.
func WithHTML(enabled bool) Option {
	return func(w *Writer) {
		w.html = enabled
	}
}

// WithConcurrency limits how many renderer processes run at once.
func WithConcurrency(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(w *Writer) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWriter returns a writer that renders through engine.
func NewWriter(engine layout.Engine, opts ...Option) *Writer {
	w := &Writer{
		engine:      engine,
		formats:     slices.Clone(DefaultFormats),
		html:        true,
		concurrency: 4,
		log:         zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Files lists the paths Write creates for base, in writing order.
func (w *Writer) Files(base string) []string {
	files := []string{base + ".gv"}
	for _, f := range w.formats {
		files = append(files, base+"."+f)
	}
	files = append(files, base+".bom.tsv")
	if w.html {
		files = append(files, base+".html")
	}
	return files
}

// Write stores <base>.gv, one <base>.<format> per format, <base>.bom.tsv
// and, when enabled, <base>.html. Images are rendered concurrently; the
// first failure cancels the others and nothing after the graph source is
// written.
func (w *Writer) Write(ctx context.Context, base string, g *graph.Graph, items []bom.Item) error {
	if err := writeFile(base+".gv", []byte(g.String())); err != nil {
		return err
	}

	formats := slices.Clone(w.formats)
	if w.html && !slices.Contains(formats, "svg") {
		formats = append(formats, "svg")
	}
	images, err := w.render(ctx, g, formats)
	if err != nil {
		return err
	}
	for _, f := range w.formats {
		if err := writeFile(base+"."+f, images[f]); err != nil {
			return err
		}
	}

	rows := bom.List(items)
	if err := writeFile(base+".bom.tsv", []byte(bom.TSV(rows))); err != nil {
		return err
	}

	if w.html {
		var buf bytes.Buffer
		if err := WriteHTML(&buf, images["svg"], rows); err != nil {
			return err
		}
		if err := writeFile(base+".html", buf.Bytes()); err != nil {
			return err
		}
	}
	w.log.Infow("artifacts written", "base", base, "formats", w.formats, "bom_items", len(items))
	return nil
}

func (w *Writer) render(ctx context.Context, g *graph.Graph, formats []string) (map[string][]byte, error) {
	results := make([][]byte, len(formats))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.concurrency)
	for i, f := range formats {
		eg.Go(func() error {
			if egctx.Err() != nil {
				return egctx.Err()
			}
			data, err := w.engine.Render(egctx, g, f)
			if err != nil {
				return fmt.Errorf("output: render %s: %w", f, err)
			}
			w.log.Debugw("rendered", "format", f, "bytes", len(data))
			results[i] = data
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]byte, len(formats))
	for i, f := range formats {
		out[f] = results[i]
	}
	return out, nil
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	return nil
}
