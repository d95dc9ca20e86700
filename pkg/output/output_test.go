package output

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/OpenTraceLab/OpenTraceHarness/pkg/bom"
	"github.com/OpenTraceLab/OpenTraceHarness/pkg/graph"
)

const svgDoc = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN"
 "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">
<svg width="10pt" height="10pt"></svg>
`

type fakeRenderer struct {
	mu      sync.Mutex
	formats []string
	fail    string
}

func (f *fakeRenderer) Layout(_ context.Context, g *graph.Graph) (*graph.Graph, error) {
	return g, nil
}

func (f *fakeRenderer) Render(_ context.Context, _ *graph.Graph, format string) ([]byte, error) {
	f.mu.Lock()
	f.formats = append(f.formats, format)
	f.mu.Unlock()
	if format == f.fail {
		return nil, errors.New("renderer crashed")
	}
	if format == "svg" {
		return []byte(svgDoc), nil
	}
	return []byte("image/" + format), nil
}

func testItems() []bom.Item {
	return []bom.Item{
		{Name: "Connector, 2 pins", Qty: 2, Designators: []string{"X1", "X2"}},
		{Name: "Cable, 2 x 0.25 mm²", Qty: 0.5, Unit: "m", Designators: []string{"W1"}},
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "demo")
	engine := &fakeRenderer{}
	w := NewWriter(engine, WithFormats("png", "pdf"), WithConcurrency(2))

	g := graph.New("")
	if err := g.AddNode(&graph.Node{ID: "X1"}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(context.Background(), base, g, testItems()); err != nil {
		t.Fatalf("Write: %v", err)
	}

	for _, path := range w.Files(base) {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}
	if _, err := os.Stat(base + ".svg"); !os.IsNotExist(err) {
		t.Errorf("svg is only rendered for the page, got %v", err)
	}
	formats := slices.Clone(engine.formats)
	slices.Sort(formats)
	if !slices.Equal(formats, []string{"pdf", "png", "svg"}) {
		t.Errorf("expected pdf, png and svg renders, got %v", engine.formats)
	}

	if got := readFile(t, base+".png"); got != "image/png" {
		t.Errorf("expected png image, got %q", got)
	}
	if got := readFile(t, base+".gv"); !strings.Contains(got, `"X1"`) {
		t.Errorf("expected X1 in graph source, got %s", got)
	}
	if got := readFile(t, base+".bom.tsv"); !strings.HasPrefix(got, "Item\tQty\tUnit\tDesignators\n") {
		t.Errorf("unexpected BOM header: %q", got)
	}

	page := readFile(t, base+".html")
	for _, want := range []string{prologReplacement, "<svg width", "0.25 mm&sup2;"} {
		if !strings.Contains(page, want) {
			t.Errorf("expected %q in page", want)
		}
	}
}

func TestWriteWithoutHTML(t *testing.T) {
	base := filepath.Join(t.TempDir(), "demo")
	engine := &fakeRenderer{}
	w := NewWriter(engine, WithFormats("png"), WithHTML(false))
	if err := w.Write(context.Background(), base, graph.New(""), nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if !slices.Equal(engine.formats, []string{"png"}) {
		t.Errorf("expected only png render, got %v", engine.formats)
	}
	if _, err := os.Stat(base + ".html"); !os.IsNotExist(err) {
		t.Errorf("expected no page, got %v", err)
	}
}

func TestWriteRenderFailure(t *testing.T) {
	base := filepath.Join(t.TempDir(), "demo")
	w := NewWriter(&fakeRenderer{fail: "pdf"}, WithFormats("svg", "pdf"))
	err := w.Write(context.Background(), base, graph.New(""), testItems())
	if err == nil {
		t.Fatal("expected render error")
	}
	if !strings.Contains(err.Error(), "render pdf") {
		t.Errorf("expected failing format in error, got %v", err)
	}

	if _, err := os.Stat(base + ".bom.tsv"); !os.IsNotExist(err) {
		t.Errorf("nothing should be written after a failed render, got %v", err)
	}
}

func TestStripProlog(t *testing.T) {
	out := string(StripProlog([]byte(svgDoc)))
	if !strings.HasPrefix(out, prologReplacement) {
		t.Errorf("expected prolog replacement, got %q", out)
	}
	if strings.Contains(out, "<?xml") {
		t.Errorf("xml declaration should be removed: %q", out)
	}

	plain := "<svg></svg>"
	if got := string(StripProlog([]byte(plain))); got != plain {
		t.Errorf("expected %q unchanged, got %q", plain, got)
	}
}

func TestWriteHTMLTable(t *testing.T) {
	var buf bytes.Buffer
	rows := bom.List(testItems())
	if err := WriteHTML(&buf, []byte("<svg/>"), rows); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}

	page := buf.String()
	if !strings.HasPrefix(page, "<!DOCTYPE html>\n") {
		t.Errorf("expected doctype, got %q", page)
	}
	for _, want := range []string{
		`<td align="right" style="border:1px solid #000000; padding: 4px">0.5</td>`,
		`<th align="left" style="border:1px solid #000000; padding: 8px">Designators</th>`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("expected %s in page", want)
		}
	}
	if !strings.HasSuffix(page, "</table></body></html>") {
		t.Errorf("unexpected page end: %q", page)
	}
}

func TestWriteHTMLEscapes(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, nil, [][]string{{"Item"}, {"<b>&"}}); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if !strings.Contains(buf.String(), "&lt;b&gt;&amp;") {
		t.Errorf("expected escaped cell, got %s", buf.String())
	}
}
