package tree

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// ExportOptions controls node labels in ExportGraphviz.
type ExportOptions struct {
	// FeatureNames replaces "x[i]" in split labels when set.
	FeatureNames []string
	// ClassNames replaces class indices in classifier leaf labels when set.
	ClassNames []string
	// Format is "dot" (default), "svg", "png" or "jpg".
	Format string
}

var graphvizFormats = map[string]graphviz.Format{
	"":    graphviz.Format("dot"),
	"dot": graphviz.Format("dot"),
	"svg": graphviz.SVG,
	"png": graphviz.PNG,
	"jpg": graphviz.JPG,
}

// ExportGraphviz renders a fitted tree. Internal nodes show their split
// "feature <= threshold"; the left child of every node is the side where the
// condition holds. Leaves are drawn as boxes. Label lines are separated by
// the graphviz "\n" escape.
func ExportGraphviz(w io.Writer, t *Tree, opts ExportOptions) (err error) {
	if t == nil || t.NodeCount() == 0 {
		return errors.NewNotFittedError("Tree", "ExportGraphviz")
	}
	format, ok := graphvizFormats[strings.ToLower(opts.Format)]
	if !ok {
		return errors.NewValidationError("format", "unsupported graphviz format", opts.Format)
	}

	g := graphviz.New()
	graph, err := g.Graph()
	if err != nil {
		return errors.Wrap(err, "create graph")
	}
	defer func() {
		if cerr := graph.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if cerr := g.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := drawNode(graph, t, 0, nil, opts); err != nil {
		return err
	}
	if err := g.Render(graph, format, w); err != nil {
		return errors.Wrapf(err, "render %s", format)
	}
	return nil
}

func drawNode(g *cgraph.Graph, t *Tree, i int, parent *cgraph.Node, opts ExportOptions) error {
	current, err := g.CreateNode(fmt.Sprint(i))
	if err != nil {
		return errors.Wrapf(err, "create node %d", i)
	}
	if parent != nil {
		if _, err := g.CreateEdge("", parent, current); err != nil {
			return errors.Wrapf(err, "create edge to %d", i)
		}
	}

	// Set is a no-op for attributes the graph has not declared, so go
	// through SafeSet which declares them with a default.
	if current.SafeSet("label", nodeLabel(t, i, opts), `\N`) != 0 {
		return errors.Newf("set label of node %d", i)
	}
	if t.IsLeaf(i) {
		if current.SafeSet("shape", string(cgraph.BoxShape), string(cgraph.EllipseShape)) != 0 {
			return errors.Newf("set shape of node %d", i)
		}
		return nil
	}
	left, right := t.Children(i)
	if err := drawNode(g, t, left, current, opts); err != nil {
		return err
	}
	return drawNode(g, t, right, current, opts)
}

func nodeLabel(t *Tree, i int, opts ExportOptions) string {
	var sb strings.Builder
	if !t.IsLeaf(i) {
		f, thr := t.Split(i)
		name := fmt.Sprintf("x[%d]", f)
		if f < len(opts.FeatureNames) {
			name = opts.FeatureNames[f]
		}
		fmt.Fprintf(&sb, "%s <= %.3f\\n", name, thr)
	}
	fmt.Fprintf(&sb, "impurity = %.3f\\n", t.Impurity(i))
	fmt.Fprintf(&sb, "samples = %d\\n", t.NSamples(i))

	value := t.Value(i)
	if len(value) == 1 && opts.ClassNames == nil {
		fmt.Fprintf(&sb, "value = %.3f", value[0])
		return sb.String()
	}
	parts := make([]string, len(value))
	for k, v := range value {
		parts[k] = fmt.Sprintf("%.3g", v)
	}
	fmt.Fprintf(&sb, "value = [%s]", strings.Join(parts, ", "))
	if t.IsLeaf(i) && len(value) > 1 {
		k := argmax(value)
		class := fmt.Sprint(k)
		if k < len(opts.ClassNames) {
			class = opts.ClassNames[k]
		}
		fmt.Fprintf(&sb, "\\nclass = %s", class)
	}
	return sb.String()
}
