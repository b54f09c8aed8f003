package viz

import (
	"image/color"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// classColors starts with tab:red, tab:blue and black, then continues with
// the rest of the matplotlib tab10 cycle.
var classColors = []color.NRGBA{
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 0xff},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 0xff},
}

func classColor(k int) color.NRGBA { return classColors[k%len(classColors)] }

// regionPalette is a translucent version of classColors, one per class.
type regionPalette []color.Color

// Colors implements palette.Palette.
func (p regionPalette) Colors() []color.Color { return p }

func newRegionPalette(k int) regionPalette {
	if k < 2 {
		k = 2
	}
	p := make(regionPalette, k)
	for i := range p {
		c := classColor(i)
		c.A = 0x50
		p[i] = c
	}
	return p
}

// DecisionRegionPlot describes a 2-D decision region figure.
type DecisionRegionPlot struct {
	Title  string
	XLabel string
	YLabel string

	// Grid is the background of predicted regions; nil draws points only.
	Grid *ClassGrid

	// X is n×2; Labels holds the class index of each row.
	X          mat.Matrix
	Labels     []int
	ClassNames []string

	// Misclassified rows are overlaid with a "+" marker, labelled
	// MisclassifiedLabel ("Misclassified samples" when empty).
	Misclassified      []int
	MisclassifiedLabel string
}

// Plot builds the figure.
func (d DecisionRegionPlot) Plot() (*plot.Plot, error) {
	rows, cols := d.X.Dims()
	if cols != 2 {
		return nil, errors.NewDimensionError("DecisionRegionPlot", 2, cols, 1)
	}
	if len(d.Labels) != rows {
		return nil, errors.NewDimensionError("DecisionRegionPlot", rows, len(d.Labels), 0)
	}

	p := plot.New()
	p.Title.Text = d.Title
	p.X.Label.Text = d.XLabel
	p.Y.Label.Text = d.YLabel
	p.Legend.Top = true

	if d.Grid != nil {
		k := d.Grid.NClasses()
		hm := plotter.NewHeatMap(d.Grid, newRegionPalette(k))
		hm.Min = 0
		hm.Max = float64(max(k-1, 1))
		hm.Rasterized = true
		p.Add(hm)
	}

	byClass := make(map[int]plotter.XYs)
	nClasses := len(d.ClassNames)
	for i := 0; i < rows; i++ {
		k := d.Labels[i]
		byClass[k] = append(byClass[k], plotter.XY{X: d.X.At(i, 0), Y: d.X.At(i, 1)})
		if k+1 > nClasses {
			nClasses = k + 1
		}
	}
	for k := 0; k < nClasses; k++ {
		pts, ok := byClass[k]
		if !ok {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "scatter class %d", k)
		}
		s.GlyphStyle.Color = classColor(k)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2.5)
		p.Add(s)
		p.Legend.Add(className(d.ClassNames, k), s)
	}

	if len(d.Misclassified) > 0 {
		pts := make(plotter.XYs, 0, len(d.Misclassified))
		for _, i := range d.Misclassified {
			if i < 0 || i >= rows {
				return nil, errors.NewValidationError("misclassified", "index out of range", i)
			}
			pts = append(pts, plotter.XY{X: d.X.At(i, 0), Y: d.X.At(i, 1)})
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrap(err, "scatter misclassified")
		}
		s.GlyphStyle.Color = color.Black
		s.GlyphStyle.Shape = draw.PlusGlyph{}
		s.GlyphStyle.Radius = vg.Points(5)
		p.Add(s)
		label := d.MisclassifiedLabel
		if label == "" {
			label = "Misclassified samples"
		}
		p.Legend.Add(label, s)
	}
	return p, nil
}

// Save writes the figure to path; the extension selects png, svg or pdf.
func (d DecisionRegionPlot) Save(path string) error {
	p, err := d.Plot()
	if err != nil {
		return err
	}
	return save(p, path)
}

func className(names []string, k int) string {
	if k < len(names) {
		return names[k]
	}
	return "class " + strconv.Itoa(k)
}
