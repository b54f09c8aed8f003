package viz

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// curveColors follows the matplotlib line cycle (tab:blue, tab:orange, ...).
var curveColors = []color.Color{classColors[1], classColors[3], classColors[4], classColors[5]}

// Series is one named prediction curve.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

// ExtrapolationPlot shows the training points of a 1-D regression together
// with the prediction curve of each model.
type ExtrapolationPlot struct {
	Title  string
	XLabel string
	YLabel string

	TrainX []float64
	TrainY []float64
	Curves []Series
}

// Plot builds the figure.
func (e ExtrapolationPlot) Plot() (*plot.Plot, error) {
	if len(e.TrainX) != len(e.TrainY) {
		return nil, errors.NewDimensionError("ExtrapolationPlot", len(e.TrainX), len(e.TrainY), 0)
	}

	p := plot.New()
	p.Title.Text = e.Title
	p.X.Label.Text = e.XLabel
	p.Y.Label.Text = e.YLabel
	p.Legend.Top = true
	p.Legend.Left = true

	if len(e.TrainX) > 0 {
		pts := make(plotter.XYs, len(e.TrainX))
		for i := range pts {
			pts[i] = plotter.XY{X: e.TrainX[i], Y: e.TrainY[i]}
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrap(err, "scatter training data")
		}
		s.GlyphStyle.Color = color.NRGBA{A: 0x80}
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add("training data", s)
	}

	for k, c := range e.Curves {
		if len(c.X) != len(c.Y) {
			return nil, errors.NewDimensionError("ExtrapolationPlot."+c.Name, len(c.X), len(c.Y), 0)
		}
		pts := make(plotter.XYs, len(c.X))
		for i := range pts {
			pts[i] = plotter.XY{X: c.X[i], Y: c.Y[i]}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "line %s", c.Name)
		}
		l.LineStyle.Color = curveColors[k%len(curveColors)]
		l.LineStyle.Width = vg.Points(2)
		p.Add(l)
		p.Legend.Add(c.Name, l)
	}
	return p, nil
}

// Save writes the figure to path; the extension selects png, svg or pdf.
func (e ExtrapolationPlot) Save(path string) error {
	p, err := e.Plot()
	if err != nil {
		return err
	}
	return save(p, path)
}
