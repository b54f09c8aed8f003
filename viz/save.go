package viz

import (
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// Figure size of every saved plot.
const (
	FigureWidth  = 6 * vg.Inch
	FigureHeight = 4 * vg.Inch
)

var supportedFormats = map[string]bool{".png": true, ".svg": true, ".pdf": true}

func save(p *plot.Plot, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedFormats[ext] {
		return errors.NewValidationError("path", "extension must be .png, .svg or .pdf", path)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", dir)
		}
	}
	if err := p.Save(FigureWidth, FigureHeight, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
