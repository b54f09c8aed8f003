package dataset

import (
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
)

// SaveNpy writes m to path in NumPy .npy format.
func SaveNpy(path string, m *mat.Dense) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	if err := npyio.Write(f, m); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// LoadNpy reads a 2-D float64 array written by SaveNpy or numpy.save.
func LoadNpy(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read header %s", path)
	}
	m := &mat.Dense{}
	if err := r.Read(m); err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return m, nil
}
