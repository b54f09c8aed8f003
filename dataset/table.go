// Package dataset loads delimited files with named columns and exposes them
// as gonum matrices.
package dataset

import (
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/boostlab/pkg/errors"
	"github.com/YuminosukeSato/boostlab/pkg/log"
)

// Table is an immutable set of CSV rows keyed by column name.
type Table struct {
	rows    []map[string]string
	columns []string
}

// LoadCSV reads a CSV file whose first line is the header.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	t, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	log.GetLoggerWithName("dataset").Info("Dataset loaded",
		log.DataPathKey, path,
		log.SamplesKey, t.Len(),
		log.FeaturesKey, len(t.columns),
	)
	return t, nil
}

// ReadCSV parses CSV with a header row from r.
func ReadCSV(r io.Reader) (*Table, error) {
	rows, err := gocsv.CSVToMaps(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse csv")
	}
	if len(rows) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "ReadCSV")
	}
	columns := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		columns = append(columns, name)
	}
	sort.Strings(columns)
	return &Table{rows: rows, columns: columns}, nil
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the column names in lexical order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

func (t *Table) hasColumn(name string) bool {
	i := sort.SearchStrings(t.columns, name)
	return i < len(t.columns) && t.columns[i] == name
}

// Strings returns the raw values of one column.
func (t *Table) Strings(column string) ([]string, error) {
	if !t.hasColumn(column) {
		return nil, errors.NewValidationError("column", "not found in dataset", column)
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = strings.TrimSpace(row[column])
	}
	return out, nil
}

// Floats parses one column as float64. The error names the 1-based data
// row of the first bad cell.
func (t *Table) Floats(column string) ([]float64, error) {
	raw, err := t.Strings(column)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q row %d", column, i+1)
		}
		out[i] = v
	}
	return out, nil
}

// Features returns the given columns as an n×len(columns) matrix.
func (t *Table) Features(columns ...string) (*mat.Dense, error) {
	if len(columns) == 0 {
		return nil, errors.NewValidationError("columns", "at least one feature column is required", columns)
	}
	X := mat.NewDense(t.Len(), len(columns), nil)
	for j, c := range columns {
		vals, err := t.Floats(c)
		if err != nil {
			return nil, err
		}
		X.SetCol(j, vals)
	}
	return X, nil
}

// Target returns one numeric column as an n×1 matrix.
func (t *Table) Target(column string) (*mat.Dense, error) {
	vals, err := t.Floats(column)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(len(vals), 1, vals), nil
}
