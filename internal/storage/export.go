package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/kryv/flame-utils/internal/beamstate"
	"github.com/kryv/flame-utils/internal/output"
)

// ExportCSV writes collected series to a CSV file, one row per monitor
// point. Scalar fields occupy one column; vector fields expand into one
// column per component. Matrix and tensor fields do not flatten into a
// row and are rejected.
func ExportCSV(path string, locs []string, fields []string, data map[string]output.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	type column struct {
		name   string
		values []float64
	}

	cols := make([]column, 0, len(fields))
	for _, name := range fields {
		series, ok := data[name]
		if !ok {
			return fmt.Errorf("storage: field %q not collected", name)
		}
		if len(series) != len(locs) {
			return fmt.Errorf("storage: field %q has %d points, want %d", name, len(series), len(locs))
		}

		switch series.Kind() {
		case beamstate.KindScalar:
			vals, err := series.Floats()
			if err != nil {
				return err
			}
			cols = append(cols, column{name: name, values: vals})
		case beamstate.KindVector:
			dim := len(series[0].Vector)
			for c := 0; c < dim; c++ {
				vals, err := series.Component(c)
				if err != nil {
					return err
				}
				cols = append(cols, column{name: fmt.Sprintf("%s[%d]", name, c), values: vals})
			}
		default:
			return fmt.Errorf("storage: field %q is a %s, not exportable to CSV", name, series.Kind())
		}
	}

	header := []string{"loc"}
	for _, c := range cols {
		header = append(header, c.name)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, loc := range locs {
		row := []string{loc}
		for _, c := range cols {
			row = append(row, strconv.FormatFloat(c.values[i], 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}
