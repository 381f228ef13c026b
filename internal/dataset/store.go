package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

type fieldJSON struct {
	Kind   string      `json:"kind"`
	Dims   []string    `json:"dims,omitempty"`
	Value  *float64    `json:"value,omitempty"`
	Series []float64   `json:"series,omitempty"`
	Grid   [][]float64 `json:"grid,omitempty"`
	Attrs  Attrs       `json:"attrs,omitempty"`
}

type fileJSON struct {
	Fields map[string]fieldJSON `json:"fields"`
}

// Load reads a dataset from a JSON file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw fileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}

	d := New()
	for name, fj := range raw.Fields {
		switch fj.Kind {
		case "scalar":
			if fj.Value == nil {
				return nil, fmt.Errorf("field %s: scalar without value", name)
			}
			d.SetScalar(name, *fj.Value, fj.Attrs)
		case "series":
			d.SetSeries(name, fj.Series, fj.Attrs)
		case "grid":
			d.SetGrid(name, fj.Grid, fj.Attrs)
		default:
			return nil, fmt.Errorf("field %s: unknown kind %q", name, fj.Kind)
		}
	}
	return d, nil
}

// Save writes a dataset to a JSON file.
func Save(path string, d *Dataset) error {
	out := fileJSON{Fields: make(map[string]fieldJSON, len(d.fields))}
	for name, f := range d.fields {
		fj := fieldJSON{Kind: f.Kind.String(), Dims: f.Dims(), Attrs: f.Attrs}
		switch f.Kind {
		case Scalar:
			v := f.Value
			fj.Value = &v
		case Series:
			fj.Series = f.Series
		case Grid:
			fj.Grid = f.Grid
		}
		out.Fields[name] = fj
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// ExportCSV writes a grid field as CSV, one row per TIME step with a
// column per sample. If the dataset has a "time" series of matching
// length, it is emitted as the first column.
func ExportCSV(w io.Writer, d *Dataset, name string) error {
	f, ok := d.Field(name)
	if !ok {
		return fmt.Errorf("no field %q in dataset", name)
	}
	if f.Kind != Grid {
		return fmt.Errorf("field %q is %s, not a grid", name, f.Kind)
	}

	nt, ns := Shape(f.Grid)

	var times []float64
	if tf, ok := d.Field("time"); ok && tf.Kind == Series && len(tf.Series) == nt {
		times = tf.Series
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := make([]string, 0, ns+1)
	if times != nil {
		header = append(header, "time")
	}
	for i := 0; i < ns; i++ {
		header = append(header, fmt.Sprintf("%s_%d", name, i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := 0; i < nt; i++ {
		row := make([]string, 0, ns+1)
		if times != nil {
			row = append(row, strconv.FormatFloat(times[i], 'f', 6, 64))
		}
		for _, val := range f.Grid[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return nil
}
