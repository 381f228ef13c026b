// Package dataset provides the named-field container for signature
// instrument data. Array fields are laid out on a (TIME, SAMPLE) grid:
// each time step holds a burst of samples. Ancillary quantities may be
// scalars or per-time-step series, and every field carries free-form
// string attributes (units, long_name, note).
package dataset

import "sort"

// Kind discriminates the three field shapes.
type Kind int

const (
	// Scalar is a single value (calibration constants, latitude).
	Scalar Kind = iota
	// Series is a 1-D array over TIME.
	Series
	// Grid is a 2-D array over (TIME, SAMPLE).
	Grid
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Series:
		return "series"
	case Grid:
		return "grid"
	}
	return "unknown"
}

// Attrs holds field metadata such as units and provenance notes.
type Attrs map[string]string

// Field is one named quantity in a Dataset. Exactly one of Value,
// Series or Grid is meaningful, selected by Kind.
type Field struct {
	Kind   Kind
	Value  float64
	Series []float64
	Grid   [][]float64
	Attrs  Attrs
}

// Dims returns the dimension names of the field.
func (f *Field) Dims() []string {
	switch f.Kind {
	case Series:
		return []string{"TIME"}
	case Grid:
		return []string{"TIME", "SAMPLE"}
	}
	return nil
}

// Len returns the number of TIME steps covered by the field, or 0 for
// scalars.
func (f *Field) Len() int {
	switch f.Kind {
	case Series:
		return len(f.Series)
	case Grid:
		return len(f.Grid)
	}
	return 0
}

// Dataset is a mutable collection of named fields. It is not safe for
// concurrent use; the caller owns it exclusively while processing runs.
type Dataset struct {
	fields map[string]*Field
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{fields: make(map[string]*Field)}
}

// Has reports whether a field with the given name exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.fields[name]
	return ok
}

// Field returns the named field, or false if absent.
func (d *Dataset) Field(name string) (*Field, bool) {
	f, ok := d.fields[name]
	return f, ok
}

// Scalar returns the value of a scalar field, or false if the field is
// absent or not a scalar.
func (d *Dataset) Scalar(name string) (float64, bool) {
	f, ok := d.fields[name]
	if !ok || f.Kind != Scalar {
		return 0, false
	}
	return f.Value, true
}

// SetScalar stores a scalar field, overwriting any existing field of
// the same name.
func (d *Dataset) SetScalar(name string, value float64, attrs Attrs) {
	d.fields[name] = &Field{Kind: Scalar, Value: value, Attrs: attrs}
}

// SetSeries stores a (TIME) field, overwriting any existing field.
func (d *Dataset) SetSeries(name string, values []float64, attrs Attrs) {
	d.fields[name] = &Field{Kind: Series, Series: values, Attrs: attrs}
}

// SetGrid stores a (TIME, SAMPLE) field, overwriting any existing field.
func (d *Dataset) SetGrid(name string, grid [][]float64, attrs Attrs) {
	d.fields[name] = &Field{Kind: Grid, Grid: grid, Attrs: attrs}
}

// Names returns all field names in sorted order.
func (d *Dataset) Names() []string {
	names := make([]string, 0, len(d.fields))
	for name := range d.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Shape returns the (TIME, SAMPLE) extent of a grid field.
func Shape(grid [][]float64) (nt, ns int) {
	nt = len(grid)
	if nt > 0 {
		ns = len(grid[0])
	}
	return nt, ns
}
