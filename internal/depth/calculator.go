// Package depth derives transducer depth from the pressure record of a
// signature instrument. Depth follows from the hydrostatic balance
// depth = p/(g*rho), with gravity computed from latitude and fallback
// policies for missing atmospheric pressure and ocean density. Every
// computed depth field carries a provenance note recording which
// fallback paths were taken.
package depth

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/oyvlun/sigproc/internal/dataset"
	"github.com/oyvlun/sigproc/internal/gsw"
)

// Field names consumed and produced by the calculator.
const (
	FieldPressure            = "Average_AltimeterPressure"
	FieldPressureOffset      = "pressure_offset"
	FieldAtmosphericPressure = "p_atmo"
	FieldDensity             = "rho_ocean"
	FieldLatitude            = "lat"
	FieldGravity             = "g"
	FieldDepth               = "depth"
)

const (
	// FallbackDensity is the fixed ocean density used when no
	// rho_ocean field is available, in kg/m^3.
	FallbackDensity = 1027.0

	// decibarToPascal converts pressure from decibars to pascals.
	decibarToPascal = 1e4
)

// Calculator computes the depth field of a dataset. Zero value is not
// usable; construct with New.
type Calculator struct {
	resolver Resolver
	density  float64
}

// New returns a Calculator using the given resolver for missing-field
// decisions and the default fallback density.
func New(r Resolver) *Calculator {
	return &Calculator{resolver: r, density: FallbackDensity}
}

// SetFallbackDensity overrides the density used when rho_ocean is
// absent and the operator continues.
func (c *Calculator) SetFallbackDensity(rho float64) {
	c.density = rho
}

// Compute adds the fields "g" (scalar, m/s^2) and "depth" (grid,
// meters) to ds, mutating it in place and returning it. Existing g and
// depth fields are overwritten.
//
// Latitude is validated before anything else; a missing or NaN lat
// fails with *MissingMetadataError before any field is touched.
// Missing p_atmo or rho_ocean consults the resolver: Abort fails with
// *UserAbortedError (after g has been stored, in the density case),
// Continue applies the documented fallback. Numeric degeneracies
// (zero density or gravity) are not guarded; IEEE Inf/NaN propagate
// into the result.
func (c *Calculator) Compute(ds *dataset.Dataset) (*dataset.Dataset, error) {
	lat, ok := ds.Scalar(FieldLatitude)
	if !ok || math.IsNaN(lat) {
		return nil, &MissingMetadataError{Field: FieldLatitude}
	}

	pf, ok := ds.Field(FieldPressure)
	if !ok || pf.Kind != dataset.Grid {
		return nil, &MissingMetadataError{Field: FieldPressure}
	}
	offset, ok := ds.Scalar(FieldPressureOffset)
	if !ok {
		return nil, &MissingMetadataError{Field: FieldPressureOffset}
	}

	nt, ns := dataset.Shape(pf.Grid)
	prov := &Provenance{}

	// Absolute pressure: raw altimeter reading plus calibration offset.
	pAbs := cloneGrid(pf.Grid)
	for _, row := range pAbs {
		floats.AddConst(offset, row)
	}

	// Gauge pressure: subtract atmospheric pressure when we have it.
	var pOcean [][]float64
	if af, ok := ds.Field(FieldAtmosphericPressure); ok {
		atmo, err := broadcast(af, FieldAtmosphericPressure, nt, ns)
		if err != nil {
			return nil, err
		}
		pOcean = pAbs
		for i, row := range pOcean {
			floats.Sub(row, atmo[i])
		}
		prov.Add("atmospheric_pressure", "field",
			"Atmospheric pressure (p_atmo field) subtracted.")
	} else {
		dec, err := c.resolver.Resolve(FieldAtmosphericPressure)
		if err != nil {
			return nil, err
		}
		if dec == Abort {
			return nil, &UserAbortedError{Field: FieldAtmosphericPressure}
		}
		// Fallback uses the raw altimeter reading, deliberately
		// skipping the offset as well.
		pOcean = cloneGrid(pf.Grid)
		prov.Add("atmospheric_pressure", "fallback", fmt.Sprintf(
			"!!! NO TIME-VARYING ATMOSPHERIC CORRECTION APPLIED !!!\n"+
				"  (using default atmospheric pressure offset %.2f db)", offset))
	}

	// Gravity from latitude, evaluated at the sea surface.
	g := gsw.Gravity(lat, 0)
	ds.SetScalar(FieldGravity, g, dataset.Attrs{
		"units": "m/s^2",
		"note":  fmt.Sprintf("computed via standard-gravity formula for p=0 and lat=%.2f", lat),
	})
	prov.Add("gravity", "computed",
		fmt.Sprintf("Using g=%.4f m/s^2 (standard-gravity formula).", g))

	// Ocean density, from the field or the fixed fallback.
	var rho [][]float64
	if rf, ok := ds.Field(FieldDensity); ok {
		var err error
		rho, err = broadcast(rf, FieldDensity, nt, ns)
		if err != nil {
			return nil, err
		}
		prov.Add("density", "field",
			"Using ocean density from the rho_ocean field.")
	} else {
		dec, err := c.resolver.Resolve(FieldDensity)
		if err != nil {
			return nil, err
		}
		if dec == Abort {
			return nil, &UserAbortedError{Field: FieldDensity}
		}
		rho = constGrid(c.density, nt, ns)
		prov.Add("density", "fallback",
			fmt.Sprintf("Using FIXED ocean density rho = %.0f kg m-3.", c.density))
	}

	// depth = 1e4 * p_ocean / g / rho, elementwise over (TIME, SAMPLE).
	depthGrid := make([][]float64, nt)
	for i := 0; i < nt; i++ {
		row := make([]float64, ns)
		for j := 0; j < ns; j++ {
			row[j] = decibarToPascal * pOcean[i][j] / g / rho[i][j]
		}
		depthGrid[i] = row
	}

	ds.SetGrid(FieldDepth, depthGrid, dataset.Attrs{
		"units":     "m",
		"long_name": "Transducer depth",
		"note":      prov.Render(),
	})

	return ds, nil
}

// broadcast expands a scalar, series or grid field to the (nt, ns)
// shape of the pressure grid.
func broadcast(f *dataset.Field, name string, nt, ns int) ([][]float64, error) {
	switch f.Kind {
	case dataset.Scalar:
		return constGrid(f.Value, nt, ns), nil
	case dataset.Series:
		if len(f.Series) != nt {
			return nil, fmt.Errorf("depth: field %s has %d time steps, pressure has %d",
				name, len(f.Series), nt)
		}
		out := make([][]float64, nt)
		for i, v := range f.Series {
			row := make([]float64, ns)
			for j := range row {
				row[j] = v
			}
			out[i] = row
		}
		return out, nil
	case dataset.Grid:
		gnt, gns := dataset.Shape(f.Grid)
		if gnt != nt || gns != ns {
			return nil, fmt.Errorf("depth: field %s shape (%d,%d) does not match pressure (%d,%d)",
				name, gnt, gns, nt, ns)
		}
		return f.Grid, nil
	}
	return nil, fmt.Errorf("depth: field %s has unknown kind", name)
}

func cloneGrid(grid [][]float64) [][]float64 {
	out := make([][]float64, len(grid))
	for i, row := range grid {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func constGrid(v float64, nt, ns int) [][]float64 {
	out := make([][]float64, nt)
	for i := range out {
		row := make([]float64, ns)
		for j := range row {
			row[j] = v
		}
		out[i] = row
	}
	return out
}
