package depth_test

import (
	"errors"
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oyvlun/sigproc/internal/dataset"
	"github.com/oyvlun/sigproc/internal/depth"
	"github.com/oyvlun/sigproc/internal/gsw"
)

// noResolver fails the test if the calculator consults it.
type noResolver struct{}

func (noResolver) Resolve(field string) (depth.Decision, error) {
	Fail("resolver consulted unexpectedly for " + field)
	return depth.Abort, nil
}

// errResolver simulates a broken decision channel.
type errResolver struct{}

func (errResolver) Resolve(field string) (depth.Decision, error) {
	return depth.Abort, fmt.Errorf("decision channel closed")
}

func baseDataset() *dataset.Dataset {
	ds := dataset.New()
	ds.SetGrid(depth.FieldPressure,
		[][]float64{{10.0, 10.2}, {10.4, 10.6}}, dataset.Attrs{"units": "db"})
	ds.SetScalar(depth.FieldPressureOffset, 0.1, dataset.Attrs{"units": "db"})
	ds.SetScalar(depth.FieldLatitude, 60.0, dataset.Attrs{"units": "degrees_north"})
	return ds
}

func continueAll() depth.Scripted {
	return depth.Scripted{Default: depth.Continue}
}

var _ = Describe("Calculator", func() {
	Context("with all ancillary fields present", func() {
		var ds *dataset.Dataset

		BeforeEach(func() {
			ds = baseDataset()
			ds.SetScalar(depth.FieldAtmosphericPressure, 0.05, nil)
			ds.SetScalar(depth.FieldDensity, 1025.0, nil)
		})

		It("computes depth elementwise without consulting the resolver", func() {
			calc := depth.New(noResolver{})
			out, err := calc.Compute(ds)
			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeIdenticalTo(ds))

			g := gsw.Gravity(60.0, 0)
			df, ok := ds.Field(depth.FieldDepth)
			Expect(ok).To(BeTrue())
			for i, row := range [][]float64{{10.0, 10.2}, {10.4, 10.6}} {
				for j, p := range row {
					want := 1e4 * (p + 0.1 - 0.05) / g / 1025.0
					Expect(df.Grid[i][j]).To(BeNumerically("~", want, 1e-12))
				}
			}
		})

		It("matches the worked example at lat 60", func() {
			calc := depth.New(noResolver{})
			_, err := calc.Compute(ds)
			Expect(err).NotTo(HaveOccurred())

			// p_ocean for the first cell is 10.0 + 0.1 - 0.05 = 10.05 db.
			g := gsw.Gravity(60.0, 0)
			df, _ := ds.Field(depth.FieldDepth)
			Expect(df.Grid[0][0]).To(BeNumerically("~", 1e4*10.05/g/1025.0, 1e-12))
		})

		It("stores gravity with units and note metadata", func() {
			calc := depth.New(noResolver{})
			_, err := calc.Compute(ds)
			Expect(err).NotTo(HaveOccurred())

			gf, ok := ds.Field(depth.FieldGravity)
			Expect(ok).To(BeTrue())
			Expect(gf.Kind).To(Equal(dataset.Scalar))
			Expect(gf.Value).To(BeNumerically("~", 9.8192, 1e-4))
			Expect(gf.Attrs["units"]).To(Equal("m/s^2"))
			Expect(gf.Attrs["note"]).To(ContainSubstring("lat=60.00"))
		})

		It("attaches a provenance note to the depth field", func() {
			calc := depth.New(noResolver{})
			_, err := calc.Compute(ds)
			Expect(err).NotTo(HaveOccurred())

			df, _ := ds.Field(depth.FieldDepth)
			note := df.Attrs["note"]
			Expect(note).To(HavePrefix("Altimeter depth calculated from pressure"))
			Expect(note).To(ContainSubstring("depth = p/(g*rho)"))
			Expect(note).To(ContainSubstring("p_atmo field) subtracted"))
			Expect(note).To(ContainSubstring("rho_ocean field"))
			Expect(df.Attrs["units"]).To(Equal("m"))
			Expect(df.Attrs["long_name"]).To(Equal("Transducer depth"))
		})

		It("is idempotent across repeated runs", func() {
			calc := depth.New(noResolver{})
			_, err := calc.Compute(ds)
			Expect(err).NotTo(HaveOccurred())
			first, _ := ds.Field(depth.FieldDepth)
			firstGrid := append([]float64(nil), first.Grid[0]...)

			_, err = calc.Compute(ds)
			Expect(err).NotTo(HaveOccurred())
			second, _ := ds.Field(depth.FieldDepth)
			Expect(second.Grid[0]).To(Equal(firstGrid))
			Expect(ds.Names()).To(ContainElement(depth.FieldDepth))
		})
	})

	Context("latitude validation", func() {
		It("fails before any mutation when lat is absent", func() {
			ds := dataset.New()
			ds.SetGrid(depth.FieldPressure, [][]float64{{10.0}}, nil)
			ds.SetScalar(depth.FieldPressureOffset, 0.1, nil)
			ds.SetScalar(depth.FieldAtmosphericPressure, 0.05, nil)

			calc := depth.New(noResolver{})
			_, err := calc.Compute(ds)

			var mme *depth.MissingMetadataError
			Expect(errors.As(err, &mme)).To(BeTrue())
			Expect(mme.Field).To(Equal(depth.FieldLatitude))
			Expect(ds.Has(depth.FieldGravity)).To(BeFalse())
			Expect(ds.Has(depth.FieldDepth)).To(BeFalse())
		})

		It("treats NaN latitude as unset", func() {
			ds := baseDataset()
			ds.SetScalar(depth.FieldLatitude, math.NaN(), nil)

			calc := depth.New(noResolver{})
			_, err := calc.Compute(ds)

			var mme *depth.MissingMetadataError
			Expect(errors.As(err, &mme)).To(BeTrue())
			Expect(ds.Has(depth.FieldGravity)).To(BeFalse())
		})
	})

	Context("missing atmospheric pressure", func() {
		It("falls back to the raw altimeter reading on continue", func() {
			ds := baseDataset()
			ds.SetScalar(depth.FieldDensity, 1025.0, nil)

			calc := depth.New(continueAll())
			_, err := calc.Compute(ds)
			Expect(err).NotTo(HaveOccurred())

			// The fallback skips the pressure offset entirely.
			g := gsw.Gravity(60.0, 0)
			df, _ := ds.Field(depth.FieldDepth)
			Expect(df.Grid[0][0]).To(BeNumerically("~", 1e4*10.0/g/1025.0, 1e-12))
			Expect(ds.Has(depth.FieldGravity)).To(BeTrue())

			note := df.Attrs["note"]
			Expect(note).To(ContainSubstring("NO TIME-VARYING ATMOSPHERIC CORRECTION"))
			Expect(note).To(ContainSubstring("0.10 db"))
		})

		It("aborts before gravity is stored", func() {
			ds := baseDataset()
			ds.SetScalar(depth.FieldDensity, 1025.0, nil)

			calc := depth.New(depth.Scripted{Default: depth.Abort})
			_, err := calc.Compute(ds)

			var uae *depth.UserAbortedError
			Expect(errors.As(err, &uae)).To(BeTrue())
			Expect(uae.Field).To(Equal(depth.FieldAtmosphericPressure))
			Expect(ds.Has(depth.FieldGravity)).To(BeFalse())
			Expect(ds.Has(depth.FieldDepth)).To(BeFalse())
		})
	})

	Context("missing ocean density", func() {
		It("uses the fixed fallback density on continue", func() {
			ds := baseDataset()
			ds.SetScalar(depth.FieldAtmosphericPressure, 0.05, nil)

			calc := depth.New(continueAll())
			_, err := calc.Compute(ds)
			Expect(err).NotTo(HaveOccurred())

			g := gsw.Gravity(60.0, 0)
			df, _ := ds.Field(depth.FieldDepth)
			Expect(df.Grid[0][0]).To(BeNumerically("~",
				1e4*10.05/g/depth.FallbackDensity, 1e-12))
			Expect(df.Attrs["note"]).To(ContainSubstring("FIXED ocean density rho = 1027"))
		})

		It("aborts after gravity has been stored", func() {
			ds := baseDataset()
			ds.SetScalar(depth.FieldAtmosphericPressure, 0.05, nil)

			calc := depth.New(depth.Scripted{
				Decisions: map[string]depth.Decision{
					depth.FieldDensity: depth.Abort,
				},
				Default: depth.Continue,
			})
			_, err := calc.Compute(ds)

			var uae *depth.UserAbortedError
			Expect(errors.As(err, &uae)).To(BeTrue())
			Expect(uae.Field).To(Equal(depth.FieldDensity))
			// Partial mutation on this path is specified behavior.
			Expect(ds.Has(depth.FieldGravity)).To(BeTrue())
			Expect(ds.Has(depth.FieldDepth)).To(BeFalse())
		})
	})

	Context("field broadcasting", func() {
		It("broadcasts a per-time-step atmospheric pressure series", func() {
			ds := baseDataset()
			ds.SetSeries(depth.FieldAtmosphericPressure, []float64{0.05, 0.10}, nil)
			ds.SetScalar(depth.FieldDensity, 1025.0, nil)

			calc := depth.New(noResolver{})
			_, err := calc.Compute(ds)
			Expect(err).NotTo(HaveOccurred())

			g := gsw.Gravity(60.0, 0)
			df, _ := ds.Field(depth.FieldDepth)
			Expect(df.Grid[1][0]).To(BeNumerically("~", 1e4*(10.4+0.1-0.10)/g/1025.0, 1e-12))
		})

		It("rejects a series whose length does not match the grid", func() {
			ds := baseDataset()
			ds.SetSeries(depth.FieldAtmosphericPressure, []float64{0.05}, nil)
			ds.SetScalar(depth.FieldDensity, 1025.0, nil)

			calc := depth.New(noResolver{})
			_, err := calc.Compute(ds)
			Expect(err).To(HaveOccurred())
		})

		It("accepts a full density grid", func() {
			ds := baseDataset()
			ds.SetScalar(depth.FieldAtmosphericPressure, 0.05, nil)
			ds.SetGrid(depth.FieldDensity,
				[][]float64{{1025, 1026}, {1027, 1028}}, nil)

			calc := depth.New(noResolver{})
			_, err := calc.Compute(ds)
			Expect(err).NotTo(HaveOccurred())

			g := gsw.Gravity(60.0, 0)
			df, _ := ds.Field(depth.FieldDepth)
			Expect(df.Grid[1][1]).To(BeNumerically("~", 1e4*(10.6+0.1-0.05)/g/1028.0, 1e-12))
		})
	})

	Context("degenerate inputs", func() {
		It("propagates resolver errors", func() {
			ds := baseDataset()
			calc := depth.New(errResolver{})
			_, err := calc.Compute(ds)
			Expect(err).To(MatchError(ContainSubstring("decision channel closed")))
		})

		It("does not mask division by zero density", func() {
			ds := baseDataset()
			ds.SetScalar(depth.FieldAtmosphericPressure, 0.05, nil)
			ds.SetScalar(depth.FieldDensity, 0.0, nil)

			calc := depth.New(noResolver{})
			_, err := calc.Compute(ds)
			Expect(err).NotTo(HaveOccurred())

			df, _ := ds.Field(depth.FieldDepth)
			Expect(df.Grid[0][0]).To(BeNumerically(">", 1e300))
		})

		It("reports missing pressure preconditions as metadata errors", func() {
			ds := dataset.New()
			ds.SetScalar(depth.FieldLatitude, 60.0, nil)

			calc := depth.New(noResolver{})
			_, err := calc.Compute(ds)

			var mme *depth.MissingMetadataError
			Expect(errors.As(err, &mme)).To(BeTrue())
			Expect(mme.Field).To(Equal(depth.FieldPressure))
		})
	})
})
