// Package gsw provides the small subset of the TEOS-10 seawater toolbox
// needed for depth processing: gravitational acceleration as a function
// of latitude and height.
package gsw

import "math"

const (
	// EquatorialGravity is gravitational acceleration at the equator at
	// sea level, in m/s^2.
	EquatorialGravity = 9.780327

	// Coefficients of the international gravity formula (sin^2 terms).
	gravCoeff1 = 5.2792e-3
	gravCoeff2 = 2.32e-5

	// gammaGrav is the vertical gravity gradient used for the free-air
	// correction, per meter of height.
	gammaGrav = 2.26e-7
)

// Gravity returns gravitational acceleration in m/s^2 at latitude lat
// (degrees north) and height z (meters above the sea surface, negative
// below). Depth processing evaluates it at z = 0.
func Gravity(lat, z float64) float64 {
	sin2 := math.Pow(math.Sin(lat*math.Pi/180.0), 2)
	gs := EquatorialGravity * (1.0 + (gravCoeff1+gravCoeff2*sin2)*sin2)
	return gs * (1.0 - gammaGrav*z)
}
