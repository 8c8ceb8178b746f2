// Package units provides the pressure and temperature conversions needed
// to feed field data, usually reported in psi and °F, into the SI-based
// equilibrium solver.
package units

// PsiToPa converts a pressure in psi to Pa.
func PsiToPa(p float64) float64 {
	return 6894.7572931783 * p
}

// BarToPa converts a pressure in bar to Pa.
func BarToPa(p float64) float64 {
	return p * 1e5
}

// AtmToPa converts a pressure in atm to Pa.
func AtmToPa(p float64) float64 {
	return p * 101325
}

// FahrenheitToKelvin converts a temperature in °F to K.
func FahrenheitToKelvin(t float64) float64 {
	return (t + 459.67) * (5.0 / 9.0)
}
