package domain

import "math"

// KelvinToCelsius converts a Kelvin temperature to Celsius, rounded to two
// decimals to keep stored and returned values stable across round trips.
func KelvinToCelsius(temperature float64) float64 {
	return round2(temperature - 273.15)
}

// CelsiusToKelvin converts a Celsius temperature to Kelvin, rounded to two decimals.
func CelsiusToKelvin(temperature float64) float64 {
	return round2(temperature + 273.15)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
