package domain

import (
	"math"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// Daytime reports "day" or "night" for a coordinate at a point in time.
// Above the polar circles sunrise and sunset may not exist; those days are
// classified as polar day or polar night from the solar declination.
func Daytime(coordinate Coordinate, at time.Time) string {
	at = at.UTC()
	rise, set := sunrise.SunriseSunset(
		coordinate.Latitude, coordinate.Longitude,
		at.Year(), at.Month(), at.Day(),
	)
	if rise.IsZero() && set.IsZero() {
		if polarDay(coordinate.Latitude, coordinate.Longitude, at) {
			return "day"
		}
		return "night"
	}
	if at.After(rise) && at.Before(set) {
		return "day"
	}
	return "night"
}

// polarDay distinguishes midnight sun from polar night on days where the
// sun neither rises nor sets. The cosine of the hour angle falls outside
// [-1, 1] on such days; the sign of the excursion picks the case.
func polarDay(latitude, longitude float64, at time.Time) bool {
	const degree = math.Pi / 180

	day := sunrise.MeanSolarNoon(longitude, at.Year(), at.Month(), at.Day())
	anomaly := sunrise.SolarMeanAnomaly(day)
	center := sunrise.EquationOfCenter(anomaly)
	ecliptic := sunrise.EclipticLongitude(anomaly, center, day)
	declination := sunrise.Declination(ecliptic)

	numerator := -0.01449 - math.Sin(latitude*degree)*math.Sin(declination*degree)
	denominator := math.Cos(latitude*degree) * math.Cos(declination*degree)
	return numerator/denominator <= -1
}
