package store

import (
	"fmt"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

func stationSetKey(country domain.Country) string {
	return fmt.Sprintf("station:%s", country)
}

func stationKey(country domain.Country, id string) string {
	return fmt.Sprintf("station:%s:%s", country, id)
}

func locationKey(country domain.Country) string {
	return fmt.Sprintf("location:%s", country)
}

func weatherSetKey(country domain.Country, timestamp string) string {
	return fmt.Sprintf("weather:%s:%s", country, timestamp)
}

func weatherKey(country domain.Country, timestamp, stationID string) string {
	return fmt.Sprintf("weather:%s:%s:%s", country, timestamp, stationID)
}

func weatherCurrentKey(country domain.Country, stationID string) string {
	return fmt.Sprintf("weather:%s:current:%s", country, stationID)
}

func weatherWindowKey(country domain.Country, timestamp, stationID string) string {
	return fmt.Sprintf("weather48h:%s:%s:%s", country, timestamp, stationID)
}

func weatherWindowPattern(country domain.Country, stationID string) string {
	return fmt.Sprintf("weather48h:%s:*:%s", country, stationID)
}

func alertSetKey(country domain.Country) string {
	return fmt.Sprintf("alert:%s", country)
}

func alertInfoKey(country domain.Country, id string) string {
	return fmt.Sprintf("alert:%s:%s:info", country, id)
}

func alertLocalisedKey(country domain.Country, id string, language domain.Language) string {
	return fmt.Sprintf("alert:%s:%s:localised_%s", country, id, language)
}

func alertAreasKey(country domain.Country, id string) string {
	return fmt.Sprintf("alert:%s:%s:areas", country, id)
}

func areaSetKey(country domain.Country) string {
	return fmt.Sprintf("alerts_area:%s", country)
}

func areaInfoKey(country domain.Country, code string) string {
	return fmt.Sprintf("alerts_area:%s:%s:info", country, code)
}

func areaAlertsKey(country domain.Country, code string) string {
	return fmt.Sprintf("alerts_area:%s:%s:alerts", country, code)
}
