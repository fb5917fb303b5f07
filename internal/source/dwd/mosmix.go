package dwd

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ntadej/Vremenar-API/internal/domain"
)

// forecastElements maps the KML element names onto record fields. Elements
// outside this set are ignored.
var forecastElements = map[string]struct{}{
	"TTT":   {}, // temperature (K)
	"Td":    {}, // dew point (K)
	"FF":    {}, // wind speed (m/s)
	"DD":    {}, // wind direction (deg)
	"FX1":   {}, // wind gust speed (m/s)
	"N":     {}, // cloud cover (%)
	"PPPP":  {}, // pressure at mean sea level (Pa)
	"RR1c":  {}, // precipitation over the last hour (kg/m2)
	"SunD1": {}, // sunshine duration over the last hour (s)
	"VV":    {}, // visibility (m)
	"ww":    {}, // present weather code
}

const missingValue = "-"

// ErrSeriesLengthMismatch aborts a parse run when a forecast series does not
// align with the timestamp list. This is a structural defect of the document,
// not a per-station anomaly.
var ErrSeriesLengthMismatch = errors.New("forecast series length does not match timestamp count")

// ForecastRecord is one parsed (station, timestamp) pair. Missing series
// values are nil.
type ForecastRecord struct {
	StationID   string
	SecondaryID string
	Name        string
	Coordinate  domain.Coordinate
	Timestamp   string

	Temperature   *float64
	DewPoint      *float64
	WindSpeed     *float64
	WindDirection *float64
	WindGust      *float64
	CloudCover    *float64
	PressureMSL   *float64
	Precipitation *float64
	Sunshine      *float64
	Visibility    *float64
	ConditionCode *float64
}

// ForecastDocument describes the parsed product header.
type ForecastDocument struct {
	ProductID  string
	IssueTime  string
	Timestamps []string
}

type productDefinition struct {
	ProductID string   `xml:"ProductID"`
	IssueTime string   `xml:"IssueTime"`
	TimeSteps []string `xml:"ForecastTimeSteps>TimeStep"`
}

type placemark struct {
	ID          string            `xml:"name"`
	Description string            `xml:"description"`
	Coordinates string            `xml:"Point>coordinates"`
	Forecasts   []placemarkSeries `xml:"ExtendedData>Forecast"`
}

type placemarkSeries struct {
	ElementName string `xml:"elementName,attr"`
	Value       string `xml:"value"`
}

// ForecastParser streams a MOSMIX KML document, emitting one record per
// (station, timestamp). Each station subtree is decoded and released before
// the next one is read, so memory use is independent of document size.
type ForecastParser struct {
	secondaryIDs map[string]string
	logger       *slog.Logger
}

// NewForecastParser builds a parser. secondaryIDs maps station identifiers
// to the provider's secondary ID scheme; unmatched stations get an empty one.
func NewForecastParser(secondaryIDs map[string]string, logger *slog.Logger) *ForecastParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForecastParser{secondaryIDs: secondaryIDs, logger: logger}
}

// Parse reads the document once, calling emit for every record. An emit error
// stops the run and is returned as-is.
func (p *ForecastParser) Parse(r io.Reader, emit func(ForecastRecord) error) (ForecastDocument, error) {
	decoder := xml.NewDecoder(r)
	var doc ForecastDocument

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return doc, fmt.Errorf("read forecast document: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "ProductDefinition":
			var def productDefinition
			if err := decoder.DecodeElement(&def, &start); err != nil {
				return doc, fmt.Errorf("decode product definition: %w", err)
			}
			doc.ProductID = def.ProductID
			doc.IssueTime = def.IssueTime
			doc.Timestamps, err = parseTimeSteps(def.TimeSteps)
			if err != nil {
				return doc, err
			}
		case "Placemark":
			if len(doc.Timestamps) == 0 {
				return doc, errors.New("station data before forecast timestamps")
			}
			var station placemark
			if err := decoder.DecodeElement(&station, &start); err != nil {
				return doc, fmt.Errorf("decode station subtree: %w", err)
			}
			if err := p.emitStation(station, doc.Timestamps, emit); err != nil {
				return doc, err
			}
		}
	}
	return doc, nil
}

func parseTimeSteps(steps []string) ([]string, error) {
	timestamps := make([]string, len(steps))
	for i, step := range steps {
		at, err := time.Parse(time.RFC3339, strings.TrimSpace(step))
		if err != nil {
			return nil, fmt.Errorf("parse forecast time step %q: %w", step, err)
		}
		timestamps[i] = domain.ToTimestamp(at)
	}
	return timestamps, nil
}

func (p *ForecastParser) emitStation(station placemark, timestamps []string, emit func(ForecastRecord) error) error {
	id := strings.TrimSpace(station.ID)
	name := strings.TrimSpace(station.Description)

	coordinate, err := parseCoordinate(station.Coordinates)
	if err != nil {
		p.logger.Warn("skipping station with unparsable coordinate",
			"station", id, "coordinate", station.Coordinates, "error", err)
		return nil
	}

	series := make(map[string][]*float64, len(forecastElements))
	for _, forecast := range station.Forecasts {
		element := forecast.ElementName
		if _, wanted := forecastElements[element]; !wanted {
			continue
		}
		values, err := parseSeries(forecast.Value)
		if err != nil {
			return fmt.Errorf("station %s element %s: %w", id, element, err)
		}
		if len(values) != len(timestamps) {
			return fmt.Errorf("station %s element %s: %d values for %d timestamps: %w",
				id, element, len(values), len(timestamps), ErrSeriesLengthMismatch)
		}
		series[element] = values
	}

	at := func(element string, i int) *float64 {
		values, ok := series[element]
		if !ok {
			return nil
		}
		return values[i]
	}

	for i, timestamp := range timestamps {
		record := ForecastRecord{
			StationID:     id,
			SecondaryID:   p.secondaryIDs[id],
			Name:          name,
			Coordinate:    coordinate,
			Timestamp:     timestamp,
			Temperature:   at("TTT", i),
			DewPoint:      at("Td", i),
			WindSpeed:     at("FF", i),
			WindDirection: at("DD", i),
			WindGust:      at("FX1", i),
			CloudCover:    at("N", i),
			PressureMSL:   at("PPPP", i),
			Precipitation: at("RR1c", i),
			Sunshine:      at("SunD1", i),
			Visibility:    at("VV", i),
			ConditionCode: at("ww", i),
		}
		p.sanitize(&record)
		if err := emit(record); err != nil {
			return err
		}
	}
	return nil
}

func parseCoordinate(raw string) (domain.Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != 3 {
		return domain.Coordinate{}, fmt.Errorf("expected lon,lat,height, got %q", raw)
	}
	longitude, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return domain.Coordinate{}, err
	}
	latitude, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return domain.Coordinate{}, err
	}
	altitude, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return domain.Coordinate{}, err
	}
	return domain.Coordinate{Latitude: latitude, Longitude: longitude, Altitude: altitude}, nil
}

func parseSeries(raw string) ([]*float64, error) {
	tokens := strings.Fields(raw)
	values := make([]*float64, len(tokens))
	for i, token := range tokens {
		if token == missingValue {
			continue
		}
		value, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, fmt.Errorf("parse series value %q: %w", token, err)
		}
		values[i] = &value
	}
	return values, nil
}

func (p *ForecastParser) sanitize(record *ForecastRecord) {
	if record.Precipitation != nil && *record.Precipitation < 0 {
		p.logger.Warn("dropping negative precipitation",
			"station", record.StationID, "timestamp", record.Timestamp, "value", *record.Precipitation)
		record.Precipitation = nil
	}
	if record.WindDirection != nil && *record.WindDirection >= 360 {
		wrapped := math.Mod(*record.WindDirection, 360)
		p.logger.Warn("wrapping wind direction",
			"station", record.StationID, "timestamp", record.Timestamp, "value", *record.WindDirection)
		record.WindDirection = &wrapped
	}
}
