package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSmoothObservations(t *testing.T) {
	layer := func(observation ObservationType, ts string) MapLayer {
		return MapLayer{Observation: observation, Timestamp: ts, URL: "https://example.com/" + ts}
	}

	t.Run("historical to forecast boundary", func(t *testing.T) {
		layers := []MapLayer{
			layer(ObservationHistorical, "1"),
			layer(ObservationHistorical, "2"),
			layer(ObservationForecast, "3"),
			layer(ObservationForecast, "4"),
		}

		result := SmoothObservations(layers)

		assert.Equal(t, ObservationHistorical, result[0].Observation)
		assert.Equal(t, ObservationRecent, result[1].Observation)
		assert.Equal(t, ObservationForecast, result[2].Observation)
		assert.Equal(t, ObservationForecast, result[3].Observation)
	})

	t.Run("all historical relabels final entry", func(t *testing.T) {
		layers := []MapLayer{
			layer(ObservationHistorical, "1"),
			layer(ObservationHistorical, "2"),
			layer(ObservationHistorical, "3"),
		}

		result := SmoothObservations(layers)

		assert.Equal(t, ObservationHistorical, result[0].Observation)
		assert.Equal(t, ObservationHistorical, result[1].Observation)
		assert.Equal(t, ObservationRecent, result[2].Observation)
	})

	t.Run("all forecast relabels final entry", func(t *testing.T) {
		layers := []MapLayer{
			layer(ObservationForecast, "1"),
			layer(ObservationForecast, "2"),
		}

		result := SmoothObservations(layers)

		assert.Equal(t, ObservationForecast, result[0].Observation)
		assert.Equal(t, ObservationRecent, result[1].Observation)
	})

	t.Run("existing recent is untouched", func(t *testing.T) {
		layers := []MapLayer{
			layer(ObservationHistorical, "1"),
			layer(ObservationRecent, "2"),
			layer(ObservationForecast, "3"),
		}

		result := SmoothObservations(layers)

		assert.Equal(t, ObservationHistorical, result[0].Observation)
		assert.Equal(t, ObservationRecent, result[1].Observation)
		assert.Equal(t, ObservationForecast, result[2].Observation)
	})

	t.Run("idempotent", func(t *testing.T) {
		layers := []MapLayer{
			layer(ObservationHistorical, "1"),
			layer(ObservationHistorical, "2"),
			layer(ObservationForecast, "3"),
		}

		once := SmoothObservations(layers)
		snapshot := make([]MapLayer, len(once))
		copy(snapshot, once)
		twice := SmoothObservations(once)

		assert.Equal(t, snapshot, twice)
	})

	t.Run("empty sequence", func(t *testing.T) {
		assert.Empty(t, SmoothObservations(nil))
	})

	t.Run("single entry", func(t *testing.T) {
		layers := []MapLayer{layer(ObservationHistorical, "1")}
		result := SmoothObservations(layers)
		assert.Equal(t, ObservationRecent, result[0].Observation)
	})
}
