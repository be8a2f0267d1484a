package models

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string {
	return &s
}

func TestStationSerialization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		station   Station
		wantError bool
	}{
		{
			name: "complete station",
			station: Station{
				ID:            "station-0",
				Name:          "PTT Station A",
				Operator:      OperatorPTT,
				Connectors:    []string{"CCS2", "Type 2"},
				OperationTime: "24/7",
				Coordinates:   LatLng{Lat: 11.55, Lng: 104.91},
				Address:       stringPtr("Phnom Penh"),
			},
			wantError: false,
		},
		{
			name: "minimal station",
			station: Station{
				ID:          "station-1",
				Name:        "Unknown Station",
				Operator:    OperatorIndependent,
				Connectors:  []string{"Type 2"},
				Coordinates: PhnomPenh,
			},
			wantError: false,
		},
		{
			name: "invalid operator",
			station: Station{
				ID:          "station-2",
				Name:        "Mystery",
				Operator:    Operator("Shell"),
				Connectors:  []string{"Type 2"},
				Coordinates: PhnomPenh,
			},
			wantError: true,
		},
		{
			name: "no connectors",
			station: Station{
				ID:          "station-3",
				Name:        "Bare",
				Operator:    OperatorBYD,
				Coordinates: PhnomPenh,
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			data, err := json.Marshal(tt.station)
			require.NoError(t, err, "JSON marshaling should not fail")

			var decoded Station
			err = json.Unmarshal(data, &decoded)
			require.NoError(t, err, "JSON unmarshaling should not fail")
			assert.Equal(t, tt.station, decoded)

			err = decoded.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCoordinatesEncodeAsLatLngPair(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Station{ID: "station-0", Coordinates: LatLng{Lat: 11.55, Lng: 104.91}})
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []interface{}{11.55, 104.91}, raw["coordinates"])
	assert.NotContains(t, raw, "distance")
}

func TestWithDistance(t *testing.T) {
	t.Parallel()

	original := Station{ID: "station-0"}
	annotated := original.WithDistance(4.2)

	require.NotNil(t, annotated.Distance)
	assert.Equal(t, 4.2, *annotated.Distance)
	assert.Nil(t, original.Distance, "original station must not be mutated")
}

func TestStationClone(t *testing.T) {
	t.Parallel()

	original := Station{
		ID:         "station-0",
		Name:       "PTT Station A",
		Connectors: []string{"CCS2", "Type 2"},
		Address:    stringPtr("Phnom Penh"),
	}.WithDistance(1.5)

	clone := original.Clone()
	require.Equal(t, original, clone)

	clone.Connectors[0] = "GB/T"
	*clone.Address = "Siem Reap"
	*clone.Distance = 9

	assert.Equal(t, []string{"CCS2", "Type 2"}, original.Connectors)
	assert.Equal(t, "Phnom Penh", *original.Address)
	assert.Equal(t, 1.5, *original.Distance)
}

func TestCloneStations(t *testing.T) {
	t.Parallel()

	assert.Nil(t, CloneStations(nil))

	stations := []Station{{ID: "station-0", Connectors: []string{"CCS2"}}}
	cloned := CloneStations(stations)
	cloned[0].ID = "station-9"
	cloned[0].Connectors[0] = "Type 2"

	assert.Equal(t, "station-0", stations[0].ID)
	assert.Equal(t, []string{"CCS2"}, stations[0].Connectors)
}

func TestLatLngValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		point LatLng
		want  bool
	}{
		{"city center", PhnomPenh, true},
		{"poles and antimeridian", LatLng{Lat: -90, Lng: 180}, true},
		{"latitude out of range", LatLng{Lat: 91, Lng: 0}, false},
		{"longitude out of range", LatLng{Lat: 0, Lng: -181}, false},
		{"nan", LatLng{Lat: math.NaN(), Lng: 0}, false},
		{"inf", LatLng{Lat: 0, Lng: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.point.Valid())
		})
	}
}

func TestFilterSets(t *testing.T) {
	t.Parallel()

	f := Filter{
		Connectors: []string{"CCS2", "CCS2", "GB/T"},
		Operators:  []Operator{OperatorPTT},
	}

	assert.False(t, f.IsEmpty())
	assert.Len(t, f.ConnectorSet(), 2)
	assert.Contains(t, f.OperatorSet(), OperatorPTT)
	assert.True(t, Filter{}.IsEmpty())
}

func TestStationHasConnector(t *testing.T) {
	t.Parallel()

	s := Station{Connectors: []string{"CCS2", "Type 2"}}
	assert.True(t, s.HasConnector(map[string]struct{}{"Type 2": {}}))
	assert.False(t, s.HasConnector(map[string]struct{}{"CHAdeMO": {}}))
	assert.False(t, s.HasConnector(map[string]struct{}{}))
}
