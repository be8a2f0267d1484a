package cache

import (
	"time"

	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

// mockClock implements clock interface for testing
type mockClock struct {
	now time.Time
}

func (m *mockClock) Now() time.Time {
	return m.now
}

func (m *mockClock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}

func strPtr(s string) *string {
	return &s
}

// Helper function to create test stations
func createTestStations() []models.Station {
	return []models.Station{
		{
			ID:            "station-0",
			Name:          "PTT Station A",
			Operator:      models.OperatorPTT,
			Connectors:    []string{"CCS2", "Type 2"},
			OperationTime: "24/7",
			Coordinates:   models.LatLng{Lat: 11.55, Lng: 104.91},
			Address:       strPtr("Cambodia"),
		},
		{
			ID:            "station-1",
			Name:          "Total Energies Sihanoukville",
			Operator:      models.OperatorTotalEnergies,
			Connectors:    []string{"CCS2"},
			OperationTime: "6:00-22:00",
			Coordinates:   models.LatLng{Lat: 10.6093, Lng: 103.5296},
			Address:       strPtr("Sihanoukville"),
		},
	}
}
