package models

import (
	"encoding/json"
	"fmt"
	"math"
)

type Operator string

const (
	OperatorPTT           Operator = "PTT"
	OperatorTotalEnergies Operator = "Total Energies"
	OperatorEVEnergyTech  Operator = "EV Energy Tech"
	OperatorBYD           Operator = "BYD"
	OperatorZEEKR         Operator = "ZEEKR"
	OperatorChargePlus    Operator = "Charge+"
	OperatorIndependent   Operator = "Independent"
)

// Operators lists every operator category in display order.
var Operators = []Operator{
	OperatorPTT,
	OperatorTotalEnergies,
	OperatorEVEnergyTech,
	OperatorBYD,
	OperatorZEEKR,
	OperatorChargePlus,
	OperatorIndependent,
}

func (o Operator) Valid() bool {
	for _, known := range Operators {
		if o == known {
			return true
		}
	}
	return false
}

// LatLng is a point in degrees. It encodes to JSON as [lat, lng].
type LatLng struct {
	Lat float64
	Lng float64
}

// PhnomPenh is the map center used when a feature carries no usable position.
var PhnomPenh = LatLng{Lat: 11.55, Lng: 104.91}

func (p LatLng) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func (p LatLng) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng)
}

func (p LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lng})
}

func (p *LatLng) UnmarshalJSON(data []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("decoding coordinates: %w", err)
	}
	p.Lat, p.Lng = pair[0], pair[1]
	return nil
}

type Station struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Operator      Operator `json:"operator"`
	Connectors    []string `json:"connectors"`
	OperationTime string   `json:"operation_time"`
	Coordinates   LatLng   `json:"coordinates"`
	Address       *string  `json:"address,omitempty"`
	Distance      *float64 `json:"distance,omitempty"`
}

// HasConnector reports whether the station offers any of the given connector tokens.
func (s Station) HasConnector(tokens map[string]struct{}) bool {
	for _, c := range s.Connectors {
		if _, ok := tokens[c]; ok {
			return true
		}
	}
	return false
}

// Clone returns a deep copy. The copy shares no connectors, address or distance
// storage with s.
func (s Station) Clone() Station {
	if s.Connectors != nil {
		s.Connectors = append([]string(nil), s.Connectors...)
	}
	if s.Address != nil {
		address := *s.Address
		s.Address = &address
	}
	if s.Distance != nil {
		distance := *s.Distance
		s.Distance = &distance
	}
	return s
}

// CloneStations deep-copies every station. A nil slice stays nil.
func CloneStations(stations []Station) []Station {
	if stations == nil {
		return nil
	}
	out := make([]Station, len(stations))
	for i, s := range stations {
		out[i] = s.Clone()
	}
	return out
}

// WithDistance returns a copy of the station annotated with a distance in kilometres.
func (s Station) WithDistance(km float64) Station {
	s.Distance = &km
	return s
}

func (s Station) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("station id is empty")
	}
	if !s.Operator.Valid() {
		return fmt.Errorf("unknown operator %q for station %s", s.Operator, s.ID)
	}
	if len(s.Connectors) == 0 {
		return fmt.Errorf("station %s has no connectors", s.ID)
	}
	if !s.Coordinates.Valid() {
		return fmt.Errorf("station %s has invalid coordinates %s", s.ID, s.Coordinates)
	}
	return nil
}
