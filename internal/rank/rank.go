// Package rank filters stations and orders them by distance from a reference point.
package rank

import (
	"sort"
	"strings"

	"github.com/voltmap-kh/chargemap/backend-go/internal/geo"
	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

// Matcher is a compiled Filter.
type Matcher struct {
	connectors map[string]struct{}
	operators  map[models.Operator]struct{}
	query      string
}

func NewMatcher(filter models.Filter) *Matcher {
	return &Matcher{
		connectors: filter.ConnectorSet(),
		operators:  filter.OperatorSet(),
		query:      strings.ToLower(strings.TrimSpace(filter.Query)),
	}
}

// Match is the conjunction of the connector, operator and query constraints. Each
// constraint is satisfied when it is empty.
func (m *Matcher) Match(s models.Station) bool {
	if len(m.connectors) > 0 && !s.HasConnector(m.connectors) {
		return false
	}
	if len(m.operators) > 0 {
		if _, ok := m.operators[s.Operator]; !ok {
			return false
		}
	}
	if m.query != "" &&
		!strings.Contains(strings.ToLower(s.Name), m.query) &&
		!strings.Contains(strings.ToLower(string(s.Operator)), m.query) {
		return false
	}
	return true
}

// Rank annotates matching stations with their distance from ref and returns them
// nearest first. Stations at equal distance keep their input order. The result shares
// no storage with the input, which is not modified.
func Rank(stations []models.Station, ref models.LatLng, filter models.Filter) []models.Station {
	m := NewMatcher(filter)

	ranked := make([]models.Station, 0, len(stations))
	for _, s := range stations {
		if !m.Match(s) {
			continue
		}
		ranked = append(ranked, s.Clone().WithDistance(geo.Distance(ref, s.Coordinates)))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Distance < *ranked[j].Distance
	})

	return ranked
}

// Nearest is Rank truncated to limit results. A non-positive limit returns everything.
func Nearest(stations []models.Station, ref models.LatLng, filter models.Filter, limit int) []models.Station {
	ranked := Rank(stations, ref, filter)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
