package station

import "github.com/voltmap-kh/chargemap/backend-go/internal/models"

// Summarize counts stations per operator and per connector token. Every known operator
// appears in the result, with zero when absent.
func Summarize(stations []models.Station) models.NetworkSummary {
	summary := models.NetworkSummary{
		TotalStations: len(stations),
		ByOperator:    make(map[models.Operator]int, len(models.Operators)),
		ByConnector:   make(map[string]int),
	}
	for _, op := range models.Operators {
		summary.ByOperator[op] = 0
	}

	for _, s := range stations {
		summary.ByOperator[s.Operator]++
		seen := make(map[string]struct{}, len(s.Connectors))
		for _, c := range s.Connectors {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			summary.ByConnector[c]++
		}
	}

	return summary
}
