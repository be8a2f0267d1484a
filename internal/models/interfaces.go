package models

import "context"

type StationFinder interface {
	FindStation(ctx context.Context, stationID string) (*Station, error)
	FindNearestStations(ctx context.Context, ref LatLng, filter Filter, limit int) ([]Station, error)
}

// NetworkSummary counts stations in the loaded feed.
type NetworkSummary struct {
	TotalStations int              `json:"totalStations"`
	ByOperator    map[Operator]int `json:"byOperator"`
	ByConnector   map[string]int   `json:"byConnector"`
}

type SummaryProvider interface {
	Summary(ctx context.Context) (*NetworkSummary, error)
}
