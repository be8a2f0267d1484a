package models

// Feature is one raw station record. Property key names vary between dataset versions.
type Feature struct {
	Type       string                 `json:"type,omitempty"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   *Geometry              `json:"geometry"`
}

type Geometry struct {
	Type        string        `json:"type,omitempty"`
	Coordinates []interface{} `json:"coordinates"` // [lng, lat]
}
