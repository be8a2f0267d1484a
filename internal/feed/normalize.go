package feed

import (
	"strconv"
	"strings"

	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

const (
	DefaultName          = "Unknown Station"
	DefaultConnector     = "Type 2"
	DefaultOperationTime = "24/7"
	DefaultAddress       = "Cambodia"
	stationIDPrefix      = "station-"
)

type Normalizer struct {
	classifier       *Classifier
	defaultConnector string
	defaultPoint     models.LatLng
}

type NormalizerOption func(*Normalizer)

// WithOperatorRules replaces the operator rule set.
func WithOperatorRules(rules []OperatorRule, fallback models.Operator) NormalizerOption {
	return func(n *Normalizer) {
		n.classifier = NewClassifier(rules, fallback)
	}
}

func WithDefaultConnector(token string) NormalizerOption {
	return func(n *Normalizer) {
		if token != "" {
			n.defaultConnector = token
		}
	}
}

// WithDefaultPoint sets the position given to features without usable coordinates.
func WithDefaultPoint(p models.LatLng) NormalizerOption {
	return func(n *Normalizer) {
		if p.Valid() {
			n.defaultPoint = p
		}
	}
}

func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		classifier:       NewClassifier(nil, ""),
		defaultConnector: DefaultConnector,
		defaultPoint:     models.PhnomPenh,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

var defaultNormalizer = NewNormalizer()

// Normalize maps raw features to stations using the default rules.
func Normalize(features []models.Feature) []models.Station {
	return defaultNormalizer.Normalize(features)
}

// Normalize returns exactly one station per feature, in input order.
func (n *Normalizer) Normalize(features []models.Feature) []models.Station {
	stations := make([]models.Station, len(features))
	for i, f := range features {
		stations[i] = n.normalizeFeature(i, f)
	}
	return stations
}

func (n *Normalizer) normalizeFeature(index int, f models.Feature) models.Station {
	props := f.Properties // nil maps read as empty

	name := strings.TrimSpace(NameKeys.LookupOr(props, DefaultName))
	address := strings.TrimSpace(AddressKeys.LookupOr(props, DefaultAddress))

	return models.Station{
		ID:            stationIDPrefix + strconv.Itoa(index),
		Name:          name,
		Operator:      n.classifier.Classify(name),
		Connectors:    n.connectors(props),
		OperationTime: strings.TrimSpace(OperationTimeKeys.LookupOr(props, DefaultOperationTime)),
		Coordinates:   n.coordinates(f.Geometry),
		Address:       &address,
	}
}

func (n *Normalizer) connectors(props map[string]interface{}) []string {
	raw, ok := PlugTypeKeys.Lookup(props)
	if !ok {
		return []string{n.defaultConnector}
	}
	tokens := SplitConnectors(raw)
	if len(tokens) == 0 {
		return []string{n.defaultConnector}
	}
	return tokens
}

// SplitConnectors splits a plug-type string on "/" and trims each token. Empty tokens
// are dropped. GB/T is a single connector token that contains the separator, so an
// adjacent "GB" "T" pair is always rejoined, including spaced forms like "GB / T".
// A lone "GB" or "T" is kept as is.
func SplitConnectors(raw string) []string {
	parts := strings.Split(raw, "/")
	tokens := make([]string, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		token := strings.TrimSpace(parts[i])
		if token == "" {
			continue
		}
		if strings.EqualFold(token, "GB") && i+1 < len(parts) && strings.EqualFold(strings.TrimSpace(parts[i+1]), "T") {
			token = "GB/T"
			i++
		}
		tokens = append(tokens, token)
	}
	return tokens
}

func (n *Normalizer) coordinates(g *models.Geometry) models.LatLng {
	if g == nil || len(g.Coordinates) < 2 {
		return n.defaultPoint
	}
	lng, okLng := g.Coordinates[0].(float64)
	lat, okLat := g.Coordinates[1].(float64)
	if !okLng || !okLat {
		return n.defaultPoint
	}
	p := models.LatLng{Lat: lat, Lng: lng}
	if !p.Valid() {
		return n.defaultPoint
	}
	return p
}
