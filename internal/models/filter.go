package models

// Filter holds the inclusion criteria for ranking. An empty set on either axis places
// no constraint on that axis.
type Filter struct {
	Connectors []string   `json:"connectors,omitempty"`
	Operators  []Operator `json:"operators,omitempty"`
	Query      string     `json:"query,omitempty"`
}

func (f Filter) IsEmpty() bool {
	return len(f.Connectors) == 0 && len(f.Operators) == 0 && f.Query == ""
}

func (f Filter) ConnectorSet() map[string]struct{} {
	set := make(map[string]struct{}, len(f.Connectors))
	for _, c := range f.Connectors {
		set[c] = struct{}{}
	}
	return set
}

func (f Filter) OperatorSet() map[Operator]struct{} {
	set := make(map[Operator]struct{}, len(f.Operators))
	for _, o := range f.Operators {
		set[o] = struct{}{}
	}
	return set
}
