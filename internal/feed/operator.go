package feed

import (
	"strings"

	"github.com/voltmap-kh/chargemap/backend-go/internal/models"
)

// OperatorRule maps a case-sensitive name keyword to an operator.
type OperatorRule struct {
	Keyword  string
	Operator models.Operator
}

// DefaultOperatorRules is evaluated in order; the first keyword found in a station
// name decides its operator.
var DefaultOperatorRules = []OperatorRule{
	{Keyword: "PTT", Operator: models.OperatorPTT},
	{Keyword: "Total", Operator: models.OperatorTotalEnergies},
	{Keyword: "BZ", Operator: models.OperatorEVEnergyTech},
	{Keyword: "EV Energy", Operator: models.OperatorEVEnergyTech},
	{Keyword: "BYD", Operator: models.OperatorBYD},
	{Keyword: "ZEEKR", Operator: models.OperatorZEEKR},
	{Keyword: "Charge+", Operator: models.OperatorChargePlus},
}

type Classifier struct {
	rules    []OperatorRule
	fallback models.Operator
}

func NewClassifier(rules []OperatorRule, fallback models.Operator) *Classifier {
	if rules == nil {
		rules = DefaultOperatorRules
	}
	if fallback == "" {
		fallback = models.OperatorIndependent
	}
	return &Classifier{
		rules:    rules,
		fallback: fallback,
	}
}

func (c *Classifier) Classify(name string) models.Operator {
	for _, rule := range c.rules {
		if rule.Keyword != "" && strings.Contains(name, rule.Keyword) {
			return rule.Operator
		}
	}
	return c.fallback
}
