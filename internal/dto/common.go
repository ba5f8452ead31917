package dto

import (
	"encoding/json"
	"fmt"
	"math"
)

// Ratio is a metric that may be undefined because its denominator is zero.
// It serialises as a number when defined and as its reason string otherwise,
// so infinities never reach a report.
type Ratio struct {
	Value   float64
	Defined bool
	Reason  string
}

func DefinedRatio(v float64) Ratio {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Ratio{Value: 0, Defined: true}
	}
	return Ratio{Value: v, Defined: true}
}

func UndefinedRatio(reason string) Ratio {
	return Ratio{Reason: reason}
}

func (r Ratio) String() string {
	if !r.Defined {
		return r.Reason
	}
	return fmt.Sprintf("%.4f", r.Value)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return json.Marshal(r.Reason)
	}
	return json.Marshal(r.Value)
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	var reason string
	if err := json.Unmarshal(data, &reason); err == nil {
		*r = UndefinedRatio(reason)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("ratio must be a number or a reason string: %w", err)
	}
	*r = DefinedRatio(v)
	return nil
}
