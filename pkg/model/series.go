package model

import (
	"encoding/json"
	"math"
	"strconv"
)

// Series is a float64 array whose JSON form keeps the statistical sentinel
// semantics: non-finite values (the documented "not computable" marker)
// encode as null and decode back as NaN. Finite values use the shortest
// representation that parses back to the identical bits.
type Series []float64

func (s Series) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, len(s)*8+2)
	buf = append(buf, '[')
	for i, v := range s {
		if i > 0 {
			buf = append(buf, ',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf = append(buf, "null"...)
		} else {
			buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		}
	}
	buf = append(buf, ']')
	return buf, nil
}

func (s *Series) UnmarshalJSON(data []byte) error {
	var raw []*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Series, len(raw))
	for i, v := range raw {
		if v == nil {
			out[i] = math.NaN()
		} else {
			out[i] = *v
		}
	}
	*s = out
	return nil
}
