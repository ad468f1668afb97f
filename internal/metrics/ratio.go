package metrics

import (
	"encoding/json"
	"math"
)

// Ratio es un cociente que puede no estar definido (denominador cero).
// Todo cociente del paquete pasa por Div/Percent: nunca sale Inf ni NaN.
type Ratio struct {
	Value float64
	OK    bool
}

func Div(num, den float64) Ratio {
	if den == 0 {
		return Ratio{}
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Ratio{}
	}
	return Ratio{Value: v, OK: true}
}

// Percent calcula 100*num/den; multiplicar antes de dividir mantiene
// exactos los casos redondos (28/35 -> 80).
func Percent(num, den float64) Ratio { return Div(100*num, den) }

// Known envuelve un valor que ya viene calculado en los datos.
func Known(v float64) Ratio { return Ratio{Value: v, OK: true} }

func (r Ratio) Or(def float64) float64 {
	if !r.OK {
		return def
	}
	return r.Value
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.OK {
		return []byte("null"), nil
	}
	return json.Marshal(round3(r.Value))
}

func (r *Ratio) UnmarshalJSON(b []byte) error {
	var v *float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*r = Ratio{}
		return nil
	}
	*r = Known(*v)
	return nil
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round3(f float64) float64 { return math.Round(f*1000) / 1000 }
