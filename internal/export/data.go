package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/coolsim/internal/cooling"
)

func WriteCSV(w io.Writer, curve []cooling.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "temperature"}); err != nil {
		return err
	}
	for _, p := range curve {
		row := []string{
			strconv.FormatFloat(p.Time, 'f', -1, 64),
			strconv.FormatFloat(p.Temperature, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CurveReport is the JSON document emitted for a sampled curve.
type CurveReport struct {
	Initial     float64         `json:"initial"`
	Ambient     float64         `json:"ambient"`
	Rate        float64         `json:"k"`
	Expression  string          `json:"expression"`
	Derivative  string          `json:"first_derivative"`
	Derivative2 string          `json:"second_derivative"`
	Points      []cooling.Point `json:"points"`
}

func NewCurveReport(body *cooling.Body, k float64, curve []cooling.Point) CurveReport {
	return CurveReport{
		Initial:     body.Initial,
		Ambient:     body.Ambient,
		Rate:        k,
		Expression:  body.Expression().String(),
		Derivative:  body.FirstDerivative().String(),
		Derivative2: body.SecondDerivative().String(),
		Points:      curve,
	}
}

func WriteJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
