package cooling

import "math"

// Point is one sample of the temperature curve.
type Point struct {
	Time        float64 `json:"time"`
	Temperature float64 `json:"temperature"`
}

// Temperature is the numeric T(t) for rate constant k.
func (b *Body) Temperature(k, t float64) float64 {
	return b.Ambient + (b.Initial-b.Ambient)*math.Exp(-k*t)
}

// Rate is the numeric dT/dt = -k*(T(t) - Tamb).
func (b *Body) Rate(k, t float64) float64 {
	return -k * (b.Temperature(k, t) - b.Ambient)
}

func (b *Body) Evaluate(k float64, times []float64) []float64 {
	out := make([]float64, len(times))
	for i, t := range times {
		out[i] = b.Temperature(k, t)
	}
	return out
}

// Curve samples n evenly spaced points of T on [start, end].
func (b *Body) Curve(k, start, end float64, n int) []Point {
	times := Linspace(start, end, n)
	out := make([]Point, len(times))
	for i, t := range times {
		out[i] = Point{Time: t, Temperature: b.Temperature(k, t)}
	}
	return out
}

// Linspace returns n evenly spaced values from start to end inclusive.
func Linspace(start, end float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{start}
	}
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = end
	return out
}

// TimeToReach inverts T(t) = target.
func (b *Body) TimeToReach(k, target float64) (float64, error) {
	if target == b.Initial {
		return 0, nil
	}
	ratio := (target - b.Ambient) / (b.Initial - b.Ambient)
	if k <= 0 || !(ratio > 0 && ratio < 1) {
		return 0, &ValidationError{Field: "target temperature", Err: ErrUnreachable}
	}
	return -math.Log(ratio) / k, nil
}

// HalfLife is the time for the excess over ambient to halve.
func HalfLife(k float64) float64 {
	if k <= 0 {
		return math.Inf(1)
	}
	return math.Ln2 / k
}
