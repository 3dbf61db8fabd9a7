package ica

import "math"

// ContrastFunc is a FastICA nonlinearity. Apply overwrites each y with g(y)
// and writes the derivative g'(y) at the same index into dy.
type ContrastFunc interface {
	Apply(y, dy []float64)
}

// Func returns the ContrastFunc for c. Unknown values fall back to tanh.
func (c Contrast) Func() ContrastFunc {
	switch c {
	case Cube:
		return cubeContrast{}
	case Gauss:
		return gaussContrast{}
	default:
		return tanhContrast{}
	}
}

type tanhContrast struct{}

func (tanhContrast) Apply(y, dy []float64) {
	for i, v := range y {
		g := math.Tanh(v)
		y[i] = g
		dy[i] = 1 - g*g
	}
}

type cubeContrast struct{}

func (cubeContrast) Apply(y, dy []float64) {
	for i, v := range y {
		sq := v * v
		y[i] = sq * v
		dy[i] = 3 * sq
	}
}

type gaussContrast struct{}

func (gaussContrast) Apply(y, dy []float64) {
	for i, v := range y {
		sq := v * v
		e := math.Exp(-sq / 2)
		y[i] = v * e
		dy[i] = (1 - sq) * e
	}
}
