package ica

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-eeg/linalg"
)

const jadeMaxSweeps = 100

// jade is the workspace of joint approximate diagonalization.
type jade struct {
	n         int
	threshold float64
	cumulants []*linalg.Matrix // n(n+1)/2 symmetric n×n matrices
	weighted  *linalg.Matrix   // z scaled per observation
	v         *linalg.Matrix   // accumulated rotation
}

func newJADE(p Params) *jade {
	n := p.NumVariables
	j := &jade{
		n:         n,
		threshold: 1 / (100 * math.Sqrt(float64(p.NumObservations))),
		cumulants: make([]*linalg.Matrix, n*(n+1)/2),
		weighted:  linalg.New(n, p.NumObservations),
		v:         linalg.New(n, n),
	}
	for i := range j.cumulants {
		j.cumulants[i] = linalg.New(n, n)
	}
	return j
}

// run diagonalizes the cumulants of whitened observations z and returns the
// rotation V and the number of sweeps.
func (j *jade) run(z *linalg.Matrix) (*linalg.Matrix, int, error) {
	if err := j.formCumulants(z); err != nil {
		return nil, 0, err
	}

	j.v.Zero()
	for i := 0; i < j.n; i++ {
		j.v.Set(i, i, 1)
	}

	sweeps := 0
	for rotated := true; rotated && sweeps < jadeMaxSweeps; {
		rotated = false
		sweeps++
		for p := 0; p < j.n-1; p++ {
			for q := p + 1; q < j.n; q++ {
				theta := j.angle(p, q)
				if math.Abs(theta) > j.threshold {
					rotated = true
					j.rotate(p, q, math.Cos(theta), math.Sin(theta))
				}
			}
		}
	}
	return j.v, sweeps, nil
}

// formCumulants fills one matrix per variable v,
// Q = E[z_v²·z·zᵀ] - I - 2·e_v·e_vᵀ, and one per pair v2 < v,
// Q = E[z_v·z_v2·z·zᵀ] - e_v·e_v2ᵀ - e_v2·e_vᵀ.
func (j *jade) formCumulants(z *linalg.Matrix) error {
	scale := 1 / float64(z.Cols)
	k := 0
	for v := 0; v < j.n; v++ {
		for v2 := 0; v2 <= v; v2++ {
			for c := 0; c < z.Cols; c++ {
				col := z.Col(c)
				vecmath.ScaleBlock(j.weighted.Col(c), col, scale*col[v]*col[v2])
			}
			q := j.cumulants[k]
			if err := linalg.MultiplyTransB(q, j.weighted, z); err != nil {
				return fmt.Errorf("ica: cumulants: %w", err)
			}
			if v2 == v {
				for i := 0; i < j.n; i++ {
					q.Data[i*q.LD+i]--
				}
				q.Data[v*q.LD+v] -= 2
			} else {
				q.Data[v2*q.LD+v]--
				q.Data[v*q.LD+v2]--
			}
			k++
		}
	}
	return nil
}

// angle returns the Givens angle that best jointly diagonalizes the (p, q)
// plane of every cumulant matrix.
func (j *jade) angle(p, q int) float64 {
	var gx, gy, gz float64
	for _, m := range j.cumulants {
		on := m.Data[p*m.LD+p] - m.Data[q*m.LD+q]
		off := 2 * m.Data[q*m.LD+p]
		gx += on * on
		gy += on * off
		gz += off * off
	}
	on := gx - gz
	off := 2 * gy
	return 0.5 * math.Atan2(off, on+math.Sqrt(on*on+off*off))
}

// rotate applies the rotation in the (p, q) plane to the upper triangle of
// every cumulant matrix and accumulates it into V.
func (j *jade) rotate(p, q int, c, s float64) {
	cc, ss, cs := c*c, s*s, c*s
	for _, m := range j.cumulants {
		ld, d := m.LD, m.Data
		pp, qq, pq := p*ld+p, q*ld+q, q*ld+p

		app, aqq, apq := d[pp], d[qq], d[pq]
		d[pq] = (cc-ss)*apq + cs*(aqq-app)
		d[pp] = cc*app + ss*aqq + 2*cs*apq
		d[qq] = ss*app + cc*aqq - 2*cs*apq

		// Remaining upper-triangle entries of rows and columns p and q.
		for r := 0; r < p; r++ {
			givens(d, p*ld+r, q*ld+r, c, s)
		}
		for col := p + 1; col < q; col++ {
			givens(d, col*ld+p, q*ld+col, c, s)
		}
		for col := q + 1; col < j.n; col++ {
			givens(d, col*ld+p, col*ld+q, c, s)
		}
	}
	givensCols(j.v.Col(p), j.v.Col(q), c, s)
}

func givens(d []float64, ip, iq int, c, s float64) {
	a, b := d[ip], d[iq]
	d[ip] = c*a + s*b
	d[iq] = c*b - s*a
}

func givensCols(cp, cq []float64, c, s float64) {
	for r := range cp {
		a, b := cp[r], cq[r]
		cp[r] = c*a + s*b
		cq[r] = c*b - s*a
	}
}
