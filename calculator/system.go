package calculator

import (
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// SystemResidual assembles the backward Euler system A·x = b over the interior
// nodes,
//
//	(1+2r)·x[i] - r·x[i-1] - r·x[i+1] = prev[i]
//
// with the boundary values of next moved to b, and returns ||A·x - b||_1 for
// x = next[1:n-1]. It measures how well the Gauss-Seidel iterate solves the
// linear system, independently of the sweep-to-sweep residual.
func SystemResidual(r float64, prev, next []float64) float64 {
	n := len(prev)
	m := n - 2
	if m <= 0 || len(next) != n {
		return 0
	}

	a := sparse.NewDOK(m, m)
	b := mat.NewVecDense(m, nil)
	for k := 0; k < m; k++ {
		i := k + 1
		rhs := prev[i]
		a.Set(k, k, 1+2*r)
		if k > 0 {
			a.Set(k, k-1, -r)
		} else {
			rhs += r * next[0]
		}
		if k < m-1 {
			a.Set(k, k+1, -r)
		} else {
			rhs += r * next[n-1]
		}
		b.SetVec(k, rhs)
	}

	x := mat.NewVecDense(m, append([]float64(nil), next[1:n-1]...))
	var ax mat.VecDense
	ax.MulVec(a.ToCSR(), x)
	ax.SubVec(&ax, b)
	return mat.Norm(&ax, 1)
}
