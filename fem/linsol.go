// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/lin"
)

// DenseLinSol solves dense systems by LU factorisation with partial pivoting
type DenseLinSol struct {
	lu mat.LU
}

// GJLinSol solves dense systems by Gauss-Jordan inversion
type GJLinSol struct {
	inv *lin.Matrix
}

// set factory
func init() {
	linsolallocators["lu"] = func() LinSol { return new(DenseLinSol) }
	linsolallocators["gj"] = func() LinSol { return new(GJLinSol) }
}

// Solve solves K·x = b
func (o *DenseLinSol) Solve(x []float64, K *lin.Matrix, b []float64) (err error) {
	n := K.M
	if K.N != n || len(x) != n || len(b) != n {
		return fmt.Errorf("lu: incompatible dimensions: K is %d×%d, len(x)=%d, len(b)=%d", K.M, K.N, len(x), len(b))
	}
	if n == 0 {
		return
	}
	o.lu.Factorize(mat.NewDense(n, n, K.Data))
	if math.IsInf(o.lu.Cond(), 1) {
		return fmt.Errorf("%w: lu factorisation failed", lin.ErrSingular)
	}
	var xv mat.VecDense
	err = o.lu.SolveVecTo(&xv, false, mat.NewVecDense(n, b))
	if err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return fmt.Errorf("%w: %v", lin.ErrSingular, err)
		}
		err = nil // ill-conditioned but solved
	}
	for i := 0; i < n; i++ {
		x[i] = xv.AtVec(i)
	}
	return
}

// Solve solves K·x = b
func (o *GJLinSol) Solve(x []float64, K *lin.Matrix, b []float64) (err error) {
	n := K.M
	if K.N != n || len(x) != n || len(b) != n {
		return fmt.Errorf("gj: incompatible dimensions: K is %d×%d, len(x)=%d, len(b)=%d", K.M, K.N, len(x), len(b))
	}
	o.inv = K.Copy()
	err = lin.Inverse(o.inv)
	if err != nil {
		return
	}
	lin.MatVecMul(x, o.inv, b)
	return
}
