// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lin

import (
	"errors"
	"fmt"

	"github.com/cpmech/gosl/chk"
)

// ErrSingular is returned by Inverse when a pivot column has no non-zero entry
var ErrSingular = errors.New("matrix is singular")

// Transform computes the congruence K = Tᵗ · k · T
//
//	Input:
//	 k -- [n][n] matrix in local axes; e.g. element stiffness
//	 T -- [n][n] transformation matrix (global to local)
//	Output:
//	 K -- [n][n] matrix in global axes
func Transform(K, k, T *Matrix) (err error) {

	// check
	n := k.M
	if k.N != n || T.M != n || T.N != n || K.M != n || K.N != n {
		return chk.Err("Transform: all matrices must be %d×%d. k:(%d×%d) T:(%d×%d) K:(%d×%d)", n, n, k.M, k.N, T.M, T.N, K.M, K.N)
	}

	// tmp := Tᵗ · k
	tmp := make([]float64, n*n)
	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum = 0
			for p := 0; p < n; p++ {
				sum += T.Data[p*n+i] * k.Data[p*n+j]
			}
			tmp[i*n+j] = sum
		}
	}

	// K := tmp · T
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			sum = 0
			for p := 0; p < n; p++ {
				sum += tmp[i*n+p] * T.Data[p*n+j]
			}
			K.Data[i*n+j] = sum
		}
	}
	return
}

// Inverse inverts a square matrix in place using Gauss-Jordan elimination on the augmented
// matrix [a | I]. The pivot of each column is the first non-zero entry at or below the
// diagonal; there is no magnitude-based pivot selection.
//
//	Note: a is not modified when ErrSingular is returned
func Inverse(a *Matrix) (err error) {

	// check
	n := a.M
	if a.N != n {
		return chk.Err("Inverse: matrix must be square. (%d×%d) is invalid", a.M, a.N)
	}

	// augmented matrix
	m := 2 * n
	aug := make([]float64, n*m)
	for i := 0; i < n; i++ {
		copy(aug[i*m:i*m+n], a.Data[i*n:(i+1)*n])
		aug[i*m+n+i] = 1
	}

	// elimination
	var c float64
	for i := 0; i < n; i++ {

		// first row at or below i with non-zero entry in column i
		k := -1
		for j := i; j < n; j++ {
			if aug[j*m+i] != 0 {
				k = j
				break
			}
		}
		if k < 0 {
			return fmt.Errorf("%w: zero pivot column %d", ErrSingular, i)
		}

		// swap rows
		if k != i {
			for j := 0; j < m; j++ {
				aug[i*m+j], aug[k*m+j] = aug[k*m+j], aug[i*m+j]
			}
		}

		// zero out column i above and below row i
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			c = aug[j*m+i] / aug[i*m+i]
			if c == 0 {
				continue
			}
			for p := 0; p < m; p++ {
				aug[j*m+p] -= c * aug[i*m+p]
			}
		}
	}

	// left part is diagonal now
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Data[i*n+j] = aug[i*m+n+j] / aug[i*m+i]
		}
	}
	return
}
