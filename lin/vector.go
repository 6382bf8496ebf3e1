// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lin

import "math"

// Dot returns the dot product of the first len(a) entries of a and b
func Dot(a, b []float64) (res float64) {
	for i := 0; i < len(a); i++ {
		res += a[i] * b[i]
	}
	return
}

// Norm returns the Euclidean norm of a
func Norm(a []float64) float64 {
	return math.Sqrt(Dot(a, a))
}

// Cross computes c = a × b for 3-vectors. If normalize is true, c is divided by its length.
//
//	Note: a zero-length result with normalize == true yields NaNs; callers must avoid it
func Cross(a, b, c []float64, normalize bool) {
	c0 := a[1]*b[2] - a[2]*b[1]
	c1 := a[2]*b[0] - a[0]*b[2]
	c2 := a[0]*b[1] - a[1]*b[0]
	c[0], c[1], c[2] = c0, c1, c2
	if normalize {
		l := math.Sqrt(c0*c0 + c1*c1 + c2*c2)
		c[0] /= l
		c[1] /= l
		c[2] /= l
	}
}

// Sub computes c = a - b
func Sub(c, a, b []float64) {
	for i := range c {
		c[i] = a[i] - b[i]
	}
}

// Fill sets all entries of v to s
func Fill(v []float64, s float64) {
	for i := range v {
		v[i] = s
	}
}
