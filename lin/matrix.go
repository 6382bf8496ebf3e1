// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lin implements the small dense linear algebra kernel used by the co-rotational solver
package lin

import "github.com/cpmech/gosl/chk"

// Matrix holds a dense m×n matrix stored row by row
type Matrix struct {
	M, N int       // number of rows and columns
	Data []float64 // [m*n] values; a[i][j] == Data[i*N+j]
}

// NewMatrix allocates a zero m×n matrix
func NewMatrix(m, n int) *Matrix {
	if m < 0 || n < 0 {
		chk.Panic("cannot allocate matrix with negative dimensions (%d,%d)", m, n)
	}
	return &Matrix{m, n, make([]float64, m*n)}
}

// NewMatrixDeep2 allocates a matrix with the values of a [][]float64
func NewMatrixDeep2(a [][]float64) (o *Matrix) {
	if len(a) == 0 {
		return NewMatrix(0, 0)
	}
	o = NewMatrix(len(a), len(a[0]))
	for i := 0; i < o.M; i++ {
		copy(o.Row(i), a[i])
	}
	return
}

// Identity returns the n×n identity matrix
func Identity(n int) (o *Matrix) {
	o = NewMatrix(n, n)
	for i := 0; i < n; i++ {
		o.Data[i*n+i] = 1
	}
	return
}

// Get returns a[i][j]
func (o *Matrix) Get(i, j int) float64 { return o.Data[i*o.N+j] }

// Set sets a[i][j] = v
func (o *Matrix) Set(i, j int, v float64) { o.Data[i*o.N+j] = v }

// Add adds v to a[i][j]
func (o *Matrix) Add(i, j int, v float64) { o.Data[i*o.N+j] += v }

// Row returns a view of row i
func (o *Matrix) Row(i int) []float64 { return o.Data[i*o.N : (i+1)*o.N] }

// Fill sets all entries to v
func (o *Matrix) Fill(v float64) {
	for i := range o.Data {
		o.Data[i] = v
	}
}

// Copy returns a deep copy
func (o *Matrix) Copy() *Matrix {
	res := NewMatrix(o.M, o.N)
	copy(res.Data, o.Data)
	return res
}

// Deep2 returns a [][]float64 copy of the matrix
func (o *Matrix) Deep2() (a [][]float64) {
	a = make([][]float64, o.M)
	for i := 0; i < o.M; i++ {
		a[i] = make([]float64, o.N)
		copy(a[i], o.Row(i))
	}
	return
}

// MatVecMul computes v = a * u
func MatVecMul(v []float64, a *Matrix, u []float64) {
	for i := 0; i < a.M; i++ {
		v[i] = Dot(a.Row(i), u)
	}
}

// Table is a fixed-stride view over contiguous storage: entity i owns Data[i*Stride:(i+1)*Stride]
type Table struct {
	Stride int       // number of fields per entity
	Data   []float64 // [n*Stride] values
}

// NewTable allocates a zero table with n entities
func NewTable(n, stride int) Table {
	return Table{stride, make([]float64, n*stride)}
}

// Len returns the number of entities
func (o Table) Len() int {
	if o.Stride == 0 {
		return 0
	}
	return len(o.Data) / o.Stride
}

// Row returns the fields of entity i
func (o Table) Row(i int) []float64 { return o.Data[i*o.Stride : (i+1)*o.Stride] }

// Get returns field j of entity i
func (o Table) Get(i, j int) float64 { return o.Row(i)[j] }

// Set sets field j of entity i
func (o Table) Set(i, j int, v float64) { o.Row(i)[j] = v }

// IntTable is the integer version of Table
type IntTable struct {
	Stride int   // number of fields per entity
	Data   []int // [n*Stride] values
}

// NewIntTable allocates a zero table with n entities
func NewIntTable(n, stride int) IntTable {
	return IntTable{stride, make([]int, n*stride)}
}

// Len returns the number of entities
func (o IntTable) Len() int {
	if o.Stride == 0 {
		return 0
	}
	return len(o.Data) / o.Stride
}

// Row returns the fields of entity i
func (o IntTable) Row(i int) []int { return o.Data[i*o.Stride : (i+1)*o.Stride] }

// Get returns field j of entity i
func (o IntTable) Get(i, j int) int { return o.Row(i)[j] }

// Set sets field j of entity i
func (o IntTable) Set(i, j int, v int) { o.Row(i)[j] = v }
