// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/lin"
)

// Truss represents a co-rotational elastic truss element (axial force only)
type Truss struct {

	// basic data
	Id int // element index

	// parameters
	E   float64 // Young's modulus
	A   float64 // cross-sectional area
	Rho float64 // density

	// problem variables
	Umap []int // [6] assembly map (location array/element equations); -1 => restrained

	// scratchpad
	k  *lin.Matrix // [6][6] local stiffness
	T  *lin.Matrix // [6][6] rotation
	K  *lin.Matrix // [6][6] global stiffness
	e2 []float64   // [3] local-y axis
	e3 []float64   // [3] local-z axis
}

// TrussAssembler assembles trusses in the current configuration
type TrussAssembler struct {
	Elems []*Truss
}

// NewTrussAssembler returns a new assembler for all trusses of dom.
// Models with frames or shells are not supported.
func NewTrussAssembler(dom *Domain) (o *TrussAssembler, err error) {
	c := dom.Ctx
	if c.Nfr > 0 || c.Nsh > 0 {
		return nil, chk.Err("truss assembler cannot handle frames (%d) or shells (%d)", c.Nfr, c.Nsh)
	}
	o = new(TrussAssembler)
	for i, dat := range dom.Msh.Trusses {
		if dat.E <= 0 || dat.A <= 0 {
			return nil, chk.Err("truss %d: E and A must be positive. E=%g A=%g", i, dat.E, dat.A)
		}
		e := &Truss{Id: i, E: dat.E, A: dat.A, Rho: dat.Rho}
		e.Umap = make([]int, 6)
		for m := 0; m < 2; m++ {
			eqs := dom.JointEqs(dom.Ctr.Get(i, m))
			copy(e.Umap[m*3:], eqs[:])
		}
		e.k = lin.NewMatrix(6, 6)
		e.T = lin.NewMatrix(6, 6)
		e.K = lin.NewMatrix(6, 6)
		e.e2 = make([]float64, 3)
		e.e3 = make([]float64, 3)
		o.Elems = append(o.Elems, e)
	}
	return
}

// Stiffness assembles the tangent stiffness
func (o *TrussAssembler) Stiffness(K *lin.Matrix, dom *Domain) (err error) {
	K.Fill(0)
	for _, e := range o.Elems {
		err = e.calcK(dom)
		if err != nil {
			return
		}
		for i, I := range e.Umap {
			if I < 0 {
				continue
			}
			for j, J := range e.Umap {
				if J < 0 {
					continue
				}
				K.Add(I, J, e.K.Get(i, j))
			}
		}
	}
	return
}

// InternalForces assembles the internal forces and updates the truss end forces
func (o *TrussAssembler) InternalForces(f []float64, dom *Domain) (err error) {
	lin.Fill(f, 0)
	for _, e := range o.Elems {
		N := e.AxialForce(dom)
		cs := dom.Geo.TrussCos.Row(e.Id)
		for j := 0; j < 3; j++ {
			if I := e.Umap[j]; I >= 0 {
				f[I] -= N * cs[j]
			}
			if I := e.Umap[3+j]; I >= 0 {
				f[I] += N * cs[j]
			}
		}
		ef := dom.Frc.EfTruss.Row(e.Id)
		ef[0], ef[1] = -N, N
	}
	return
}

// Mass assembles the lumped mass matrix; each end receives half of ρ·A·L0
func (o *TrussAssembler) Mass(M *lin.Matrix, dom *Domain) (err error) {
	M.Fill(0)
	for _, e := range o.Elems {
		m := 0.5 * e.Rho * e.A * dom.Geo.TrussLen0[e.Id]
		for _, I := range e.Umap {
			if I >= 0 {
				M.Add(I, I, m)
			}
		}
	}
	return
}

// AxialForce returns N = E·A·(L - L0)/L0 in the current configuration
func (o *Truss) AxialForce(dom *Domain) float64 {
	L, L0 := dom.Geo.TrussLen[o.Id], dom.Geo.TrussLen0[o.Id]
	return o.E * o.A * (L - L0) / L0
}

// calcK computes K = Tᵗ·k·T with k = EA/L0 along the axis and N/L across it
func (o *Truss) calcK(dom *Domain) (err error) {

	// local stiffness
	L, L0 := dom.Geo.TrussLen[o.Id], dom.Geo.TrussLen0[o.Id]
	ka := o.E * o.A / L0
	kg := o.AxialForce(dom) / L
	o.k.Fill(0)
	o.k.Set(0, 0, ka)
	o.k.Set(0, 3, -ka)
	o.k.Set(3, 0, -ka)
	o.k.Set(3, 3, ka)
	for _, i := range []int{1, 2} {
		o.k.Set(i, i, kg)
		o.k.Set(i, i+3, -kg)
		o.k.Set(i+3, i, -kg)
		o.k.Set(i+3, i+3, kg)
	}

	// rotation: rows are the local axes
	cs := dom.Geo.TrussCos.Row(o.Id)
	aux := []float64{0, 0, 1}
	if math.Abs(cs[2]) > 0.9 {
		aux = []float64{1, 0, 0}
	}
	lin.Cross(aux, cs, o.e2, true)
	lin.Cross(cs, o.e2, o.e3, false)
	o.T.Fill(0)
	for _, off := range []int{0, 3} {
		for j := 0; j < 3; j++ {
			o.T.Set(off+0, off+j, cs[j])
			o.T.Set(off+1, off+j, o.e2[j])
			o.T.Set(off+2, off+j, o.e3[j])
		}
	}
	return lin.Transform(o.K, o.k, o.T)
}
