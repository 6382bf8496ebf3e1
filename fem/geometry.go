// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/lin"
)

// ErrDegenerate indicates an element with zero length, zero area or undefined local axes
var ErrDegenerate = errors.New("degenerate element geometry")

// GeometryError reports a degenerate element found while updating the configuration
type GeometryError struct {
	Kind string // "truss", "frame" or "shell"
	Elem int    // element index
	What string // description
}

func (o *GeometryError) Error() string {
	return io.Sf("%s %d: %s: %v", o.Kind, o.Elem, o.What, ErrDegenerate)
}

// Unwrap returns ErrDegenerate
func (o *GeometryError) Unwrap() error { return ErrDegenerate }

// UpdateConfiguration updates nodal coordinates, element lengths, face areas and local triads
// after an iteration with incremental displacements dd [neq]
func (o *Domain) UpdateConfiguration(dd []float64) (err error) {
	o.UpdateNodes(dd)
	err = o.UpdateTrusses()
	if err != nil {
		return
	}
	err = o.UpdateFrames()
	if err != nil {
		return
	}
	return o.UpdateShells()
}

// UpdateNodes saves the previous coordinates and adds dd to the free translations
func (o *Domain) UpdateNodes(dd []float64) {
	X, Xprev := o.Cfg.X, o.Cfg.Xprev
	for i := 0; i < o.Ctx.Nj; i++ {
		for j := 0; j < 3; j++ {
			Xprev.Set(i, j, X.Get(i, j))
			if k := o.Jcode.Get(i, j); k != 0 {
				X.Row(i)[j] += dd[k-1]
			}
		}
	}
}

// UpdateTrusses computes deformed lengths and direction cosines of trusses
func (o *Domain) UpdateTrusses() (err error) {
	el := make([]float64, 3)
	for i := 0; i < o.Ctx.Ntr; i++ {
		lin.Sub(el, o.Cfg.X.Row(o.Ctr.Get(i, 1)), o.Cfg.X.Row(o.Ctr.Get(i, 0)))
		l := lin.Norm(el)
		if !(l > 0) || math.IsInf(l, 0) {
			return &GeometryError{"truss", i, "zero or infinite length"}
		}
		o.Geo.TrussLen[i] = l
		c := o.Geo.TrussCos.Row(i)
		for j := 0; j < 3; j++ {
			c[j] = el[j] / l
		}
	}
	return
}

// UpdateFrames computes effective end coordinates, deformed lengths and local triads of
// frames. local-x follows the member, local-z is normal to the plane containing local-x and
// the auxiliary point and local-y = local-z × local-x
func (o *Domain) UpdateFrames() (err error) {
	el := make([]float64, 3)
	tmp := make([]float64, 3)
	for i := 0; i < o.Ctx.Nfr; i++ {

		// effective end coordinates
		xa := o.Cfg.X.Row(o.Cfr.Get(i, 0))
		xb := o.Cfg.X.Row(o.Cfr.Get(i, 1))
		xfr := o.Cfg.Xfr.Row(i)
		copy(xfr[:3], xa)
		copy(xfr[3:], xb)
		if o.Cfg.OffsetOn[i] {
			off := o.Cfg.Offset.Row(i)
			for j := 0; j < 6; j++ {
				xfr[j] += off[j]
			}
		}

		// length
		lin.Sub(el, xfr[3:], xfr[:3])
		l := lin.Norm(el)
		if !(l > 0) || math.IsInf(l, 0) {
			return &GeometryError{"frame", i, "zero or infinite length"}
		}
		o.Geo.FrameLen[i] = l

		// triad
		t := o.Geo.FrameTriad.Row(i)
		x, y, z := t[0:3], t[3:6], t[6:9]
		for j := 0; j < 3; j++ {
			x[j] = el[j] / l
		}
		lin.Sub(tmp, o.Cfg.AuxPt.Row(i), xfr[:3])
		lin.Cross(x, tmp, z, false)
		if !(lin.Norm(z) > 0) {
			return &GeometryError{"frame", i, "auxiliary point is on the member axis"}
		}
		lin.Cross(x, tmp, z, true)
		lin.Cross(z, x, y, true)
	}
	return
}

// UpdateShells computes side lengths, face areas and local triads of triangular shells.
// Edge vectors are 1→2, 2→3 and 1→3; the normal e12 × e13 is outward for vertices ordered
// counter-clockwise when seen from the outside.
func (o *Domain) UpdateShells() (err error) {
	e12 := make([]float64, 3)
	e23 := make([]float64, 3)
	e13 := make([]float64, 3)
	nrm := make([]float64, 3)
	for i := 0; i < o.Ctx.Nsh; i++ {

		// edges
		x1 := o.Cfg.X.Row(o.Csh.Get(i, 0))
		x2 := o.Cfg.X.Row(o.Csh.Get(i, 1))
		x3 := o.Cfg.X.Row(o.Csh.Get(i, 2))
		lin.Sub(e12, x2, x1)
		lin.Sub(e23, x3, x2)
		lin.Sub(e13, x3, x1)
		s := o.Geo.ShellSides.Row(i)
		s[0] = lin.Norm(e12)
		s[1] = lin.Norm(e23)
		s[2] = lin.Norm(e13)

		// area
		lin.Cross(e12, e13, nrm, false)
		a := 0.5 * lin.Norm(nrm)
		if !(a > 0) || math.IsInf(a, 0) {
			return &GeometryError{"shell", i, "zero area"}
		}
		o.Geo.ShellArea[i] = a

		// triad
		t := o.Geo.ShellTriad.Row(i)
		x, y, z := t[0:3], t[3:6], t[6:9]
		for j := 0; j < 3; j++ {
			x[j] = e12[j] / s[0]
			z[j] = nrm[j] / (2 * a)
		}
		lin.Cross(z, x, y, true)
	}
	return
}
