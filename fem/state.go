// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/inp"
	"github.com/nonlinearfun/CU-BENs-v2.0.0/lin"
)

// Config holds the current configuration
type Config struct {
	X        lin.Table // [nj][3] current nodal coordinates
	Xprev    lin.Table // [nj][3] coordinates of previous iteration
	Xfr      lin.Table // [nfr][6] effective end coordinates of frames (including offsets)
	Offset   lin.Table // [nfr][6] rigid offsets of frame ends
	OffsetOn []bool    // [nfr] frame has offsets
	AuxPt    lin.Table // [nfr][3] auxiliary points of frames
}

// Geometry holds the deformed geometry cache.
// Triads are stored as x0 x1 x2 y0 y1 y2 z0 z1 z2 (local axes in global coordinates).
type Geometry struct {
	TrussLen   []float64 // [ntr] deformed lengths
	TrussLen0  []float64 // [ntr] undeformed lengths
	TrussCos   lin.Table // [ntr][3] direction cosines
	FrameLen   []float64 // [nfr] deformed lengths
	FrameLen0  []float64 // [nfr] undeformed lengths
	FrameTriad lin.Table // [nfr][9] local triads
	ShellSides lin.Table // [nsh][3] side lengths: 1→2, 2→3, 1→3
	ShellArea  []float64 // [nsh] face areas
	ShellTriad lin.Table // [nsh][9] local triads
}

// Iteration holds the equilibrium-iteration state
type Iteration struct {
	Lpf      float64   // load proportionality factor (or time in dynamics)
	Qref     []float64 // [neq] reference loads
	Qtot     []float64 // [neq] total applied loads
	D        []float64 // [neq] total displacements
	Dd       []float64 // [neq] incremental displacements of last iteration
	F        []float64 // [neq] internal forces
	Fp       []float64 // [neq] internal forces of previous iteration
	Fip      []float64 // [neq] internal forces at the beginning of the increment
	Intener1 float64   // incremental internal energy of first iteration
}

// Dynamics holds the kinematic histories and matrices of dynamic analyses
type Dynamics struct {
	Uc []float64 // [neq] displacements
	Vc []float64 // [neq] velocities
	Ac []float64 // [neq] accelerations
	SS []float64 // [lss] stiffness matrix entries
	SM []float64 // [lss] mass matrix entries
}

// Forces holds element force caches and flags
type Forces struct {
	EfTruss lin.Table    // [ntr][2] truss end forces
	EfFrame lin.Table    // [nfr][14] frame end forces
	EfShell lin.Table    // [nsh][18] shell corner forces
	EfFE    lin.Table    // [nfr][14] frame fixed-end forces
	Yield   lin.IntTable // [nfr][2] yield flags of frame ends
	Chi     lin.Table    // [nsh][3] shell curvatures (nonlinear shells)
	EfN     lin.Table    // [nsh][9] shell membrane force resultants (nonlinear shells)
	EfM     lin.Table    // [nsh][9] shell moment resultants (nonlinear shells)
}

// Domain holds the model and all mutable solver state of one analysis
type Domain struct {
	Ctx   *Context     // analysis context
	Msh   *inp.Mesh    // model
	Jcode lin.IntTable // [nj][7] equation numbers (1-based; 0 => restrained)
	Ctr   lin.IntTable // [ntr][2] truss connectivity (0-based joints)
	Cfr   lin.IntTable // [nfr][2] frame connectivity
	Csh   lin.IntTable // [nsh][3] shell connectivity
	Cfg   Config       // configuration
	Geo   Geometry     // deformed geometry
	It    Iteration    // iteration state
	Dyn   Dynamics     // dynamics
	Frc   Forces       // element forces
	Tstep int          // current time step (dynamics) or increment index
}

// NewDomain allocates all arrays, sets the initial configuration and computes the initial
// (undeformed) geometry
func NewDomain(msh *inp.Mesh, ctx *Context) (o *Domain, err error) {

	// check
	if msh.Jcode.Len() != len(msh.Joints) {
		return nil, chk.Err("equations must be numbered before allocating domain")
	}

	// topology
	o = &Domain{Ctx: ctx, Msh: msh, Jcode: msh.Jcode}
	nj, ntr, nfr, nsh, neq := ctx.Nj, ctx.Ntr, ctx.Nfr, ctx.Nsh, ctx.Neq
	o.Ctr = lin.NewIntTable(ntr, 2)
	for i, e := range msh.Trusses {
		copy(o.Ctr.Row(i), e.Verts)
	}
	o.Cfr = lin.NewIntTable(nfr, 2)
	for i, e := range msh.Frames {
		copy(o.Cfr.Row(i), e.Verts)
	}
	o.Csh = lin.NewIntTable(nsh, 3)
	for i, e := range msh.Shells {
		copy(o.Csh.Row(i), e.Verts)
	}

	// configuration
	o.Cfg.X = lin.NewTable(nj, 3)
	o.Cfg.Xprev = lin.NewTable(nj, 3)
	for i, jnt := range msh.Joints {
		copy(o.Cfg.X.Row(i), jnt.X)
	}
	copy(o.Cfg.Xprev.Data, o.Cfg.X.Data)
	o.Cfg.Xfr = lin.NewTable(nfr, 6)
	o.Cfg.Offset = lin.NewTable(nfr, 6)
	o.Cfg.OffsetOn = make([]bool, nfr)
	o.Cfg.AuxPt = lin.NewTable(nfr, 3)
	for i, e := range msh.Frames {
		copy(o.Cfg.AuxPt.Row(i), e.Aux)
		if len(e.Offset) == 6 {
			copy(o.Cfg.Offset.Row(i), e.Offset)
			o.Cfg.OffsetOn[i] = true
		}
	}

	// geometry
	o.Geo.TrussLen = make([]float64, ntr)
	o.Geo.TrussLen0 = make([]float64, ntr)
	o.Geo.TrussCos = lin.NewTable(ntr, 3)
	o.Geo.FrameLen = make([]float64, nfr)
	o.Geo.FrameLen0 = make([]float64, nfr)
	o.Geo.FrameTriad = lin.NewTable(nfr, 9)
	o.Geo.ShellSides = lin.NewTable(nsh, 3)
	o.Geo.ShellArea = make([]float64, nsh)
	o.Geo.ShellTriad = lin.NewTable(nsh, 9)

	// iteration
	o.It.Qref = make([]float64, neq)
	o.It.Qtot = make([]float64, neq)
	o.It.D = make([]float64, neq)
	o.It.Dd = make([]float64, neq)
	o.It.F = make([]float64, neq)
	o.It.Fp = make([]float64, neq)
	o.It.Fip = make([]float64, neq)
	for i, l := range msh.Loads {
		eq := msh.LoadEq(l)
		if eq < 0 {
			return nil, chk.Err("load %d is applied to restrained dof %d of joint %d", i, l.Dof, l.Joint)
		}
		o.It.Qref[eq] += l.Val
	}

	// dynamics
	o.Dyn.Uc = make([]float64, neq)
	o.Dyn.Vc = make([]float64, neq)
	o.Dyn.Ac = make([]float64, neq)
	o.Dyn.SS = make([]float64, ctx.Lss)
	o.Dyn.SM = make([]float64, ctx.Lss)

	// forces
	o.Frc.EfTruss = lin.NewTable(ntr, 2)
	o.Frc.EfFrame = lin.NewTable(nfr, 14)
	o.Frc.EfShell = lin.NewTable(nsh, 18)
	o.Frc.EfFE = lin.NewTable(nfr, 14)
	o.Frc.Yield = lin.NewIntTable(nfr, 2)
	o.Frc.Chi = lin.NewTable(nsh, 3)
	o.Frc.EfN = lin.NewTable(nsh, 9)
	o.Frc.EfM = lin.NewTable(nsh, 9)

	// initial geometry
	err = o.UpdateConfiguration(o.It.Dd)
	if err != nil {
		return nil, chk.Err("invalid initial geometry:\n%v", err)
	}
	copy(o.Geo.TrussLen0, o.Geo.TrussLen)
	copy(o.Geo.FrameLen0, o.Geo.FrameLen)
	return
}

// JointEqs returns the (0-based) equations of the translational dofs of joint j; -1 => restrained
func (o *Domain) JointEqs(j int) (eqs [3]int) {
	for k := 0; k < 3; k++ {
		eqs[k] = o.Jcode.Get(j, k) - 1
	}
	return
}

// arrays returns all mutable float arrays in a fixed order
func (o *Domain) arrays() [][]float64 {
	return [][]float64{
		o.Cfg.X.Data, o.Cfg.Xprev.Data, o.Cfg.Xfr.Data,
		o.Geo.TrussLen, o.Geo.TrussCos.Data, o.Geo.FrameLen, o.Geo.FrameLen0, o.Geo.FrameTriad.Data,
		o.Geo.ShellSides.Data, o.Geo.ShellArea, o.Geo.ShellTriad.Data,
		o.It.Qtot, o.It.D, o.It.Dd, o.It.F, o.It.Fp, o.It.Fip,
		o.Dyn.Uc, o.Dyn.Vc, o.Dyn.Ac, o.Dyn.SS, o.Dyn.SM,
		o.Frc.EfTruss.Data, o.Frc.EfFrame.Data, o.Frc.EfShell.Data, o.Frc.EfFE.Data,
		o.Frc.Chi.Data, o.Frc.EfN.Data, o.Frc.EfM.Data,
	}
}

// clone returns a copy of the domain with its own mutable arrays; model data is shared
func (o *Domain) clone() *Domain {
	res := *o
	res.Cfg.X = lin.Table{Stride: 3}
	res.Cfg.Xprev = lin.Table{Stride: 3}
	res.Cfg.Xfr = lin.Table{Stride: 6}
	res.Geo = Geometry{
		TrussCos:   lin.Table{Stride: 3},
		FrameTriad: lin.Table{Stride: 9},
		ShellSides: lin.Table{Stride: 3},
		ShellTriad: lin.Table{Stride: 9},
		TrussLen0:  o.Geo.TrussLen0,
	}
	res.It = Iteration{Lpf: o.It.Lpf, Qref: o.It.Qref, Intener1: o.It.Intener1}
	res.Dyn = Dynamics{}
	res.Frc = Forces{
		EfTruss: lin.Table{Stride: 2},
		EfFrame: lin.Table{Stride: 14},
		EfShell: lin.Table{Stride: 18},
		EfFE:    lin.Table{Stride: 14},
		Chi:     lin.Table{Stride: 3},
		EfN:     lin.Table{Stride: 9},
		EfM:     lin.Table{Stride: 9},
	}
	dst := res.arrayPtrs()
	for i, a := range o.arrays() {
		*dst[i] = append([]float64{}, a...)
	}
	res.Frc.Yield = lin.IntTable{Stride: 2, Data: append([]int{}, o.Frc.Yield.Data...)}
	return &res
}

// assign copies all mutable arrays of src into o
func (o *Domain) assign(src *Domain) {
	dst := o.arrays()
	for i, a := range src.arrays() {
		copy(dst[i], a)
	}
	copy(o.Frc.Yield.Data, src.Frc.Yield.Data)
	o.Tstep = src.Tstep
	o.It.Lpf = src.It.Lpf
	o.It.Intener1 = src.It.Intener1
}

// arrayPtrs returns pointers to the arrays listed by arrays()
func (o *Domain) arrayPtrs() []*[]float64 {
	return []*[]float64{
		&o.Cfg.X.Data, &o.Cfg.Xprev.Data, &o.Cfg.Xfr.Data,
		&o.Geo.TrussLen, &o.Geo.TrussCos.Data, &o.Geo.FrameLen, &o.Geo.FrameLen0, &o.Geo.FrameTriad.Data,
		&o.Geo.ShellSides.Data, &o.Geo.ShellArea, &o.Geo.ShellTriad.Data,
		&o.It.Qtot, &o.It.D, &o.It.Dd, &o.It.F, &o.It.Fp, &o.It.Fip,
		&o.Dyn.Uc, &o.Dyn.Vc, &o.Dyn.Ac, &o.Dyn.SS, &o.Dyn.SM,
		&o.Frc.EfTruss.Data, &o.Frc.EfFrame.Data, &o.Frc.EfShell.Data, &o.Frc.EfFE.Data,
		&o.Frc.Chi.Data, &o.Frc.EfN.Data, &o.Frc.EfM.Data,
	}
}
