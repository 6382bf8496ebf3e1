// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/lin"
)

// NdofJoint is the number of degrees of freedom per joint: ux uy uz rx ry rz warping
const NdofJoint = 7

// Joint holds joint data
type Joint struct {
	X   []float64 `json:"x" yaml:"x"`     // coordinates [3]
	Fix []int     `json:"fix" yaml:"fix"` // restraint flags [≤7]: ux uy uz rx ry rz warping; 1 => restrained
}

// Truss holds truss element data
type Truss struct {
	Verts []int   `json:"verts" yaml:"verts"` // end joints [2]
	E     float64 `json:"E" yaml:"E"`         // Young's modulus
	A     float64 `json:"A" yaml:"A"`         // cross-sectional area
	Rho   float64 `json:"rho" yaml:"rho"`     // density
}

// Frame holds frame element data
type Frame struct {
	Verts  []int              `json:"verts" yaml:"verts"`   // end joints [2]
	Aux    []float64          `json:"aux" yaml:"aux"`       // auxiliary point defining local-z [3]
	Offset []float64          `json:"offset" yaml:"offset"` // rigid offsets of both ends [6]; empty => no offsets
	Prms   map[string]float64 `json:"prms" yaml:"prms"`     // section and material parameters (for external assemblers)
}

// Shell holds triangular shell element data
type Shell struct {
	Verts []int              `json:"verts" yaml:"verts"` // vertices [3] ordered 1→2→3
	Prms  map[string]float64 `json:"prms" yaml:"prms"`   // thickness and material parameters (for external assemblers)
}

// Load holds a reference concentrated load
type Load struct {
	Joint int     `json:"joint" yaml:"joint"` // joint index
	Dof   int     `json:"dof" yaml:"dof"`     // local dof index in [0,7)
	Val   float64 `json:"val" yaml:"val"`     // value corresponding to lpf = 1
}

// Mesh holds the model: joints, elements and reference loads
type Mesh struct {

	// from file
	Joints  []*Joint `json:"joints" yaml:"joints"`   // joints
	Trusses []*Truss `json:"trusses" yaml:"trusses"` // truss elements
	Frames  []*Frame `json:"frames" yaml:"frames"`   // frame elements
	Shells  []*Shell `json:"shells" yaml:"shells"`   // shell elements
	Loads   []*Load  `json:"loads" yaml:"loads"`     // reference loads

	// derived
	FnamePath string       // complete filename path
	Jcode     lin.IntTable // [nj][7] equation numbers (1-based); 0 => restrained or inactive
	Neq       int          // number of equations
}

// ReadMsh reads a model file (JSON or YAML) and numbers the equations
func ReadMsh(dir, fn string) (o *Mesh, err error) {

	// new mesh
	o = new(Mesh)

	// read file
	o.FnamePath = filepath.Join(dir, fn)
	b, err := os.ReadFile(o.FnamePath)
	if err != nil {
		return nil, chk.Err("cannot read model file %q:\n%v", o.FnamePath, err)
	}

	// decode
	err = decode(o.FnamePath, b, o)
	if err != nil {
		return nil, chk.Err("cannot unmarshal model file %q:\n%v", o.FnamePath, err)
	}

	// check and number equations
	err = o.Check()
	if err != nil {
		return nil, chk.Err("invalid model in %q:\n%v", o.FnamePath, err)
	}
	o.NumberEquations()
	return
}

// Check validates sizes and connectivity
func (o *Mesh) Check() (err error) {
	nj := len(o.Joints)
	if nj < 2 {
		return chk.Err("at least 2 joints are required. nj = %d", nj)
	}
	if len(o.Trusses)+len(o.Frames)+len(o.Shells) < 1 {
		return chk.Err("at least one element is required")
	}
	for i, j := range o.Joints {
		if len(j.X) != 3 {
			return chk.Err("joint %d must have 3 coordinates. x = %v", i, j.X)
		}
		if len(j.Fix) > NdofJoint {
			return chk.Err("joint %d has too many restraint flags. fix = %v", i, j.Fix)
		}
	}
	verts := func(kind string, id int, v []int, n int) error {
		if len(v) != n {
			return chk.Err("%s %d must have %d joints. verts = %v", kind, id, n, v)
		}
		for k, a := range v {
			if a < 0 || a >= nj {
				return chk.Err("%s %d references joint %d which does not exist", kind, id, a)
			}
			for _, b := range v[k+1:] {
				if a == b {
					return chk.Err("%s %d has repeated joint %d", kind, id, a)
				}
			}
		}
		return nil
	}
	for i, e := range o.Trusses {
		if err = verts("truss", i, e.Verts, 2); err != nil {
			return
		}
	}
	for i, e := range o.Frames {
		if err = verts("frame", i, e.Verts, 2); err != nil {
			return
		}
		if len(e.Aux) != 3 {
			return chk.Err("frame %d must have an auxiliary point with 3 coordinates. aux = %v", i, e.Aux)
		}
		if len(e.Offset) != 0 && len(e.Offset) != 6 {
			return chk.Err("frame %d offsets must have 6 components. offset = %v", i, e.Offset)
		}
	}
	for i, e := range o.Shells {
		if err = verts("shell", i, e.Verts, 3); err != nil {
			return
		}
	}
	for i, l := range o.Loads {
		if l.Joint < 0 || l.Joint >= nj || l.Dof < 0 || l.Dof >= NdofJoint {
			return chk.Err("load %d is applied to invalid joint/dof (%d,%d)", i, l.Joint, l.Dof)
		}
	}
	return
}

// NumberEquations sets Jcode and Neq. Translations are active at all joints, rotations at
// joints connected to frames or shells and warping at joints connected to frames.
func (o *Mesh) NumberEquations() {
	nj := len(o.Joints)
	active := lin.NewIntTable(nj, NdofJoint)
	for i := 0; i < nj; i++ {
		for j := 0; j < 3; j++ {
			active.Set(i, j, 1)
		}
	}
	for _, e := range o.Frames {
		for _, v := range e.Verts {
			for j := 3; j < NdofJoint; j++ {
				active.Set(v, j, 1)
			}
		}
	}
	for _, e := range o.Shells {
		for _, v := range e.Verts {
			for j := 3; j < 6; j++ {
				active.Set(v, j, 1)
			}
		}
	}
	o.Jcode = lin.NewIntTable(nj, NdofJoint)
	o.Neq = 0
	for i, jnt := range o.Joints {
		for j := 0; j < NdofJoint; j++ {
			if active.Get(i, j) == 0 {
				continue
			}
			if j < len(jnt.Fix) && jnt.Fix[j] != 0 {
				continue
			}
			o.Neq++
			o.Jcode.Set(i, j, o.Neq)
		}
	}
}

// LoadEq returns the (0-based) equation of load l or -1 if its dof is restrained
func (o *Mesh) LoadEq(l *Load) int {
	return o.Jcode.Get(l.Joint, l.Dof) - 1
}

// String returns a summary of the model
func (o Mesh) String() string {
	return io.Sf("joints=%d trusses=%d frames=%d shells=%d loads=%d neq=%d",
		len(o.Joints), len(o.Trusses), len(o.Frames), len(o.Shells), len(o.Loads), o.Neq)
}
