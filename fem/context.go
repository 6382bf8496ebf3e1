// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/inp"
)

// Algorithm defines the solution algorithm
type Algorithm int

// algorithms
const (
	AlgImplicit Algorithm = iota // implicit static (Newton iterations under load control)
	AlgExplicit                  // explicit dynamic (central differences)
)

// ShellKin defines the shell kinematics
type ShellKin int

// shell kinematics
const (
	ShellLinear    ShellKin = iota // linear shell kinematics; no curvature/resultant caches
	ShellNonlinear                 // nonlinear shell kinematics; curvature and force resultants are cached
)

// Mode holds the analysis mode
type Mode struct {
	Algorithm Algorithm
	ShellKin  ShellKin
	Linear    bool // linear analysis: a single solve without equilibrium iterations
}

// ParseMode returns the mode corresponding to the solver type {imp, exp} and the shell
// kinematics {linear, nonlinear} names
func ParseMode(solverType, shellkin string) (m Mode, err error) {
	switch solverType {
	case "imp":
		m.Algorithm = AlgImplicit
	case "exp":
		m.Algorithm = AlgExplicit
	default:
		return m, chk.Err("cannot find solver type named %q", solverType)
	}
	switch shellkin {
	case "linear":
		m.ShellKin = ShellLinear
	case "nonlinear":
		m.ShellKin = ShellNonlinear
	default:
		return m, chk.Err("cannot find shell kinematics named %q", shellkin)
	}
	return
}

// Context bundles topology counts and the resources of one analysis run.
// It is created once per run and passed to every component.
type Context struct {
	Nj      int      // number of joints
	Ntr     int      // number of truss elements
	Nfr     int      // number of frame elements
	Nsh     int      // number of shell elements
	Neq     int      // number of equations
	Lss     int      // number of stored stiffness (and mass) entries
	Mode    Mode     // analysis mode
	Streams *Streams // output streams; may be nil
	Verbose bool     // show messages
}

// NewContext returns a new context for the given model
func NewContext(msh *inp.Mesh, mode Mode) *Context {
	return &Context{
		Nj:   len(msh.Joints),
		Ntr:  len(msh.Trusses),
		Nfr:  len(msh.Frames),
		Nsh:  len(msh.Shells),
		Neq:  msh.Neq,
		Lss:  msh.Neq * msh.Neq,
		Mode: mode,
	}
}

// Nef returns the number of element force entries
func (o *Context) Nef() int { return o.Ntr*2 + o.Nfr*14 + o.Nsh*18 }

// Ndc returns the number of direction cosine records
func (o *Context) Ndc() int { return o.Ntr + o.Nfr*3 + o.Nsh*3 }
