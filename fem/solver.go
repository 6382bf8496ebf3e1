// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/inp"
	"github.com/nonlinearfun/CU-BENs-v2.0.0/lin"
)

// ErrNotConverged indicates that the equilibrium iterations did not converge
var ErrNotConverged = errors.New("equilibrium iterations did not converge")

// Assembler computes the global tangent stiffness, internal forces and mass in the current
// configuration. Matrices are dense [neq][neq]; restrained dofs are not included.
type Assembler interface {
	Stiffness(K *lin.Matrix, dom *Domain) error    // tangent stiffness
	InternalForces(f []float64, dom *Domain) error // internal forces; element forces are updated
	Mass(M *lin.Matrix, dom *Domain) error         // mass matrix
}

// LinSol solves K·x = b
type LinSol interface {
	Solve(x []float64, K *lin.Matrix, b []float64) error
}

// Solver runs one analysis
type Solver interface {
	Run(dom *Domain, sum *Summary, restart bool) error
}

// SolverContext holds the collaborators of solvers
type SolverContext struct {
	Data   *inp.SolverData // solver data
	Asm    Assembler       // element assembler
	LinSol LinSol          // linear solver
	Tol    Tolerances      // convergence tolerances
	ShowR  bool            // show convergence ratios
	DirOut string          // output directory
	Key    string          // simulation key
	EncTyp string          // encoder type
}

// allocators
var (
	solverallocators = make(map[string]func(sc *SolverContext) Solver) // type => solver
	linsolallocators = make(map[string]func() LinSol)                  // name => linear solver
)

// GetSolver returns a new solver of the given type {imp, exp}; nil if not found
func GetSolver(typ string, sc *SolverContext) Solver {
	if alloc, ok := solverallocators[typ]; ok {
		return alloc(sc)
	}
	return nil
}

// GetLinSol returns a new linear solver {lu, gj}; nil if not found
func GetLinSol(name string) LinSol {
	if alloc, ok := linsolallocators[name]; ok {
		return alloc()
	}
	return nil
}
