// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"

	"github.com/cpmech/gosl/io"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/lin"
)

// SolverImplicit solves the static problem under load control with Newton-Raphson iterations
type SolverImplicit struct {
	*SolverContext
}

// set factory
func init() {
	solverallocators["imp"] = func(sc *SolverContext) Solver {
		solver := new(SolverImplicit)
		solver.SolverContext = sc
		return solver
	}
}

// Run runs all load increments
func (o *SolverImplicit) Run(dom *Domain, sum *Summary, restart bool) (err error) {

	// check
	if restart {
		return ErrNotCheckpointable
	}

	// auxiliary
	neq := dom.Ctx.Neq
	K := lin.NewMatrix(neq, neq)
	rhs := make([]float64, neq)
	nincs := o.Data.Nincs
	dlpf := o.Data.Dlpf
	if dom.Ctx.Mode.Linear {
		nincs, dlpf = 1, o.Data.Lpfmax
	}

	// initial internal forces
	err = o.Asm.InternalForces(dom.It.F, dom)
	if err != nil {
		return
	}

	// increments
	for inc := 1; inc <= nincs; inc++ {

		// load factor and total loads
		lpf := float64(inc) * dlpf
		dom.It.Lpf = lpf
		for i := 0; i < neq; i++ {
			dom.It.Qtot[i] = lpf * dom.It.Qref[i]
		}

		// run iterations
		var it int
		var status Status
		it, status, err = o.iterate(dom, sum, K, rhs)
		if err != nil {
			return chk_inc(err, inc, lpf)
		}

		// output
		dom.Tstep = inc
		dom.OutputStep(lpf, it)
		if sum != nil {
			sum.AddStep(lpf, it, status)
		}
	}
	return
}

// iterate performs the equilibrium iterations of one increment
func (o *SolverImplicit) iterate(dom *Domain, sum *Summary, K *lin.Matrix, rhs []float64) (it int, status Status, err error) {

	// auxiliary
	d := &dom.It
	neq := dom.Ctx.Neq
	copy(d.Fip, d.F)

	// message
	if o.ShowR && dom.Ctx.Verbose {
		io.Pf("\n%13s%4s%15s%15s%15s\n", "lpf", "it", "rdisp", "rforc", "rener")
	}

	// iterations
	for it = 1; ; it++ {

		// check number of iterations
		if it > o.Data.NmaxIt {
			return it - 1, status, fmt.Errorf("%w: %d iterations (status = %s)", ErrNotConverged, o.Data.NmaxIt, status)
		}

		// solve for incremental displacements
		copy(d.Fp, d.F)
		err = o.Asm.Stiffness(K, dom)
		if err != nil {
			return
		}
		for i := 0; i < neq; i++ {
			rhs[i] = d.Qtot[i] - d.F[i]
		}
		err = o.LinSol.Solve(d.Dd, K, rhs)
		if err != nil {
			return
		}

		// update configuration and internal forces
		for i := 0; i < neq; i++ {
			d.D[i] += d.Dd[i]
		}
		err = dom.UpdateConfiguration(d.Dd)
		if err != nil {
			return
		}
		err = o.Asm.InternalForces(d.F, dom)
		if err != nil {
			return
		}
		if it == 1 {
			d.Intener1 = FirstIterationEnergy(d)
		}

		// linear analysis
		if dom.Ctx.Mode.Linear {
			return
		}

		// check convergence
		var res Convergence
		res, err = EvalConvergence(d, o.Tol)
		if err != nil {
			return
		}
		status = res.Status
		if sum != nil {
			sum.AddIter(it == 1, res.Rdisp)
		}
		if o.ShowR && dom.Ctx.Verbose {
			io.Pf("%13.6e%4d%15.6e%15.6e%15.6e\n", d.Lpf, it, res.Rdisp, res.Rforc, res.Rener)
		}
		if status.Converged() {
			return
		}
	}
}

// chk_inc adds the increment information to err
func chk_inc(err error, inc int, lpf float64) error {
	return fmt.Errorf("increment %d (lpf = %g): %w", inc, lpf, err)
}
