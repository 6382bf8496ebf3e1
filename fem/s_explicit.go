// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"

	"github.com/cpmech/gosl/chk"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/lin"
)

// SolverExplicit solves the dynamic problem with central differences and lumped mass.
// The reference loads are applied suddenly at t = 0 and kept constant.
type SolverExplicit struct {
	*SolverContext
}

// set factory
func init() {
	solverallocators["exp"] = func(sc *SolverContext) Solver {
		solver := new(SolverExplicit)
		solver.SolverContext = sc
		return solver
	}
}

// Run runs all time steps. With restart, dom must hold the state read from a checkpoint and
// the analysis continues after the saved time step.
func (o *SolverExplicit) Run(dom *Domain, sum *Summary, restart bool) (err error) {

	// auxiliary
	neq := dom.Ctx.Neq
	dt := o.Data.Dt
	y := &dom.Dyn
	d := &dom.It
	for i := 0; i < neq; i++ {
		d.Qtot[i] = d.Qref[i]
	}

	// initial state
	if !restart {
		M := lin.NewMatrix(neq, neq)
		err = o.Asm.Mass(M, dom)
		if err != nil {
			return
		}
		copy(y.SM, M.Data)
		err = o.Asm.InternalForces(d.F, dom)
		if err != nil {
			return
		}
		dom.Tstep = 0
	}
	minv, err := o.lumpedInverse(dom)
	if err != nil {
		return
	}
	if !restart {
		for i := 0; i < neq; i++ {
			y.Ac[i] = minv[i] * (d.Qtot[i] - d.F[i])
		}
	}

	// time loop
	acc := make([]float64, neq)
	for tstep := dom.Tstep + 1; tstep <= o.Data.Nsteps; tstep++ {

		// displacements
		for i := 0; i < neq; i++ {
			d.Dd[i] = dt*y.Vc[i] + 0.5*dt*dt*y.Ac[i]
			y.Uc[i] += d.Dd[i]
			d.D[i] = y.Uc[i]
		}

		// configuration and internal forces
		err = dom.UpdateConfiguration(d.Dd)
		if err != nil {
			return fmt.Errorf("time step %d: %w", tstep, err)
		}
		copy(d.Fp, d.F)
		err = o.Asm.InternalForces(d.F, dom)
		if err != nil {
			return
		}

		// accelerations and velocities
		for i := 0; i < neq; i++ {
			acc[i] = minv[i] * (d.Qtot[i] - d.F[i])
			y.Vc[i] += 0.5 * dt * (y.Ac[i] + acc[i])
			y.Ac[i] = acc[i]
		}

		// output
		t := float64(tstep) * dt
		dom.Tstep = tstep
		d.Lpf = t
		dom.OutputStep(t, 0)
		if sum != nil {
			sum.AddStep(t, 0, 0)
		}

		// checkpoint
		if o.Data.CkptEvery > 0 && tstep%o.Data.CkptEvery == 0 {
			err = o.checkpoint(dom)
			if err != nil {
				return
			}
			if sum != nil {
				sum.LastCkpt = tstep
			}
		}
	}
	return
}

// checkpoint stores the current tangent stiffness and writes the checkpoint file
func (o *SolverExplicit) checkpoint(dom *Domain) (err error) {
	neq := dom.Ctx.Neq
	K := &lin.Matrix{M: neq, N: neq, Data: dom.Dyn.SS}
	err = o.Asm.Stiffness(K, dom)
	if err != nil {
		return
	}
	return dom.WriteCheckpoint(CheckpointPath(o.DirOut, o.Key))
}

// lumpedInverse returns the inverse of the diagonal of the mass matrix
func (o *SolverExplicit) lumpedInverse(dom *Domain) (minv []float64, err error) {
	neq := dom.Ctx.Neq
	minv = make([]float64, neq)
	for i := 0; i < neq; i++ {
		m := dom.Dyn.SM[i*neq+i]
		if !(m > 0) {
			return nil, chk.Err("equation %d has no mass", i+1)
		}
		minv[i] = 1 / m
	}
	return
}
