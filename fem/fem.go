// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem contains the co-rotational kernel and the solvers for running simulations of
// trusses, frames and shells
package fem

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/inp"
)

// FEM holds all data for a simulation
type FEM struct {
	Sim     *inp.Simulation // simulation data
	Dom     *Domain         // model and solver state
	Summary *Summary        // summary structure; may be nil
	Asm     Assembler       // element assembler; set by NewFEM for truss-only models
	Solver  Solver          // solver; e.g. implicit or explicit
	Verbose bool            // show messages
	sc      *SolverContext  // collaborators of the solver
}

// NewFEM returns a new FEM structure
//
//	Input:
//	 simfilepath -- simulation (.sim or .yaml) filename including full path
//	 alias       -- word to be appended to simulation key; e.g. when running multiple FE solutions
//	 erasePrev   -- erase previous results files
//	 saveSummary -- save summary
//	 verbose     -- show messages
//	Note: models with frames or shells require setting o.Asm before calling Run
func NewFEM(simfilepath, alias string, erasePrev, saveSummary, verbose bool) (o *FEM, err error) {

	// new FEM object
	o = new(FEM)
	o.Verbose = verbose

	// read input data
	o.Sim, err = inp.ReadSim(simfilepath, alias, erasePrev)
	if err != nil {
		return nil, err
	}
	sd := &o.Sim.Solver

	// context and domain
	mode, err := ParseMode(sd.Type, sd.ShellKin)
	if err != nil {
		return nil, err
	}
	mode.Linear = sd.Linear
	ctx := NewContext(o.Sim.Msh, mode)
	ctx.Verbose = verbose
	o.Dom, err = NewDomain(o.Sim.Msh, ctx)
	if err != nil {
		return nil, err
	}

	// summary
	if saveSummary {
		o.Summary = NewSummary(sd.Type, o.Sim.DirOut, o.Sim.Key, o.Sim.EncType)
	}

	// assembler
	if ctx.Nfr == 0 && ctx.Nsh == 0 {
		o.Asm, err = NewTrussAssembler(o.Dom)
		if err != nil {
			return nil, err
		}
	}

	// solver
	linsol := GetLinSol(sd.LinSol)
	if linsol == nil {
		return nil, chk.Err("cannot find linear solver named %q", sd.LinSol)
	}
	o.sc = &SolverContext{
		Data:   sd,
		LinSol: linsol,
		Tol:    Tolerances{sd.TolDisp, sd.TolForc, sd.TolEner},
		ShowR:  o.Sim.Data.ShowR,
		DirOut: o.Sim.DirOut,
		Key:    o.Sim.Key,
		EncTyp: o.Sim.EncType,
	}
	o.Solver = GetSolver(sd.Type, o.sc)
	if o.Solver == nil {
		return nil, chk.Err("cannot find solver type named %q", sd.Type)
	}
	return
}

// Run runs the simulation from the initial state
func (o *FEM) Run() (err error) {
	return o.run(false)
}

// Restart continues an explicit simulation from its last checkpoint
func (o *FEM) Restart() (err error) {
	if o.Dom.Ctx.Mode.Format() == FormatNone {
		return ErrNotCheckpointable
	}
	return o.run(true)
}

// run opens the streams, runs the solver and closes the streams. On failures, the error is
// written to the log and the streams are closed with "Solution failed".
func (o *FEM) run(restart bool) (err error) {

	// check
	if o.Asm == nil {
		return chk.Err("an assembler is required for models with frames or shells")
	}
	o.sc.Asm = o.Asm

	// streams
	dom := o.Dom
	dom.Ctx.Streams, err = OpenStreams(o.Sim.DirOut, o.Sim.Key, restart)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			dom.Ctx.Streams.Logf("%v\n", err)
			if o.Verbose {
				io.PfRed("%v\n", err)
			}
		}
		e := dom.Ctx.Streams.Close(err != nil)
		if err == nil {
			err = e
		}
		dom.Ctx.Streams = nil
	}()

	// initial state
	if restart {
		err = dom.ReadCheckpoint(CheckpointPath(o.Sim.DirOut, o.Sim.Key))
		if err != nil {
			return
		}
		o.restartSummary()
		if o.Verbose {
			io.Pforan("restarting from time step %d\n", dom.Tstep)
		}
	} else {
		dom.OutputHeaders()
	}

	// solve
	cputime := time.Now()
	err = o.Solver.Run(dom, o.Summary, restart)
	if o.Verbose {
		io.Pf("\n")
		io.Pfblue2("cpu time   = %v\n", time.Now().Sub(cputime))
	}

	// save results
	if err == nil && o.Summary != nil && len(o.Summary.OutLpfs) > 0 {
		err = dom.SaveSol(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, len(o.Summary.OutLpfs)-1)
	}
	if o.Summary != nil {
		o.Summary.Failed = err != nil
		if e := o.Summary.Save(o.Verbose); err == nil {
			err = e
		}
	}
	return
}

// restartSummary reads the summary of the previous run, if any, and drops the steps after the
// checkpoint
func (o *FEM) restartSummary() {
	if o.Summary == nil {
		return
	}
	prev, err := ReadSum(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType)
	if err != nil {
		return
	}
	n := 0
	for n < len(prev.OutLpfs) && n < o.Dom.Tstep {
		n++
	}
	o.Summary.OutLpfs = append(o.Summary.OutLpfs[:0], prev.OutLpfs[:n]...)
	o.Summary.Iters = append(o.Summary.Iters[:0], prev.Iters[:n]...)
	o.Summary.Statuses = append(o.Summary.Statuses[:0], prev.Statuses[:n]...)
	o.Summary.LastCkpt = o.Dom.Tstep
	o.Summary.tidx = n
}
