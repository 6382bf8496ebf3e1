// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or YAML file
package inp

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {
	Desc    string `json:"desc" yaml:"desc"`       // description of simulation
	Mshfile string `json:"mshfile" yaml:"mshfile"` // model (joints and elements) file path
	DirOut  string `json:"dirout" yaml:"dirout"`   // directory for output; e.g. /tmp/cuben
	Encoder string `json:"encoder" yaml:"encoder"` // encoder name for summary; e.g. "gob" "json"
	ShowR   bool   `json:"showr" yaml:"showr"`     // show convergence ratios during iterations
}

// SolverData holds FEM solver data
type SolverData struct {

	// analysis mode
	Type     string `json:"type" yaml:"type"`         // solver type: {imp, exp} => implicit static, explicit dynamic
	ShellKin string `json:"shellkin" yaml:"shellkin"` // shell kinematics: {linear, nonlinear}
	LinSol   string `json:"linsol" yaml:"linsol"`     // linear solver: {lu, gj} => gonum LU, Gauss-Jordan
	Linear   bool   `json:"linear" yaml:"linear"`     // linear analysis: one solve at lpfmax without iterations

	// equilibrium iterations
	NmaxIt  int     `json:"nmaxit" yaml:"nmaxit"`   // max number of iterations per increment
	TolDisp float64 `json:"toldisp" yaml:"toldisp"` // displacement tolerance; ≥ 1 disables the criterion
	TolForc float64 `json:"tolforc" yaml:"tolforc"` // force tolerance; ≥ 1 disables the criterion
	TolEner float64 `json:"tolener" yaml:"tolener"` // energy tolerance; ≥ 1 disables the criterion

	// load control (implicit)
	Dlpf   float64 `json:"dlpf" yaml:"dlpf"`     // load proportionality factor increment
	Lpfmax float64 `json:"lpfmax" yaml:"lpfmax"` // final load proportionality factor

	// time control (explicit)
	Dt        float64 `json:"dt" yaml:"dt"`               // time step
	Nsteps    int     `json:"nsteps" yaml:"nsteps"`       // number of time steps
	CkptEvery int     `json:"ckptevery" yaml:"ckptevery"` // write checkpoint every n steps; 0 => never

	// derived
	Nincs int // number of load increments
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data   Data       `json:"data" yaml:"data"`     // stores global simulation data
	Solver SolverData `json:"solver" yaml:"solver"` // FEM solver data

	// derived
	Msh     *Mesh  // model
	DirOut  string // directory to save results
	Key     string // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType string // encoder type
}

// ReadSim reads all simulation data from a .sim (JSON) or .yaml file
//
//	Input:
//	 simfilepath -- simulation filename including full path
//	 alias       -- word to be appended to simulation key
//	 erasefiles  -- create output directory and erase previous results
func ReadSim(simfilepath, alias string, erasefiles bool) (o *Simulation, err error) {

	// new sim
	o = new(Simulation)

	// read file
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q:\n%v", simfilepath, err)
	}

	// set default values
	o.Solver.SetDefault()

	// decode
	err = decode(simfilepath, b, o)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// input directory and filename key
	dir := os.ExpandEnv(filepath.Dir(simfilepath))
	fnkey := io.FnKey(filepath.Base(simfilepath))
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/cuben/" + fnkey
	}

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// create directory and erase previous simulation results
	if erasefiles {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			return nil, chk.Err("ReadSim: cannot create directory for output results (%s):\n%v", o.DirOut, err)
		}
		olds, _ := filepath.Glob(filepath.Join(o.DirOut, o.Key+"*"))
		for _, fn := range olds {
			os.Remove(fn)
		}
	}

	// check and set solver constants
	err = o.Solver.PostProcess()
	if err != nil {
		return nil, chk.Err("ReadSim: invalid solver data in %q:\n%v", simfilepath, err)
	}

	// read model
	if o.Data.Mshfile == "" {
		return nil, chk.Err("ReadSim: model file (mshfile) must be given in %q", simfilepath)
	}
	o.Msh, err = ReadMsh(dir, o.Data.Mshfile)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read model file:\n%v", err)
	}
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault set defaults values
func (o *SolverData) SetDefault() {

	// analysis mode
	o.Type = "imp"
	o.ShellKin = "nonlinear"
	o.LinSol = "lu"

	// equilibrium iterations
	o.NmaxIt = 20
	o.TolDisp = 1e-4
	o.TolForc = 1e-4
	o.TolEner = 1 // disabled

	// load control
	o.Dlpf = 0.1
	o.Lpfmax = 1

	// time control
	o.Dt = 1e-3
	o.Nsteps = 100
}

// PostProcess checks the just read data and computes derived values
func (o *SolverData) PostProcess() (err error) {
	o.Type = strings.ToLower(o.Type)
	o.ShellKin = strings.ToLower(o.ShellKin)
	o.LinSol = strings.ToLower(o.LinSol)
	switch o.Type {
	case "imp", "exp":
	default:
		return chk.Err("solver type %q is invalid. {imp, exp} => implicit, explicit", o.Type)
	}
	switch o.ShellKin {
	case "linear", "nonlinear":
	default:
		return chk.Err("shell kinematics %q is invalid. options: {linear, nonlinear}", o.ShellKin)
	}
	if o.NmaxIt < 1 {
		return chk.Err("max number of iterations must be positive. nmaxit = %d is invalid", o.NmaxIt)
	}
	if o.TolDisp <= 0 || o.TolForc <= 0 || o.TolEner <= 0 {
		return chk.Err("tolerances must be positive. toldisp=%g tolforc=%g tolener=%g", o.TolDisp, o.TolForc, o.TolEner)
	}
	if o.Type == "imp" {
		if o.Dlpf <= 0 || o.Lpfmax < o.Dlpf {
			return chk.Err("load control requires 0 < dlpf ≤ lpfmax. dlpf=%g lpfmax=%g", o.Dlpf, o.Lpfmax)
		}
		o.Nincs = int(o.Lpfmax/o.Dlpf + 0.5)
	}
	if o.Type == "exp" {
		if o.Dt <= 0 || o.Nsteps < 1 {
			return chk.Err("time control requires dt > 0 and nsteps ≥ 1. dt=%g nsteps=%d", o.Dt, o.Nsteps)
		}
		if o.CkptEvery < 0 {
			return chk.Err("ckptevery must be non-negative. ckptevery=%d", o.CkptEvery)
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// decode unmarshals JSON or YAML data according to the file extension
func decode(fn string, b []byte, v interface{}) error {
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, v)
	}
	return json.Unmarshal(b, v)
}
