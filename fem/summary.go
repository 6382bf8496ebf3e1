// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// Summary records summary of outputs
type Summary struct {

	// main data
	Algorithm string      // "imp" or "exp"
	OutLpfs   []float64   // [nout] load factors (or times) of output steps
	Iters     []int       // [nout] number of iterations of each increment
	Statuses  []int       // [nout] final convergence status of each increment
	Resids    [][]float64 // [nout][niter] displacement ratios of all iterations
	LastCkpt  int         // time step of the last checkpoint; -1 => none
	Failed    bool        // analysis failed
	Dirout    string      // directory where results are stored
	Fnkey     string      // filename key of simulation
	Enctype   string      // encoder type

	// auxiliary
	tidx int // output index
}

// NewSummary returns a new summary
func NewSummary(algorithm, dirout, fnkey, enctype string) *Summary {
	return &Summary{Algorithm: algorithm, LastCkpt: -1, Dirout: dirout, Fnkey: fnkey, Enctype: enctype}
}

// AddIter records the displacement ratio of one iteration; first => first iteration of increment
func (o *Summary) AddIter(first bool, rdisp float64) {
	if first || len(o.Resids) == 0 {
		o.Resids = append(o.Resids, nil)
	}
	n := len(o.Resids) - 1
	o.Resids[n] = append(o.Resids[n], rdisp)
}

// AddStep records one completed output step and returns its output index
func (o *Summary) AddStep(lpf float64, iters int, status Status) (tidx int) {
	o.OutLpfs = append(o.OutLpfs, lpf)
	o.Iters = append(o.Iters, iters)
	o.Statuses = append(o.Statuses, int(status))
	tidx = o.tidx
	o.tidx++
	return
}

// MaxIters returns the largest number of iterations of all increments
func (o *Summary) MaxIters() (nmax int) {
	for _, n := range o.Iters {
		nmax = utl.Imax(nmax, n)
	}
	return
}

// Save saves summary to disc
func (o Summary) Save(verbose bool) (err error) {

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, o.Enctype)

	// encode summary
	err = enc.Encode(o)
	if err != nil {
		return chk.Err("cannot encode summary:\n%v", err)
	}

	// save file
	fn := out_sum_path(o.Dirout, o.Fnkey, o.Enctype)
	return save_file(fn, &buf, verbose)
}

// ReadSum reads summary back
func ReadSum(dir, fnkey, enctype string) (o *Summary, err error) {

	// open file
	fn := out_sum_path(dir, fnkey, enctype)
	fil, err := os.Open(fn)
	if err != nil {
		return nil, chk.Err("cannot open summary file:\n%v", err)
	}
	defer fil.Close()

	// decode summary
	o = new(Summary)
	err = GetDecoder(fil, enctype).Decode(o)
	if err != nil {
		return nil, chk.Err("cannot decode summary:\n%v", err)
	}
	o.tidx = len(o.OutLpfs)
	return
}
