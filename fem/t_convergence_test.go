// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// newIteration returns an iteration state with 2 equations
func newIteration(d, dd, qtot, f, fp, fip []float64, intener1 float64) *Iteration {
	return &Iteration{D: d, Dd: dd, Qtot: qtot, F: f, Fp: fp, Fip: fip, Intener1: intener1}
}

func Test_conv01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("conv01. displacement criterion")

	tol := Tolerances{Disp: 0.5, Forc: 1, Ener: 1}
	z := []float64{0, 0}

	// |d| = 10, |dd| = 6 => 0.6 > 0.5
	it := newIteration([]float64{6, 8}, []float64{6, 0}, z, z, z, z, 0)
	status, err := CheckConvergence(it, tol)
	if err != nil {
		tst.Errorf("CheckConvergence failed:\n%v", err)
		return
	}
	chk.Int(tst, "status", int(status), 10)
	if !status.Has(FailDisp) || status.Has(FailForce) || status.Has(FailEnergy) {
		tst.Errorf("status %v should have the displacement code only\n", status)
		return
	}
	chk.String(tst, status.String(), "disp")

	// |d| = 10, |dd| = 4 => 0.4 ≤ 0.5
	it.Dd = []float64{0, 4}
	res, err := EvalConvergence(it, tol)
	if err != nil {
		tst.Errorf("EvalConvergence failed:\n%v", err)
		return
	}
	chk.Int(tst, "status", int(res.Status), 0)
	chk.Float64(tst, "rdisp", 1e-15, res.Rdisp, 0.4)
	chk.Float64(tst, "rforc (disabled)", 1e-15, res.Rforc, -1)
	chk.Float64(tst, "rener (disabled)", 1e-15, res.Rener, -1)
	if !res.Status.Converged() {
		tst.Errorf("status should be converged\n")
	}
	chk.String(tst, res.Status.String(), "converged")
}

func Test_conv02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("conv02. all criteria")

	tol := Tolerances{Disp: 0.1, Forc: 0.1, Ener: 0.1}
	d := []float64{3, 4}
	dd := []float64{1, 0}
	qtot := []float64{10, 0}
	f := []float64{9, 0}
	fp := []float64{6, 0}
	fip := []float64{2, 0}

	// rdisp = 0.2, rforc = 1/4, rener = |1·8| / 16 = 0.5
	it := newIteration(d, dd, qtot, f, fp, fip, 16)
	res, err := EvalConvergence(it, tol)
	if err != nil {
		tst.Errorf("EvalConvergence failed:\n%v", err)
		return
	}
	io.Pforan("res = %+v\n", res)
	chk.Float64(tst, "rdisp", 1e-15, res.Rdisp, 0.2)
	chk.Float64(tst, "rforc", 1e-15, res.Rforc, 0.25)
	chk.Float64(tst, "rener", 1e-15, res.Rener, 0.5)
	chk.Int(tst, "status", int(res.Status), 1110)
	chk.String(tst, res.Status.String(), "disp+forc+ener")

	// force criterion satisfied only
	it.F = []float64{9.9, 0}
	res, _ = EvalConvergence(it, tol)
	chk.Int(tst, "status", int(res.Status), 1010)
	chk.String(tst, res.Status.String(), "disp+ener")

	// energy of first iteration
	chk.Float64(tst, "intener1", 1e-15, FirstIterationEnergy(it), 8)
}

func Test_conv03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("conv03. zero denominators")

	z := []float64{0, 0}
	one := []float64{1, 1}

	// zero total displacements
	it := newIteration(z, one, one, z, z, z, 1)
	_, err := CheckConvergence(it, Tolerances{Disp: 0.1, Forc: 1, Ener: 1})
	checkZeroNorm(tst, err, "disp", "Displacements are zero")

	// zero unbalanced force of previous iteration; fatal even though displacements converge
	it = newIteration([]float64{1e6, 0}, z, one, z, one, z, 1)
	status, err := CheckConvergence(it, Tolerances{Disp: 0.1, Forc: 0.1, Ener: 1})
	checkZeroNorm(tst, err, "forc", "Force increment is zero")
	chk.Int(tst, "status (ignored)", int(status), 0)

	// zero energy of first iteration
	it = newIteration(one, one, one, z, z, z, 0)
	_, err = CheckConvergence(it, Tolerances{Disp: 1, Forc: 1, Ener: 0.1})
	checkZeroNorm(tst, err, "ener", "Energy increment is zero")

	// disabled criteria are not evaluated
	it = newIteration(z, z, z, z, z, z, 0)
	status, err = CheckConvergence(it, Tolerances{Disp: 1, Forc: 2, Ener: 1})
	if err != nil {
		tst.Errorf("disabled criteria should not fail:\n%v", err)
		return
	}
	chk.Int(tst, "status", int(status), 0)
}

// checkZeroNorm checks that err reports a zero denominator
func checkZeroNorm(tst *testing.T, err error, criterion, msg string) {
	if err == nil {
		tst.Errorf("%s: CheckConvergence should have failed\n", criterion)
		return
	}
	io.Pforan("%v\n", err)
	if !errors.Is(err, ErrZeroNorm) {
		tst.Errorf("%s: error should match ErrZeroNorm\n", criterion)
		return
	}
	var zerr *ZeroNormError
	if !errors.As(err, &zerr) {
		tst.Errorf("%s: error should be a ZeroNormError\n", criterion)
		return
	}
	chk.String(tst, zerr.Criterion, criterion)
	chk.String(tst, err.Error()[:len(msg)], msg)
}

func Test_conv04(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("conv04. non-finite ratios")

	tol := Tolerances{Disp: 1e-4, Forc: 1e-4, Ener: 1e-4}
	nan := math.NaN()
	z := []float64{0, 0}

	// NaN in d, dd and f fails all criteria
	it := newIteration([]float64{1, nan}, []float64{1, nan}, []float64{1, 1}, []float64{0, nan}, z, z, 1)
	res, err := EvalConvergence(it, tol)
	if err != nil {
		tst.Errorf("EvalConvergence failed:\n%v", err)
		return
	}
	io.Pforan("res = %+v\n", res)
	chk.Int(tst, "status", int(res.Status), 1110)
	if res.Status.Converged() {
		tst.Errorf("status should not be converged\n")
		return
	}

	// infinite increment
	it = newIteration([]float64{1, 0}, []float64{math.Inf(1), 0}, z, z, z, z, 0)
	status, err := CheckConvergence(it, Tolerances{Disp: 1e-4, Forc: 1, Ener: 1})
	if err != nil {
		tst.Errorf("CheckConvergence failed:\n%v", err)
		return
	}
	chk.Int(tst, "status", int(status), 10)
}
