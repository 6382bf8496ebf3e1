// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"errors"
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/lin"
)

// Status holds the digit-coded result of the convergence check; 0 => converged
type Status int

// failure codes
const (
	FailDisp   Status = 10   // displacement criterion failed
	FailForce  Status = 100  // force criterion failed
	FailEnergy Status = 1000 // energy criterion failed
)

// Converged tells whether all active criteria were satisfied
func (o Status) Converged() bool { return o == 0 }

// Has tells whether the failure code c is set
func (o Status) Has(c Status) bool { return (int(o)/int(c))%10 != 0 }

// String returns a short description; e.g. "disp+ener"
func (o Status) String() string {
	if o == 0 {
		return "converged"
	}
	s := ""
	add := func(c Status, name string) {
		if o.Has(c) {
			if s != "" {
				s += "+"
			}
			s += name
		}
	}
	add(FailDisp, "disp")
	add(FailForce, "forc")
	add(FailEnergy, "ener")
	return s
}

// Tolerances holds the tolerances of the three criteria; a value ≥ 1 disables the criterion
type Tolerances struct {
	Disp float64 // displacement norm ratio
	Forc float64 // unbalanced force norm ratio
	Ener float64 // incremental energy ratio
}

// ErrZeroNorm indicates a zero denominator in a convergence criterion
var ErrZeroNorm = errors.New("zero norm in convergence criterion")

// ZeroNormError reports the criterion with a zero denominator. The analysis cannot continue.
type ZeroNormError struct {
	Criterion string // "disp", "forc" or "ener"
}

func (o *ZeroNormError) Error() string {
	switch o.Criterion {
	case "disp":
		return io.Sf("Displacements are zero: %v", ErrZeroNorm)
	case "forc":
		return io.Sf("Force increment is zero: %v", ErrZeroNorm)
	}
	return io.Sf("Energy increment is zero: %v", ErrZeroNorm)
}

// Unwrap returns ErrZeroNorm
func (o *ZeroNormError) Unwrap() error { return ErrZeroNorm }

// Convergence holds the result of EvalConvergence. Ratios of disabled criteria are -1.
// A NaN ratio fails its criterion
type Convergence struct {
	Status Status
	Rdisp  float64 // ‖dd‖ / ‖d‖
	Rforc  float64 // ‖qtot - f‖ / ‖qtot - fp‖
	Rener  float64 // |dd·(qtot - fip)| / |intener1|
}

// EvalConvergence evaluates the active criteria and returns the status and ratios
func EvalConvergence(it *Iteration, tol Tolerances) (res Convergence, err error) {

	// auxiliary
	res.Rdisp, res.Rforc, res.Rener = -1, -1, -1
	neq := len(it.D)

	// displacements
	if tol.Disp < 1 {
		totald := lin.Norm(it.D[:neq])
		if totald == 0 {
			return res, &ZeroNormError{"disp"}
		}
		res.Rdisp = lin.Norm(it.Dd[:neq]) / totald
		if !(res.Rdisp <= tol.Disp) {
			res.Status += FailDisp
		}
	}

	// unbalanced forces
	if tol.Forc < 1 {
		var unbfi, unbfp float64
		for i := 0; i < neq; i++ {
			unbfi += (it.Qtot[i] - it.F[i]) * (it.Qtot[i] - it.F[i])
			unbfp += (it.Qtot[i] - it.Fp[i]) * (it.Qtot[i] - it.Fp[i])
		}
		if unbfp == 0 {
			return res, &ZeroNormError{"forc"}
		}
		res.Rforc = math.Sqrt(unbfi) / math.Sqrt(unbfp)
		if !(res.Rforc <= tol.Forc) {
			res.Status += FailForce
		}
	}

	// incremental internal energy
	if tol.Ener < 1 {
		var inteneri float64
		for i := 0; i < neq; i++ {
			inteneri += it.Dd[i] * (it.Qtot[i] - it.Fip[i])
		}
		if it.Intener1 == 0 {
			return res, &ZeroNormError{"ener"}
		}
		res.Rener = math.Abs(inteneri / it.Intener1)
		if !(res.Rener <= tol.Ener) {
			res.Status += FailEnergy
		}
	}
	return
}

// CheckConvergence returns the digit-coded status of the active criteria.
//
//	Note: a non-nil error means the iteration is invalid (zero denominator) and the status
//	      must be ignored
func CheckConvergence(it *Iteration, tol Tolerances) (Status, error) {
	res, err := EvalConvergence(it, tol)
	if err != nil {
		return 0, err
	}
	return res.Status, nil
}

// FirstIterationEnergy returns dd·(qtot - fip), the reference of the energy criterion
func FirstIterationEnergy(it *Iteration) (e float64) {
	for i := range it.Dd {
		e += it.Dd[i] * (it.Qtot[i] - it.Fip[i])
	}
	return
}
