// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"
	goio "io"
	"math"

	"github.com/cpmech/gosl/io"
)

// OutputHeaders writes the column layout of the displacement and element force streams.
// Element streams without elements receive nothing.
func (o *Domain) OutputHeaders() {
	s := o.Ctx.Streams
	if s == nil {
		return
	}
	c := o.Ctx

	// displacements
	p(s.Disp, "Model Displacements:\n\tLambda\t\tIterations")
	for i := 0; i < c.Neq; i++ {
		if i+1 <= 1000 {
			p(s.Disp, "\tDOF %d\t", i+1)
		} else {
			p(s.Disp, "DOF %d\t", i+1)
		}
	}

	// trusses
	if c.Ntr > 0 {
		p(s.Truss, "Truss Element Forces (averaged):\n\tLambda\t\tIterations\t")
		for i := 0; i < c.Ntr; i++ {
			p(s.Truss, "Element %d\t", i+1)
		}
	}

	// frames
	if c.Nfr > 0 {
		p(s.Frame, "Frame Element Forces (averaged):\n\tLambda\t\tIterations\t")
		for i := 0; i < c.Nfr; i++ {
			p(s.Frame, "Element %d\t\t\t\t\t\t\t\t\t\t\t\t\t", i+1)
		}
		p(s.Frame, "\n\t\t\t\t\t")
		for i := 0; i < c.Nfr; i++ {
			p(s.Frame, "X-Force\t\tY-Force\t\tZ-Force\t\tX-Moment\tY-Moment\tZ-Moment\tBi-Moment\t")
		}
	}

	// shells
	if c.Nsh > 0 {
		p(s.Shell, "Shell Element Forces (averaged):\n\tLambda\t\tIterations\t")
		for i := 0; i < c.Nsh; i++ {
			p(s.Shell, "Element %d\t\t\t\t\t\t\t\t\t\t\t", i+1)
		}
		p(s.Shell, "\n\t\t\t\t\t")
		for i := 0; i < c.Nsh; i++ {
			p(s.Shell, "X-Force\t\tY-Force\t\tZ-Force\t\tX-Moment\tY-Moment\tZ-Moment\t")
		}
	}
}

// OutputStep writes one row with the load factor (or time), the iteration count, all
// displacements and the averaged element forces. A progress line goes to the console.
// Linear analyses report zero iterations.
func (o *Domain) OutputStep(lpf float64, iters int) {
	c := o.Ctx
	if c.Mode.Linear {
		iters = 0
	}

	// console
	if c.Verbose {
		switch {
		case c.Mode.Algorithm == AlgExplicit:
			io.Pf("Time = %e complete\n", lpf)
		case c.Mode.Linear:
			io.Pf("Analysis complete\n")
		default:
			io.Pf("LPF = %e complete (%d)\n", lpf, iters)
		}
	}

	// streams
	s := c.Streams
	if s == nil {
		return
	}

	// displacements
	p(s.Disp, "\n\t%e\t%d\t", lpf, iters)
	for i := 0; i < c.Neq; i++ {
		p(s.Disp, "\t%e", o.It.D[i])
	}

	// trusses
	if c.Ntr > 0 {
		p(s.Truss, "\n\t%e\t%d\t", lpf, iters)
		for i := 0; i < c.Ntr; i++ {
			p(s.Truss, "\t%e", AvgForces(o.Frc.EfTruss.Row(i), 2, 1)[0])
		}
	}

	// frames
	if c.Nfr > 0 {
		p(s.Frame, "\n\t%e\t%d\t", lpf, iters)
		for i := 0; i < c.Nfr; i++ {
			for _, v := range AvgForces(o.Frc.EfFrame.Row(i), 2, 7) {
				p(s.Frame, "\t%e", v)
			}
		}
	}

	// shells
	if c.Nsh > 0 {
		p(s.Shell, "\n\t%e\t%d\t", lpf, iters)
		for i := 0; i < c.Nsh; i++ {
			for _, v := range AvgForces(o.Frc.EfShell.Row(i), 3, 6) {
				p(s.Shell, "\t%e", v)
			}
		}
	}
}

// AvgForces returns the mean of the absolute values of each of the ncomp force components
// over nend element ends. ef holds the components of end 0 followed by those of end 1, ...
func AvgForces(ef []float64, nend, ncomp int) (res []float64) {
	res = make([]float64, ncomp)
	for j := 0; j < ncomp; j++ {
		for k := 0; k < nend; k++ {
			res[j] += math.Abs(ef[k*ncomp+j])
		}
		res[j] /= float64(nend)
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// p prints to w if w is not nil
func p(w goio.Writer, msg string, prm ...interface{}) {
	if w != nil {
		fmt.Fprintf(w, msg, prm...)
	}
}
