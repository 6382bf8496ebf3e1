// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	goio "io"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Format defines the layout of checkpoint files
type Format int

// checkpoint formats
const (
	FormatNone    Format = iota // no checkpoint (implicit static analyses)
	FormatCompact               // dynamics with linear shells: shells store areas and side lengths only
	FormatFull                  // dynamics with nonlinear shells: curvatures and force resultants are added
)

// Format returns the checkpoint format corresponding to the mode
func (o Mode) Format() Format {
	if o.Algorithm != AlgExplicit {
		return FormatNone
	}
	if o.ShellKin == ShellLinear {
		return FormatCompact
	}
	return FormatFull
}

// checkpoint errors
var (
	ErrNotCheckpointable = errors.New("analysis mode does not support checkpoints")
	ErrCorrupt           = errors.New("corrupted or incompatible checkpoint")
	ErrNoCheckpoint      = errors.New("checkpoint does not exist")
)

// CorruptError reports where a checkpoint file could not be read
type CorruptError struct {
	Line  int    // line number (1-based)
	Block string // block being read
	Msg   string // description
}

func (o *CorruptError) Error() string {
	return io.Sf("%v: line %d (%s): %s", ErrCorrupt, o.Line, o.Block, o.Msg)
}

// Unwrap returns ErrCorrupt
func (o *CorruptError) Unwrap() error { return ErrCorrupt }

// SaveCheckpoint writes the complete solver state of dom to w. Each logical block is closed
// by a sentinel record of zeros.
func SaveCheckpoint(w goio.Writer, mode Mode, dom *Domain) (err error) {

	// check
	format := mode.Format()
	if format == FormatNone {
		return ErrNotCheckpointable
	}
	err = dom.checkLayout(format)
	if err != nil {
		return
	}

	// auxiliary
	c := dom.Ctx
	bw := bufio.NewWriter(w)
	p := func(msg string, prm ...interface{}) { fmt.Fprintf(bw, msg, prm...) }

	// time step
	p("%d\n", dom.Tstep)

	// displacements, velocities and accelerations
	for i := 0; i < c.Neq; i++ {
		p("%e,%e,%e\n", dom.Dyn.Uc[i], dom.Dyn.Vc[i], dom.Dyn.Ac[i])
	}
	p("%d,%d,%d\n", 0, 0, 0)

	// stiffness and mass matrices
	for i := 0; i < c.Lss; i++ {
		p("%e,%e\n", dom.Dyn.SS[i], dom.Dyn.SM[i])
	}
	p("%d,%d\n", 0, 0)

	// displacements and internal forces
	for i := 0; i < c.Neq; i++ {
		p("%e,%e\n", dom.It.D[i], dom.It.F[i])
	}

	// element forces
	for _, t := range [][]float64{dom.Frc.EfTruss.Data, dom.Frc.EfFrame.Data, dom.Frc.EfShell.Data} {
		for _, v := range t {
			p("%e\n", v)
		}
	}

	// coordinates
	for _, v := range dom.Cfg.X.Data {
		p("%e\n", v)
	}

	// direction cosines
	for i := 0; i < c.Ntr; i++ {
		r := dom.Geo.TrussCos.Row(i)
		p("%e,%e,%e\n", r[0], r[1], r[2])
	}
	for _, t := range [][]float64{dom.Geo.FrameTriad.Data, dom.Geo.ShellTriad.Data} {
		for e := 0; e < len(t)/9; e++ {
			r := t[e*9 : (e+1)*9]
			for j := 0; j < 3; j++ {
				p("%e,%e,%e\n", r[j], r[3+j], r[6+j])
			}
		}
	}

	// truss
	for i := 0; i < c.Ntr; i++ {
		p("%e\n", dom.Geo.TrussLen[i])
	}

	// frame
	for i := 0; i < c.Nfr; i++ {
		p("%e,%e\n", dom.Geo.FrameLen[i], dom.Geo.FrameLen0[i])
	}
	for _, v := range dom.Frc.EfFE.Data {
		p("%e\n", v)
	}
	for _, v := range dom.Cfg.Xfr.Data {
		p("%e\n", v)
	}
	for _, v := range dom.Frc.Yield.Data {
		p("%d\n", v)
	}

	// shell
	for i := 0; i < c.Nsh; i++ {
		p("%e\n", dom.Geo.ShellArea[i])
	}
	if format == FormatCompact {
		for _, v := range dom.Geo.ShellSides.Data {
			p("%e\n", v)
		}
	} else {
		for i, v := range dom.Geo.ShellSides.Data {
			p("%e,%e\n", v, dom.Frc.Chi.Data[i])
		}
		for i, v := range dom.Frc.EfN.Data {
			p("%e,%e\n", v, dom.Frc.EfM.Data[i])
		}
	}
	p("%d,%d,%d\n", 0, 0, 0)
	return bw.Flush()
}

// LoadCheckpoint reads the solver state written by SaveCheckpoint into dom. dom must have been
// allocated for the same model and mode must match the one used when saving.
func LoadCheckpoint(r goio.Reader, mode Mode, dom *Domain) (err error) {

	// check
	format := mode.Format()
	if format == FormatNone {
		return ErrNotCheckpointable
	}
	err = dom.checkLayout(format)
	if err != nil {
		return
	}

	// read into a copy so that dom is unchanged on errors
	tmp := dom.clone()
	err = readCheckpoint(r, format, tmp)
	if err != nil {
		return
	}
	dom.assign(tmp)
	return
}

// readCheckpoint reads all blocks in the order written by SaveCheckpoint
func readCheckpoint(r goio.Reader, format Format, dom *Domain) (err error) {

	// reader
	c := dom.Ctx
	rd := &ckptReader{sc: bufio.NewScanner(r)}

	// time step
	rd.block = "time step"
	if err = rd.ints(&dom.Tstep); err != nil {
		return
	}

	// displacements, velocities and accelerations
	rd.block = "kinematics"
	for i := 0; i < c.Neq; i++ {
		if err = rd.floats(&dom.Dyn.Uc[i], &dom.Dyn.Vc[i], &dom.Dyn.Ac[i]); err != nil {
			return
		}
	}
	if err = rd.sentinel(3); err != nil {
		return
	}

	// stiffness and mass matrices
	rd.block = "matrices"
	for i := 0; i < c.Lss; i++ {
		if err = rd.floats(&dom.Dyn.SS[i], &dom.Dyn.SM[i]); err != nil {
			return
		}
	}
	if err = rd.sentinel(2); err != nil {
		return
	}

	// displacements and internal forces
	rd.block = "state"
	for i := 0; i < c.Neq; i++ {
		if err = rd.floats(&dom.It.D[i], &dom.It.F[i]); err != nil {
			return
		}
	}

	// element forces and coordinates
	for _, t := range [][]float64{dom.Frc.EfTruss.Data, dom.Frc.EfFrame.Data, dom.Frc.EfShell.Data, dom.Cfg.X.Data} {
		if err = rd.column(t); err != nil {
			return
		}
	}

	// direction cosines
	for i := 0; i < c.Ntr; i++ {
		r := dom.Geo.TrussCos.Row(i)
		if err = rd.floats(&r[0], &r[1], &r[2]); err != nil {
			return
		}
	}
	for _, t := range [][]float64{dom.Geo.FrameTriad.Data, dom.Geo.ShellTriad.Data} {
		for e := 0; e < len(t)/9; e++ {
			r := t[e*9 : (e+1)*9]
			for j := 0; j < 3; j++ {
				if err = rd.floats(&r[j], &r[3+j], &r[6+j]); err != nil {
					return
				}
			}
		}
	}

	// truss
	rd.block = "truss"
	if err = rd.column(dom.Geo.TrussLen); err != nil {
		return
	}

	// frame
	rd.block = "frame"
	for i := 0; i < c.Nfr; i++ {
		if err = rd.floats(&dom.Geo.FrameLen[i], &dom.Geo.FrameLen0[i]); err != nil {
			return
		}
	}
	if err = rd.column(dom.Frc.EfFE.Data); err != nil {
		return
	}
	if err = rd.column(dom.Cfg.Xfr.Data); err != nil {
		return
	}
	for i := range dom.Frc.Yield.Data {
		if err = rd.ints(&dom.Frc.Yield.Data[i]); err != nil {
			return
		}
	}

	// shell
	rd.block = "shell"
	if err = rd.column(dom.Geo.ShellArea); err != nil {
		return
	}
	if format == FormatCompact {
		if err = rd.column(dom.Geo.ShellSides.Data); err != nil {
			return
		}
	} else {
		for i := range dom.Geo.ShellSides.Data {
			if err = rd.floats(&dom.Geo.ShellSides.Data[i], &dom.Frc.Chi.Data[i]); err != nil {
				return
			}
		}
		for i := range dom.Frc.EfN.Data {
			if err = rd.floats(&dom.Frc.EfN.Data[i], &dom.Frc.EfM.Data[i]); err != nil {
				return
			}
		}
	}
	if err = rd.sentinel(3); err != nil {
		return
	}

	// nothing else is allowed
	rd.block = "end"
	for rd.sc.Scan() {
		rd.line++
		if strings.TrimSpace(rd.sc.Text()) != "" {
			return rd.corrupt("unexpected data after final sentinel")
		}
	}
	return rd.sc.Err()
}

// WriteCheckpoint saves the state to file path using the mode in the context
func (o *Domain) WriteCheckpoint(path string) (err error) {
	var buf bytes.Buffer
	err = SaveCheckpoint(&buf, o.Ctx.Mode, o)
	if err != nil {
		return
	}
	return save_file(path, &buf, o.Ctx.Verbose)
}

// ReadCheckpoint reads the state from file path using the mode in the context. A missing
// file returns an error matching ErrNoCheckpoint.
func (o *Domain) ReadCheckpoint(path string) (err error) {
	fil, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w", ErrNoCheckpoint, err)
		}
		return chk.Err("cannot open checkpoint file:\n%v", err)
	}
	defer fil.Close()
	return LoadCheckpoint(fil, o.Ctx.Mode, o)
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// checkLayout checks that all arrays required by format are allocated with the right sizes
func (o *Domain) checkLayout(format Format) (err error) {
	c := o.Ctx
	sizes := []struct {
		name string
		n, m int
	}{
		{"uc", len(o.Dyn.Uc), c.Neq}, {"vc", len(o.Dyn.Vc), c.Neq}, {"ac", len(o.Dyn.Ac), c.Neq},
		{"ss", len(o.Dyn.SS), c.Lss}, {"sm", len(o.Dyn.SM), c.Lss},
		{"d", len(o.It.D), c.Neq}, {"f", len(o.It.F), c.Neq},
		{"ef", len(o.Frc.EfTruss.Data) + len(o.Frc.EfFrame.Data) + len(o.Frc.EfShell.Data), c.Nef()},
		{"x", len(o.Cfg.X.Data), c.Nj * 3},
		{"c", len(o.Geo.TrussCos.Data) + len(o.Geo.FrameTriad.Data) + len(o.Geo.ShellTriad.Data), c.Ndc() * 3},
		{"deflen", len(o.Geo.TrussLen) + len(o.Geo.FrameLen), c.Ntr + c.Nfr},
		{"llength", len(o.Geo.FrameLen0), c.Nfr},
		{"efFE", len(o.Frc.EfFE.Data), c.Nfr * 14},
		{"xfr", len(o.Cfg.Xfr.Data), c.Nfr * 6},
		{"yldflag", len(o.Frc.Yield.Data), c.Nfr * 2},
		{"deffarea", len(o.Geo.ShellArea), c.Nsh},
		{"defslen", len(o.Geo.ShellSides.Data), c.Nsh * 3},
	}
	if format == FormatFull {
		sizes = append(sizes, []struct {
			name string
			n, m int
		}{
			{"chi", len(o.Frc.Chi.Data), c.Nsh * 3},
			{"efN", len(o.Frc.EfN.Data), c.Nsh * 9},
			{"efM", len(o.Frc.EfM.Data), c.Nsh * 9},
		}...)
	}
	for _, s := range sizes {
		if s.n != s.m {
			return chk.Err("checkpoint: array %q has size %d but %d is required", s.name, s.n, s.m)
		}
	}
	return
}

// ckptReader reads records of a checkpoint file line by line
type ckptReader struct {
	sc    *bufio.Scanner
	line  int
	block string
}

func (o *ckptReader) corrupt(msg string, prm ...interface{}) error {
	return &CorruptError{o.line, o.block, io.Sf(msg, prm...)}
}

// next returns the n comma-separated fields of the next line
func (o *ckptReader) next(n int) (fields []string, err error) {
	if !o.sc.Scan() {
		if err = o.sc.Err(); err != nil {
			return nil, chk.Err("cannot read checkpoint:\n%v", err)
		}
		o.line++
		return nil, o.corrupt("unexpected end of file")
	}
	o.line++
	fields = strings.Split(strings.TrimSpace(o.sc.Text()), ",")
	if len(fields) != n {
		return nil, o.corrupt("%d fields found but %d are required", len(fields), n)
	}
	return
}

func (o *ckptReader) floats(dst ...*float64) (err error) {
	fields, err := o.next(len(dst))
	if err != nil {
		return
	}
	for i, f := range fields {
		*dst[i], err = strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return o.corrupt("invalid number %q", f)
		}
	}
	return
}

func (o *ckptReader) ints(dst ...*int) (err error) {
	fields, err := o.next(len(dst))
	if err != nil {
		return
	}
	for i, f := range fields {
		*dst[i], err = strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return o.corrupt("invalid integer %q", f)
		}
	}
	return
}

// column reads len(dst) records with one value each
func (o *ckptReader) column(dst []float64) (err error) {
	for i := range dst {
		if err = o.floats(&dst[i]); err != nil {
			return
		}
	}
	return
}

// sentinel reads a record of n integer zeros
func (o *ckptReader) sentinel(n int) (err error) {
	fields, err := o.next(n)
	if err != nil {
		return
	}
	for _, f := range fields {
		if v, e := strconv.Atoi(strings.TrimSpace(f)); e != nil || v != 0 {
			return o.corrupt("sentinel mismatch: %q", o.sc.Text())
		}
	}
	return
}
