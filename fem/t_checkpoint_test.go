// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/inp"
)

// ckptMesh returns a model with one truss, one frame and one shell
func ckptMesh() *inp.Mesh {
	return &inp.Mesh{
		Joints: []*inp.Joint{
			{X: []float64{0, 0, 0}, Fix: []int{1, 1, 1, 1, 1, 1, 1}},
			{X: []float64{1, 0, 0}, Fix: []int{0, 0, 1, 1, 1, 0, 1}},
			{X: []float64{0, 1, 0}},
			{X: []float64{1, 1, 0.5}, Fix: []int{1, 1, 1}},
		},
		Trusses: []*inp.Truss{{Verts: []int{0, 3}, E: 1, A: 1}},
		Frames:  []*inp.Frame{{Verts: []int{0, 1}, Aux: []float64{0, 0, 1}}},
		Shells:  []*inp.Shell{{Verts: []int{1, 2, 3}}},
	}
}

// ckptArrays returns the arrays stored in checkpoints
func ckptArrays(dom *Domain, format Format) (names []string, arrays [][]float64) {
	names = []string{"uc", "vc", "ac", "ss", "sm", "d", "f", "efTruss", "efFrame", "efShell", "x",
		"cosTruss", "triadFrame", "triadShell", "lenTruss", "lenFrame", "len0Frame", "efFE", "xfr",
		"area", "sides"}
	arrays = [][]float64{dom.Dyn.Uc, dom.Dyn.Vc, dom.Dyn.Ac, dom.Dyn.SS, dom.Dyn.SM, dom.It.D, dom.It.F,
		dom.Frc.EfTruss.Data, dom.Frc.EfFrame.Data, dom.Frc.EfShell.Data, dom.Cfg.X.Data,
		dom.Geo.TrussCos.Data, dom.Geo.FrameTriad.Data, dom.Geo.ShellTriad.Data, dom.Geo.TrussLen,
		dom.Geo.FrameLen, dom.Geo.FrameLen0, dom.Frc.EfFE.Data, dom.Cfg.Xfr.Data,
		dom.Geo.ShellArea, dom.Geo.ShellSides.Data}
	if format == FormatFull {
		names = append(names, "chi", "efN", "efM")
		arrays = append(arrays, dom.Frc.Chi.Data, dom.Frc.EfN.Data, dom.Frc.EfM.Data)
	}
	return
}

// fillState sets synthetic values with an exact text representation
func fillState(dom *Domain) {
	k := 0
	for _, a := range dom.arrays() {
		for i := range a {
			a[i] = float64(k%97)*0.125 - 3
			k++
		}
	}
	for i := range dom.Frc.Yield.Data {
		dom.Frc.Yield.Data[i] = i % 2
	}
	dom.Tstep = 42
}

func Test_ckpt01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("ckpt01. round trip and block ordering")

	for _, mode := range []Mode{{AlgExplicit, ShellLinear, false}, {AlgExplicit, ShellNonlinear, false}} {
		format := mode.Format()
		io.Pforan("format = %v\n", format)

		// save
		domA := newTestDomain(tst, ckptMesh(), mode)
		fillState(domA)
		var bufA bytes.Buffer
		err := SaveCheckpoint(&bufA, mode, domA)
		if err != nil {
			tst.Errorf("SaveCheckpoint failed:\n%v", err)
			return
		}

		// load into a fresh domain
		domB := newTestDomain(tst, ckptMesh(), mode)
		err = LoadCheckpoint(bytes.NewReader(bufA.Bytes()), mode, domB)
		if err != nil {
			tst.Errorf("LoadCheckpoint failed:\n%v", err)
			return
		}
		chk.Int(tst, "tstep", domB.Tstep, 42)
		names, arraysA := ckptArrays(domA, format)
		_, arraysB := ckptArrays(domB, format)
		for i, name := range names {
			chk.Array(tst, name, 0, arraysB[i], arraysA[i])
		}
		chk.Ints(tst, "yldflag", domB.Frc.Yield.Data, domA.Frc.Yield.Data)

		// saving again reproduces the text
		var bufB bytes.Buffer
		err = SaveCheckpoint(&bufB, mode, domB)
		if err != nil {
			tst.Errorf("SaveCheckpoint failed:\n%v", err)
			return
		}
		chk.String(tst, bufB.String(), bufA.String())

		// layout
		c := domA.Ctx
		lines := strings.Split(strings.TrimSuffix(bufA.String(), "\n"), "\n")
		nshell := c.Nsh + c.Nsh*3
		if format == FormatFull {
			nshell += c.Nsh * 9
		}
		nlines := 1 + c.Neq + 1 + c.Lss + 1 + c.Neq + c.Nef() + c.Nj*3 + c.Ndc()*3 +
			c.Ntr + c.Nfr + c.Nfr*14 + c.Nfr*6 + c.Nfr*2 + nshell + 1
		chk.Int(tst, "number of lines", len(lines), nlines)
		chk.String(tst, lines[0], "42")
		chk.String(tst, lines[1+c.Neq], "0,0,0")
		chk.String(tst, lines[2+c.Neq+c.Lss], "0,0")
		chk.String(tst, lines[len(lines)-1], "0,0,0")
		chk.Int(tst, "fields of first kinematics record", len(strings.Split(lines[1], ",")), 3)
		chk.Int(tst, "fields of first matrix record", len(strings.Split(lines[2+c.Neq], ",")), 2)
	}
}

func Test_ckpt02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("ckpt02. corrupted checkpoints")

	mode := Mode{Algorithm: AlgExplicit, ShellKin: ShellLinear}
	domA := newTestDomain(tst, ckptMesh(), mode)
	fillState(domA)
	var buf bytes.Buffer
	err := SaveCheckpoint(&buf, mode, domA)
	if err != nil {
		tst.Errorf("SaveCheckpoint failed:\n%v", err)
		return
	}
	good := buf.String()
	lines := strings.Split(strings.TrimSuffix(good, "\n"), "\n")
	neq := domA.Ctx.Neq

	// variants
	join := func(l []string) string { return strings.Join(l, "\n") + "\n" }
	badSentinel := append([]string{}, lines...)
	badSentinel[1+neq] = "0,0,1"
	badNumber := append([]string{}, lines...)
	badNumber[1] = "1.0e+00,abc,3.0e+00"
	badCount := append([]string{}, lines...)
	badCount[1] = "1.0e+00,2.0e+00"
	cases := []struct {
		name string
		text string
	}{
		{"sentinel", join(badSentinel)},
		{"number", join(badNumber)},
		{"field count", join(badCount)},
		{"truncated", join(lines[:len(lines)-5])},
		{"trailing data", good + "1.0e+00\n"},
		{"empty", ""},
	}
	for _, cs := range cases {
		domB := newTestDomain(tst, ckptMesh(), mode)
		x0 := append([]float64{}, domB.Cfg.X.Data...)
		err = LoadCheckpoint(strings.NewReader(cs.text), mode, domB)
		if err == nil {
			tst.Errorf("%s: LoadCheckpoint should have failed\n", cs.name)
			return
		}
		io.Pforan("%s: %v\n", cs.name, err)
		if !errors.Is(err, ErrCorrupt) {
			tst.Errorf("%s: error should match ErrCorrupt\n", cs.name)
			return
		}
		var cerr *CorruptError
		if !errors.As(err, &cerr) {
			tst.Errorf("%s: error should be a CorruptError\n", cs.name)
			return
		}

		// state is unchanged
		chk.Int(tst, cs.name+": tstep", domB.Tstep, 0)
		chk.Array(tst, cs.name+": x", 0, domB.Cfg.X.Data, x0)
	}

	// wrong mode: compact file read as full
	domB := newTestDomain(tst, ckptMesh(), Mode{Algorithm: AlgExplicit, ShellKin: ShellNonlinear})
	err = LoadCheckpoint(strings.NewReader(good), domB.Ctx.Mode, domB)
	if !errors.Is(err, ErrCorrupt) {
		tst.Errorf("reading with the wrong mode should fail with ErrCorrupt. err = %v\n", err)
		return
	}
}

func Test_ckpt03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("ckpt03. files and static mode")

	// static analyses are not checkpointable
	static := Mode{Algorithm: AlgImplicit}
	dom := newTestDomain(tst, ckptMesh(), static)
	var buf bytes.Buffer
	err := SaveCheckpoint(&buf, static, dom)
	if !errors.Is(err, ErrNotCheckpointable) {
		tst.Errorf("SaveCheckpoint should fail with ErrNotCheckpointable. err = %v\n", err)
		return
	}
	err = LoadCheckpoint(strings.NewReader("0\n"), static, dom)
	if !errors.Is(err, ErrNotCheckpointable) {
		tst.Errorf("LoadCheckpoint should fail with ErrNotCheckpointable. err = %v\n", err)
		return
	}

	// file round trip
	mode := Mode{Algorithm: AlgExplicit, ShellKin: ShellNonlinear}
	dir := tst.TempDir()
	fn := CheckpointPath(dir, "ckpt03")
	chk.String(tst, filepath.Base(fn), "ckpt03_ckpt.txt")
	domA := newTestDomain(tst, ckptMesh(), mode)
	fillState(domA)
	err = domA.WriteCheckpoint(fn)
	if err != nil {
		tst.Errorf("WriteCheckpoint failed:\n%v", err)
		return
	}
	domB := newTestDomain(tst, ckptMesh(), mode)
	err = domB.ReadCheckpoint(fn)
	if err != nil {
		tst.Errorf("ReadCheckpoint failed:\n%v", err)
		return
	}
	chk.Int(tst, "tstep", domB.Tstep, 42)
	chk.Array(tst, "efM", 0, domB.Frc.EfM.Data, domA.Frc.EfM.Data)

	// a failed write keeps the previous checkpoint
	err = os.Mkdir(fn+".tmp", 0777)
	if err != nil {
		tst.Errorf("Mkdir failed:\n%v", err)
		return
	}
	domA.Tstep = 43
	err = domA.WriteCheckpoint(fn)
	if err == nil {
		tst.Errorf("WriteCheckpoint should have failed\n")
		return
	}
	domB = newTestDomain(tst, ckptMesh(), mode)
	err = domB.ReadCheckpoint(fn)
	if err != nil {
		tst.Errorf("previous checkpoint should be loadable:\n%v", err)
		return
	}
	chk.Int(tst, "tstep (previous)", domB.Tstep, 42)
	chk.Array(tst, "d (previous)", 0, domB.It.D, domA.It.D)

	// next write replaces the checkpoint and leaves no temporary file
	os.Remove(fn + ".tmp")
	err = domA.WriteCheckpoint(fn)
	if err != nil {
		tst.Errorf("WriteCheckpoint failed:\n%v", err)
		return
	}
	_, err = os.Stat(fn + ".tmp")
	if !os.IsNotExist(err) {
		tst.Errorf("temporary file should have been renamed. err = %v\n", err)
		return
	}
	err = domB.ReadCheckpoint(fn)
	if err != nil {
		tst.Errorf("ReadCheckpoint failed:\n%v", err)
		return
	}
	chk.Int(tst, "tstep (new)", domB.Tstep, 43)

	// missing file
	err = domB.ReadCheckpoint(filepath.Join(dir, "missing_ckpt.txt"))
	io.Pforan("missing: %v\n", err)
	if !errors.Is(err, ErrNoCheckpoint) {
		tst.Errorf("missing file should fail with ErrNoCheckpoint. err = %v\n", err)
		return
	}
	if errors.Is(err, ErrCorrupt) {
		tst.Errorf("missing file must not be reported as corrupted\n")
	}
}
