// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_output01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("output01. averaged element forces")

	chk.Array(tst, "truss", 1e-15, AvgForces([]float64{-3, 5}, 2, 1), []float64{4})
	frame := make([]float64, 14)
	for j := 0; j < 7; j++ {
		frame[j] = float64(j + 1)
		frame[7+j] = -float64(2 * (j + 1))
	}
	chk.Array(tst, "frame", 1e-15, AvgForces(frame, 2, 7), []float64{1.5, 3, 4.5, 6, 7.5, 9, 10.5})
	shell := make([]float64, 18)
	for j := 0; j < 6; j++ {
		shell[j], shell[6+j], shell[12+j] = 1, -2, float64(j)
	}
	chk.Array(tst, "shell", 1e-15, AvgForces(shell, 3, 6), []float64{1, 4.0 / 3, 5.0 / 3, 2, 7.0 / 3, 8.0 / 3})
}

func Test_output02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("output02. headers and rows")

	// domain writing to buffers
	dom := newTestDomain(tst, ckptMesh(), Mode{Algorithm: AlgImplicit})
	var log, disp, truss, frame, shell bytes.Buffer
	dom.Ctx.Streams = &Streams{Log: &log, Disp: &disp, Truss: &truss, Frame: &frame, Shell: &shell}
	dom.Ctx.Verbose = chk.Verbose

	// headers
	dom.OutputHeaders()
	chk.String(tst, strings.Split(disp.String(), "\n")[0], "Model Displacements:")
	if !strings.HasSuffix(disp.String(), "\tDOF 12\t") {
		tst.Errorf("displacement header should end with the last dof. header =\n%q\n", disp.String())
		return
	}
	chk.String(tst, truss.String(), "Truss Element Forces (averaged):\n\tLambda\t\tIterations\tElement 1\t")
	if !strings.Contains(frame.String(), "Bi-Moment") || strings.Contains(shell.String(), "Bi-Moment") {
		tst.Errorf("only frames have bi-moments\n")
		return
	}

	// one row
	truss.Reset()
	dom.It.D[0] = 0.5
	dom.Frc.EfTruss.Row(0)[0], dom.Frc.EfTruss.Row(0)[1] = -2, 2
	dom.OutputStep(0.25, 3)
	io.Pforan("%s\n", disp.String())
	chk.String(tst, truss.String(), "\n\t2.500000e-01\t3\t\t2.000000e+00")
	rows := strings.Split(disp.String(), "\n")
	last := strings.Split(rows[len(rows)-1], "\t")
	chk.String(tst, last[1], "2.500000e-01")
	chk.String(tst, last[2], "3")
	chk.String(tst, last[4], "5.000000e-01")
	chk.Int(tst, "number of fields", len(last), 4+dom.Ctx.Neq)

	// linear analyses report zero iterations
	truss.Reset()
	dom.Ctx.Mode.Linear = true
	dom.OutputStep(1, 3)
	chk.String(tst, truss.String(), "\n\t1.000000e+00\t0\t\t2.000000e+00")
	chk.String(tst, log.String(), "")
}

func Test_streams01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("streams01. open and close")

	// open
	dir := tst.TempDir()
	s, err := OpenStreams(dir, "streams01", false)
	if err != nil {
		tst.Errorf("OpenStreams failed:\n%v", err)
		return
	}
	s.Logf("step %d\n", 1)
	err = s.Close(true)
	if err != nil {
		tst.Errorf("Close failed:\n%v", err)
		return
	}
	err = s.Close(true)
	if err != nil {
		tst.Errorf("second Close should do nothing:\n%v", err)
		return
	}

	// files
	for _, suffix := range streamSuffixes {
		_, err = os.Stat(StreamPath(dir, "streams01", suffix))
		if err != nil {
			tst.Errorf("file is missing:\n%v", err)
			return
		}
	}
	b, err := os.ReadFile(StreamPath(dir, "streams01", ".log"))
	if err != nil {
		tst.Errorf("ReadFile failed:\n%v", err)
		return
	}
	chk.String(tst, string(b), "step 1\n\nSolution failed\n")

	// resume appends; successful close writes nothing
	s, err = OpenStreams(dir, "streams01", true)
	if err != nil {
		tst.Errorf("OpenStreams failed:\n%v", err)
		return
	}
	s.Logf("resumed\n")
	err = s.Close(false)
	if err != nil {
		tst.Errorf("Close failed:\n%v", err)
		return
	}
	b, _ = os.ReadFile(StreamPath(dir, "streams01", ".log"))
	chk.String(tst, string(b), "step 1\n\nSolution failed\nresumed\n")

	// cannot create directory
	fn := StreamPath(dir, "file", ".txt")
	os.WriteFile(fn, []byte("x"), 0644)
	_, err = OpenStreams(fn, "streams01", false)
	if err == nil {
		tst.Errorf("OpenStreams should fail when dir is a file\n")
	}
}

func Test_summary01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("summary01. summary and solution files")

	dir := tst.TempDir()
	for _, enctype := range []string{"gob", "json"} {

		// summary
		sum := NewSummary("imp", dir, "summary01", enctype)
		sum.AddIter(true, 1)
		sum.AddIter(false, 1e-3)
		chk.Int(tst, "tidx", sum.AddStep(0.5, 2, 0), 0)
		sum.AddIter(true, 0.5)
		sum.AddIter(false, 1e-2)
		sum.AddIter(false, 1e-5)
		chk.Int(tst, "tidx", sum.AddStep(1, 3, 0), 1)
		err := sum.Save(chk.Verbose)
		if err != nil {
			tst.Errorf("Save failed:\n%v", err)
			return
		}
		res, err := ReadSum(dir, "summary01", enctype)
		if err != nil {
			tst.Errorf("ReadSum failed:\n%v", err)
			return
		}
		chk.String(tst, res.Algorithm, "imp")
		chk.Array(tst, "lpfs", 1e-17, res.OutLpfs, []float64{0.5, 1})
		chk.Ints(tst, "iters", res.Iters, []int{2, 3})
		chk.Int(tst, "max iters", res.MaxIters(), 3)
		chk.Int(tst, "last ckpt", res.LastCkpt, -1)
		chk.Int(tst, "number of resids", len(res.Resids), 2)
		chk.Array(tst, "resids[1]", 1e-17, res.Resids[1], []float64{0.5, 1e-2, 1e-5})
		chk.Int(tst, "next tidx", res.AddStep(1.5, 1, 0), 2)

		// solution
		dom := newTestDomain(tst, ckptMesh(), Mode{})
		for i := range dom.It.D {
			dom.It.D[i] = float64(i)
		}
		dom.It.Lpf = 0.75
		err = dom.SaveSol(dir, "summary01", enctype, 7)
		if err != nil {
			tst.Errorf("SaveSol failed:\n%v", err)
			return
		}
		sol, err := ReadSol(dir, "summary01", enctype, 7)
		if err != nil {
			tst.Errorf("ReadSol failed:\n%v", err)
			return
		}
		chk.Float64(tst, "lpf", 1e-17, sol.Lpf, 0.75)
		chk.Array(tst, "d", 1e-17, sol.D, dom.It.D)
		chk.Array(tst, "x", 1e-17, sol.X, dom.Cfg.X.Data)
	}
}
