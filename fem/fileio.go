// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// Solution holds the results of one output step
type Solution struct {
	Lpf     float64   // load factor or time
	D       []float64 // [neq] displacements
	F       []float64 // [neq] internal forces
	X       []float64 // [nj*3] coordinates
	EfTruss []float64 // [ntr*2] truss end forces
	EfFrame []float64 // [nfr*14] frame end forces
	EfShell []float64 // [nsh*18] shell corner forces
}

// SaveSol saves the current solution to a file which name is set with tidx (output index)
func (o *Domain) SaveSol(dir, fnkey, enctype string, tidx int) (err error) {

	// buffer and encoder
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)

	// encode solution
	sol := Solution{
		Lpf:     o.It.Lpf,
		D:       o.It.D,
		F:       o.It.F,
		X:       o.Cfg.X.Data,
		EfTruss: o.Frc.EfTruss.Data,
		EfFrame: o.Frc.EfFrame.Data,
		EfShell: o.Frc.EfShell.Data,
	}
	err = enc.Encode(sol)
	if err != nil {
		return chk.Err("cannot encode solution\n%v", err)
	}

	// save file
	fn := out_sol_path(dir, fnkey, enctype, tidx)
	return save_file(fn, &buf, o.Ctx.Verbose)
}

// ReadSol reads a solution saved by SaveSol
func ReadSol(dir, fnkey, enctype string, tidx int) (sol *Solution, err error) {

	// open file
	fn := out_sol_path(dir, fnkey, enctype, tidx)
	fil, err := os.Open(fn)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); e != nil && err == nil {
			err = e
		}
	}()

	// decode solution
	sol = new(Solution)
	err = GetDecoder(fil, enctype).Decode(sol)
	if err != nil {
		return nil, chk.Err("cannot decode solution\n%v", err)
	}
	return
}

// CheckpointPath returns the path of the checkpoint file of a simulation
func CheckpointPath(dir, fnkey string) string {
	return path.Join(dir, fnkey+"_ckpt.txt")
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func out_sol_path(dir, fnkey, enctype string, tidx int) string {
	return path.Join(dir, io.Sf("%s_sol_%010d.%s", fnkey, tidx, enctype))
}

func out_sum_path(dir, fnkey, enctype string) string {
	return path.Join(dir, io.Sf("%s_sum.%s", fnkey, enctype))
}

// save_file writes buf to filename.tmp and renames it to filename; on failure, a previous
// filename is left untouched
func save_file(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	tmp := filename + ".tmp"
	fil, err := os.Create(tmp)
	if err != nil {
		return
	}
	defer func() {
		if err != nil {
			os.Remove(tmp)
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if err == nil {
		err = fil.Sync()
	}
	if e := fil.Close(); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return
	}
	err = os.Rename(tmp, filename)
	if err != nil {
		return
	}
	if verbose {
		io.Pfblue2("file <%s> written\n", filename)
	}
	return
}
