// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"fmt"
	goio "io"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
)

// Streams holds the output streams of one analysis run
type Streams struct {
	Log   goio.Writer // diagnostics
	Disp  goio.Writer // displacements
	Truss goio.Writer // averaged truss forces
	Frame goio.Writer // averaged frame forces
	Shell goio.Writer // averaged shell forces

	// auxiliary
	files  []*os.File // files opened by OpenStreams
	closed bool       // Close was called
}

// stream file suffixes
var streamSuffixes = []string{".log", "_disp.txt", "_truss.txt", "_frame.txt", "_shell.txt"}

// OpenStreams creates the output files <key>.log, <key>_disp.txt, <key>_truss.txt,
// <key>_frame.txt and <key>_shell.txt in dir. With resume, existing files are appended to.
// Files opened before a failure are closed.
func OpenStreams(dir, key string, resume bool) (o *Streams, err error) {
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return nil, chk.Err("cannot create output directory %q:\n%v", dir, err)
	}
	flag := os.O_RDWR | os.O_CREATE | os.O_TRUNC
	if resume {
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}
	o = new(Streams)
	for _, suffix := range streamSuffixes {
		fn := StreamPath(dir, key, suffix)
		fil, e := os.OpenFile(fn, flag, 0666)
		if e != nil {
			o.closeFiles()
			return nil, chk.Err("cannot open output file %q:\n%v", fn, e)
		}
		o.files = append(o.files, fil)
	}
	o.Log, o.Disp, o.Truss, o.Frame, o.Shell = o.files[0], o.files[1], o.files[2], o.files[3], o.files[4]
	return
}

// StreamPath returns the path of one output stream; e.g. StreamPath(dir, key, "_disp.txt")
func StreamPath(dir, key, suffix string) string {
	return path.Join(dir, key+suffix)
}

// Logf writes a message to the log stream, if any
func (o *Streams) Logf(msg string, prm ...interface{}) {
	if o == nil || o.Log == nil || o.closed {
		return
	}
	fmt.Fprintf(o.Log, msg, prm...)
}

// Close closes all streams. If failed, "Solution failed" is written to the log first.
// Calling Close more than once does nothing.
func (o *Streams) Close(failed bool) (err error) {
	if o == nil || o.closed {
		return
	}
	if failed && o.Log != nil {
		fmt.Fprintf(o.Log, "\nSolution failed\n")
	}
	o.closed = true
	return o.closeFiles()
}

// closeFiles closes all opened files and returns the first error
func (o *Streams) closeFiles() (err error) {
	for _, fil := range o.files {
		if e := fil.Close(); e != nil && err == nil {
			err = chk.Err("cannot close file %q:\n%v", fil.Name(), e)
		}
	}
	o.files = nil
	return
}
