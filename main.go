// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"math"
	"os"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/nonlinearfun/CU-BENs-v2.0.0/fem"
	"github.com/nonlinearfun/CU-BENs-v2.0.0/inp"
)

// command line flags
var (
	alias       string
	verbose     bool
	erasePrev   bool
	saveSummary bool
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	// commands
	rootCmd := &cobra.Command{
		Use:           "cuben",
		Short:         "co-rotational analysis of trusses, frames and shells",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&alias, "alias", "", "word to be appended to simulation key")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", true, "show messages")

	runCmd := &cobra.Command{
		Use:   "run [simfile]",
		Short: "run simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().BoolVar(&erasePrev, "erase", true, "erase previous results")
	runCmd.Flags().BoolVar(&saveSummary, "summary", true, "save summary")

	ckptCmd := &cobra.Command{
		Use:   "ckpt [simfile]",
		Short: "restart explicit simulation from its last checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE:  restartSimulation,
	}
	ckptCmd.Flags().BoolVar(&saveSummary, "summary", true, "save summary")

	residCmd := &cobra.Command{
		Use:   "resid [simfile]",
		Short: "plot convergence history",
		Args:  cobra.ExactArgs(1),
		RunE:  plotResiduals,
	}

	rootCmd.AddCommand(runCmd, ckptCmd, residCmd)
	if err := rootCmd.Execute(); err != nil {
		io.PfRed("ERROR: %v\n", err)
		os.Exit(1)
	}
}

// runSimulation runs a simulation from the initial state
func runSimulation(cmd *cobra.Command, args []string) (err error) {
	if verbose {
		io.Pf("\nCU-BENs -- co-rotational analysis of trusses, frames and shells\n\n")
		io.Pf("%-24s = %v\n", "simulation file", args[0])
		io.Pf("%-24s = %v\n", "erase previous results", erasePrev)
		io.Pf("%-24s = %v\n", "save summary", saveSummary)
		io.Pf("%-24s = %q\n\n", "alias", alias)
	}
	analysis, err := fem.NewFEM(args[0], alias, erasePrev, saveSummary, verbose)
	if err != nil {
		return
	}
	err = analysis.Run()
	if err != nil {
		return chk.Err("Run failed:\n%v", err)
	}
	return
}

// restartSimulation continues a simulation from its checkpoint file
func restartSimulation(cmd *cobra.Command, args []string) (err error) {
	analysis, err := fem.NewFEM(args[0], alias, false, saveSummary, verbose)
	if err != nil {
		return
	}
	err = analysis.Restart()
	if err != nil {
		return chk.Err("Restart failed:\n%v", err)
	}
	return
}

// plotResiduals plots the displacement ratios of all iterations saved in the summary
func plotResiduals(cmd *cobra.Command, args []string) (err error) {

	// read summary
	sim, err := inp.ReadSim(args[0], alias, false)
	if err != nil {
		return
	}
	sum, err := fem.ReadSum(sim.DirOut, sim.Key, sim.EncType)
	if err != nil {
		return
	}

	// collect data
	var data []float64
	for _, r := range sum.Resids {
		for _, v := range r {
			if v > 0 {
				data = append(data, math.Log10(v))
			}
		}
	}
	caption := "log10(|dd|/|d|) of all iterations"
	if len(data) == 0 {
		for _, n := range sum.Iters {
			data = append(data, float64(n))
		}
		caption = "number of iterations (or time steps)"
	}
	if len(data) == 0 {
		return chk.Err("summary of %q has no steps", sim.Key)
	}

	// plot
	graph := asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	io.Pf("\n%s\n", graph)
	io.Pf("\nsteps = %d  max iterations = %d  failed = %v\n", len(sum.OutLpfs), sum.MaxIters(), sum.Failed)
	return
}
