/*
Copyright © 2026 the skirt authors.
This file is part of skirt.

skirt is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

skirt is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with skirt.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command skirt-run is the simulation runner (§6 "run [-b] [-s
// <simulations>] [-t <threads>] [-k] [-i <input-dir>] [-o <output-dir>]
// [-r] <file-pattern>+"): it loads one or more XML simulation
// descriptions, runs each one's Monte Carlo photon loop, and writes each
// instrument's output files into the -o directory, or with -k into the
// input file's own directory, or otherwise into the current directory.
package main

import (
	"bufio"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/skirtgo/skirt/internal/cmdutil"
	"github.com/skirtgo/skirt/internal/simrun"
	"github.com/skirtgo/skirt/internal/xlog"
)

func main() {
	cfg := cmdutil.NewCfg("skirt-run", "run Monte Carlo radiative transfer simulations",
		"skirt-run loads one or more XML simulation descriptions and runs each one's photon loop, writing instrument output files into the output directory (-o), the input's directory (-k), or the current directory.")
	cfg.BindRunFlags(cfg.Root)
	cfg.Root.RunE = func(cmd *cobra.Command, args []string) error {
		return run(cfg, args)
	}
	if err := cfg.Root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *cmdutil.Cfg, patterns []string) error {
	xlog.Brief(cfg.GetBool("brief"))

	if len(patterns) == 0 {
		return interactive(cfg)
	}

	files, err := cmdutil.ExpandFilePatterns(cfg.GetString("input"), patterns, cfg.GetBool("recurse"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("skirt-run: no input file matched %v", patterns)
	}

	return runFiles(cfg, files)
}

// runFiles dispatches one simulation per matched file, bounding how many
// run at once to -s concurrent simulations via a plain semaphore: each
// simulation is a whole side-effecting unit of work (it reads, runs, and
// writes files), not the small numeric round-trip farm.Envelope is built
// for, so it is scheduled with a worker-count channel rather than routed
// through pkg/farm (§4.4's Envelope is reserved for the fit driver's
// per-individual parameter/fitness packets; see pkg/fit.Run's own use of
// it for -s there).
func runFiles(cfg *cmdutil.Cfg, files []string) error {
	simulations := cfg.GetInt("simulations")
	if simulations < 1 {
		simulations = 1
	}
	threads := cfg.GetInt("threads")
	relative := cfg.GetBool("relative")
	outputDir := cfg.GetString("output")
	seed := time.Now().UnixNano()

	sem := make(chan struct{}, simulations)
	var wg sync.WaitGroup
	errs := make([]error, len(files))

	for i, file := range files {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()
			defer func() { <-sem }()
			dir := cmdutil.ResolveDir(outputDir, file, relative)
			errs[i] = runOneFile(file, dir, seed, threads)
		}(i, file)
	}
	wg.Wait()

	failed := 0
	for i, err := range errs {
		if err != nil {
			xlog.Warnf("skirt-run: %s: %v", files[i], err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("skirt-run: %d of %d simulations failed", failed, len(files))
	}
	return nil
}

// runOneFile loads, sets up, runs, and writes the output of one
// simulation description.
func runOneFile(path, outputDir string, seed int64, threads int) error {
	xlog.Infof("skirt-run: loading %s", path)
	if err := simrun.LoadRunAndWrite(path, outputDir, seed, threads); err != nil {
		return fmt.Errorf("skirt-run: %w", err)
	}
	xlog.Infof("skirt-run: %s done, output in %s", path, outputDir)
	return nil
}

// interactive implements the "no flags with no files" prompt loop (§6),
// reading one file path per line until EOF or a blank line.
func interactive(cfg *cmdutil.Cfg) error {
	fmt.Println("skirt-run interactive mode: enter a simulation file path, or an empty line to quit.")
	scanner := bufio.NewScanner(os.Stdin)
	threads := cfg.GetInt("threads")
	seed := time.Now().UnixNano()
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		if line == "" {
			return nil
		}
		dir := cmdutil.ResolveDir(cfg.GetString("output"), line, cfg.GetBool("relative"))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if err := runOneFile(line, dir, seed, threads); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
