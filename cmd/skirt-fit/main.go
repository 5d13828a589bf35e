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

// Command skirt-fit is the genetic-algorithm fit driver (§6 "fit [-k]
// [-i <dir>] [-o <dir>] [-s <sims>] [-t <threads>] <fit-file>+"): it
// renders a template simulation against each candidate gene vector, runs
// it, compares its SED output against reference data, and searches for
// the gene vector minimizing the scenario's objective expression.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/skirtgo/skirt/internal/cmdutil"
	"github.com/skirtgo/skirt/internal/hash"
	"github.com/skirtgo/skirt/internal/simrun"
	"github.com/skirtgo/skirt/internal/xlog"
	"github.com/skirtgo/skirt/pkg/fit"
	"github.com/skirtgo/skirt/pkg/rng"
)

func main() {
	cfg := cmdutil.NewCfg("skirt-fit", "fit simulation parameters to reference data via a genetic algorithm",
		"skirt-fit renders a template simulation per candidate, runs it, and scores it against reference data to drive a genetic-algorithm search over the scenario's free parameters.")
	cfg.BindFitFlags(cfg.Root)
	cfg.Root.RunE = func(cmd *cobra.Command, args []string) error {
		return runFits(cfg, args)
	}
	if err := cfg.Root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runFits(cfg *cmdutil.Cfg, patterns []string) error {
	if len(patterns) == 0 {
		return fmt.Errorf("skirt-fit: at least one fit-file is required")
	}
	files, err := cmdutil.ExpandFilePatterns(cfg.GetString("input"), patterns, false)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("skirt-fit: no fit-file matched %v", patterns)
	}

	relative := cfg.GetBool("relative")
	outputDir := cfg.GetString("output")
	simulations := cfg.GetInt("simulations")
	threads := cfg.GetInt("threads")

	failed := 0
	for _, file := range files {
		dir := cmdutil.ResolveDir(outputDir, file, relative)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("skirt-fit: creating output directory %s: %w", dir, err)
		}
		best, err := runFit(file, dir, simulations, threads)
		if err != nil {
			xlog.Warnf("skirt-fit: %s: %v", file, err)
			failed++
			continue
		}
		xlog.Infof("skirt-fit: %s: best fitness %g, genes %v", file, best.Fitness, best.Genes)
		if err := writeBest(dir, cmdutil.OutputPrefix(file), best); err != nil {
			xlog.Warnf("skirt-fit: %s: writing best-fit summary: %v", file, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("skirt-fit: %d of %d fit scenarios failed", failed, len(files))
	}
	return nil
}

// runFit loads one scenario and drives the genetic-algorithm search
// against it, running every candidate's simulation under workDir.
func runFit(fitFile, workDir string, simulations, threads int) (fit.Individual, error) {
	scenario, err := fit.LoadScenario(fitFile)
	if err != nil {
		return fit.Individual{}, err
	}
	base := filepath.Dir(fitFile)

	templateText, err := os.ReadFile(filepath.Join(base, scenario.TemplateFile))
	if err != nil {
		return fit.Individual{}, fmt.Errorf("skirt-fit: reading template %s: %w", scenario.TemplateFile, err)
	}
	template := fit.NewTemplate(string(templateText))

	reference, err := fit.LoadSeries(filepath.Join(base, scenario.ReferenceFile))
	if err != nil {
		return fit.Individual{}, err
	}

	objective, err := fit.NewObjective(scenario.Objective)
	if err != nil {
		return fit.Individual{}, err
	}

	seed, names, err := scenario.Genes()
	if err != nil {
		return fit.Individual{}, err
	}

	workDir = filepath.Join(workDir, cmdutil.OutputPrefix(fitFile)+"_candidates")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fit.Individual{}, fmt.Errorf("skirt-fit: creating candidate directory %s: %w", workDir, err)
	}

	cache := newFitnessCache()
	var evalCount int32
	evaluate := func(genes []fit.Allele) (float64, error) {
		key := hash.Hash(genes)
		if fitness, ok := cache.get(key); ok {
			return fitness, nil
		}
		index := int(atomic.AddInt32(&evalCount, 1))
		fitness, err := evaluateCandidate(template, names, genes, scenario.Instrument, reference, objective, workDir, index, threads)
		if err != nil {
			return 0, err
		}
		cache.put(key, fitness)
		return fitness, nil
	}

	gaConfig := scenario.Config()
	gaConfig.Workers = simulations
	src := rng.New(time.Now().UnixNano(), 0)
	return fit.Run(src, gaConfig, seed, evaluate)
}

// fitnessCache memoizes a candidate's fitness by its gene-vector hash, so
// an individual elitism carries unchanged into the next generation skips
// re-running its simulation (§9).
type fitnessCache struct {
	mu    sync.Mutex
	byKey map[string]float64
}

func newFitnessCache() *fitnessCache {
	return &fitnessCache{byKey: make(map[string]float64)}
}

func (c *fitnessCache) get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.byKey[key]
	return v, ok
}

func (c *fitnessCache) put(key string, fitness float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byKey[key] = fitness
}

// evaluateCandidate renders the template against genes, runs it in its
// own numbered subdirectory of workDir (candidate evaluations run
// concurrently across -s workers, so each needs its own output files),
// reads back the named instrument's SED series, and scores it against
// reference.
func evaluateCandidate(template *fit.Template, names []string, genes []fit.Allele, instrumentName string, reference []float64, objective *fit.Objective, workDir string, index, threads int) (float64, error) {
	values := make(map[string]fit.Allele, len(names))
	for i, n := range names {
		values[n] = genes[i]
	}
	rendered, err := template.Render(values)
	if err != nil {
		return 0, err
	}

	dir := filepath.Join(workDir, fmt.Sprintf("candidate-%06d", index))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("skirt-fit: creating candidate directory %s: %w", dir, err)
	}
	simFile := filepath.Join(dir, "simulation.xml")
	if err := os.WriteFile(simFile, []byte(rendered), 0o644); err != nil {
		return 0, fmt.Errorf("skirt-fit: writing rendered template: %w", err)
	}

	if err := simrun.LoadRunAndWrite(simFile, dir, int64(index), threads); err != nil {
		return 0, err
	}

	sedFile := filepath.Join(dir, instrumentName+"_sed.dat")
	simulated, err := fit.LoadSeries(sedFile)
	if err != nil {
		return 0, err
	}
	return objective.Evaluate(simulated, reference, nil)
}

// writeBest writes a small summary of the winning gene vector next to a
// fit scenario's candidate directories.
func writeBest(dir, prefix string, best fit.Individual) error {
	path := filepath.Join(dir, prefix+"_best.txt")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "fitness\t%g\n", best.Fitness); err != nil {
		return err
	}
	for i, g := range best.Genes {
		if _, err := fmt.Fprintf(f, "gene%d\t%s\n", i, g.String()); err != nil {
			return err
		}
	}
	return nil
}
