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

package fit

import (
	"fmt"
	"sort"

	"github.com/skirtgo/skirt/internal/xlog"
	"github.com/skirtgo/skirt/pkg/farm"
	"github.com/skirtgo/skirt/pkg/rng"
)

// Individual is one candidate solution: a fixed-length vector of tagged
// alleles plus the fitness last assigned to it by Evaluate.
type Individual struct {
	Genes   []Allele
	Fitness float64
}

func cloneGenes(g []Allele) []Allele {
	out := make([]Allele, len(g))
	copy(out, g)
	return out
}

// Config parameterizes the genetic-algorithm search, named after the
// FitSKIRT scenario manifest (population size, elitism, mutation and
// crossover probability, a generation budget, and an optional early-stop
// callback invoked once per generation with the current best).
type Config struct {
	PopulationSize int
	Generations    int
	Elitism        int
	MutationProb   float64
	CrossoverProb  float64
	MutationSpread float64 // fraction of an allele's range used as the Gaussian mutation step

	// Workers fans a generation's whole-population evaluation out across
	// a farm.Manager-backed local worker pool (§6 "-s number of
	// fit-scenario evaluations to run concurrently"). Values below 2
	// evaluate the population sequentially in the calling goroutine.
	Workers int

	// Converged, if set, is consulted after each generation; returning
	// true stops the search early.
	Converged func(generation int, best Individual) bool
}

// Evaluate scores a full set of genes, lower being better.
type Evaluate func(genes []Allele) (float64, error)

// Run drives a generational genetic-algorithm search seeded from seed (the
// template individual whose allele bounds and kinds every member of the
// population shares), returning the best individual found across all
// generations.
func Run(src *rng.Source, cfg Config, seed []Allele, evaluate Evaluate) (Individual, error) {
	if cfg.PopulationSize < 2 {
		return Individual{}, fmt.Errorf("fit: population size must be at least 2, got %d", cfg.PopulationSize)
	}
	if cfg.Elitism < 0 || cfg.Elitism >= cfg.PopulationSize {
		return Individual{}, fmt.Errorf("fit: elitism must be in [0,populationSize), got %d", cfg.Elitism)
	}

	pop := make([]Individual, cfg.PopulationSize)
	for i := range pop {
		genes := cloneGenes(seed)
		if i > 0 {
			for g := range genes {
				genes[g] = genes[g].mutate(src, 1.0) // full-range spread to seed diverse initial population
			}
		}
		pop[i] = Individual{Genes: genes}
	}

	var best Individual
	haveBest := false

	for gen := 0; gen < cfg.Generations; gen++ {
		if err := evaluatePopulation(pop, cfg.Workers, evaluate); err != nil {
			return Individual{}, fmt.Errorf("fit: evaluating generation %d: %w", gen, err)
		}
		sort.Slice(pop, func(a, b int) bool { return pop[a].Fitness < pop[b].Fitness })

		if !haveBest || pop[0].Fitness < best.Fitness {
			best = Individual{Genes: cloneGenes(pop[0].Genes), Fitness: pop[0].Fitness}
			haveBest = true
		}
		xlog.Infof("fit: generation %d complete, best fitness %g", gen, best.Fitness)

		if cfg.Converged != nil && cfg.Converged(gen, best) {
			break
		}
		if gen == cfg.Generations-1 {
			break
		}

		next := make([]Individual, 0, cfg.PopulationSize)
		for i := 0; i < cfg.Elitism; i++ {
			next = append(next, Individual{Genes: cloneGenes(pop[i].Genes)})
		}
		for len(next) < cfg.PopulationSize {
			parentA := tournamentSelect(src, pop)
			parentB := tournamentSelect(src, pop)
			childGenes := crossover(src, parentA.Genes, parentB.Genes, cfg.CrossoverProb)
			for g := range childGenes {
				if src.Uniform() < cfg.MutationProb {
					childGenes[g] = childGenes[g].mutate(src, cfg.MutationSpread)
				}
			}
			next = append(next, Individual{Genes: childGenes})
		}
		pop = next
	}

	return best, nil
}

// tournamentSelect picks the fitter of two uniformly-chosen individuals,
// the selection scheme FitSKIRT's GAlib backend defaults to.
func tournamentSelect(src *rng.Source, pop []Individual) Individual {
	a := pop[int(src.Uniform()*float64(len(pop)))]
	b := pop[int(src.Uniform()*float64(len(pop)))]
	if a.Fitness <= b.Fitness {
		return a
	}
	return b
}

// crossover builds a child gene vector from parentA and parentB. One
// uniform draw is compared with crossoverProb: below it, a coin flip per
// gene mixes the two parents; at or above it, the genes come straight
// from parentA.
func crossover(src *rng.Source, parentA, parentB []Allele, crossoverProb float64) []Allele {
	child := make([]Allele, len(parentA))
	if src.Uniform() >= crossoverProb {
		copy(child, parentA)
		return child
	}
	for i := range child {
		if src.Uniform() < 0.5 {
			child[i] = parentA[i]
		} else {
			child[i] = parentB[i]
		}
	}
	return child
}

// evaluatePopulation scores every member of pop in place. With fewer than
// two workers it calls evaluate sequentially in the calling goroutine;
// otherwise it fans the whole population out across a farm.Manager local
// pool of size workers, packing each individual's genes into an Envelope
// and reading its fitness back the same way (§3 "Task envelope", whose
// doc comment names this exact caller: "Fit-driver callers pack
// simulation parameters and objective results into one of these").
func evaluatePopulation(pop []Individual, workers int, evaluate Evaluate) error {
	if workers < 2 {
		for i := range pop {
			fit, err := evaluate(pop[i].Genes)
			if err != nil {
				return err
			}
			pop[i].Fitness = fit
		}
		return nil
	}

	mgr := farm.NewManager(workers, nil)
	taskIndex := mgr.RegisterTask(func(env farm.Envelope) (farm.Envelope, error) {
		fit, err := evaluate(genesFromEnvelope(env))
		if err != nil {
			return farm.Envelope{}, err
		}
		out := farm.NewEnvelope()
		out.Scalars["fitness"] = fit
		return out, nil
	})
	if err := mgr.AcquireSlaves(); err != nil {
		return err
	}
	defer mgr.ReleaseSlaves()

	inputs := make([]farm.Envelope, len(pop))
	for i, ind := range pop {
		inputs[i] = envelopeFromGenes(ind.Genes)
	}
	outputs, err := mgr.PerformTask(taskIndex, inputs)
	if err != nil {
		return err
	}
	for i, out := range outputs {
		pop[i].Fitness = out.Scalars["fitness"]
	}
	return nil
}

// envelopeFromGenes packs a gene vector's kind, bounds and current value
// into an Envelope's scalar map, indexed by gene position.
func envelopeFromGenes(genes []Allele) farm.Envelope {
	env := farm.NewEnvelope()
	env.Scalars["n"] = float64(len(genes))
	for i, g := range genes {
		env.Scalars[fmt.Sprintf("kind%d", i)] = float64(g.Kind)
		env.Scalars[fmt.Sprintf("min%d", i)] = g.Min
		env.Scalars[fmt.Sprintf("max%d", i)] = g.Max
		if g.Kind == AlleleInt {
			env.Scalars[fmt.Sprintf("value%d", i)] = float64(g.Int)
		} else {
			env.Scalars[fmt.Sprintf("value%d", i)] = g.Double
		}
	}
	return env
}

// genesFromEnvelope is envelopeFromGenes's inverse.
func genesFromEnvelope(env farm.Envelope) []Allele {
	n := int(env.Scalars["n"])
	genes := make([]Allele, n)
	for i := 0; i < n; i++ {
		kind := AlleleKind(env.Scalars[fmt.Sprintf("kind%d", i)])
		min := env.Scalars[fmt.Sprintf("min%d", i)]
		max := env.Scalars[fmt.Sprintf("max%d", i)]
		value := env.Scalars[fmt.Sprintf("value%d", i)]
		if kind == AlleleInt {
			genes[i] = Allele{Kind: AlleleInt, Int: int(value), Min: min, Max: max}
		} else {
			genes[i] = Allele{Kind: AlleleDouble, Double: value, Min: min, Max: max}
		}
	}
	return genes
}
