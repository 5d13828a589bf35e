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
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Scenario is the on-disk manifest for a fit run (§6 "fit <fit-file>"):
// it names the template simulation, the reference data to compare
// against, the parameter bounds the GA searches, and the GA's own
// tuning knobs.
type Scenario struct {
	TemplateFile  string              `toml:"template_file"`
	ReferenceFile string              `toml:"reference_file"`
	Instrument    string              `toml:"instrument"` // SEDInstrument name whose output file is compared against ReferenceFile
	Objective     string              `toml:"objective"`
	Parameters    []ScenarioParameter `toml:"parameter"`

	Generations    int     `toml:"generations"`
	PopulationSize int     `toml:"population_size"`
	Elitism        int     `toml:"elitism"`
	MutationProb   float64 `toml:"mutation_probability"`
	CrossoverProb  float64 `toml:"crossover_probability"`
	MutationSpread float64 `toml:"mutation_spread"`
}

// ScenarioParameter describes one named GA gene: its kind ("double" or
// "int") and its search bounds.
type ScenarioParameter struct {
	Name string  `toml:"name"`
	Kind string  `toml:"kind"`
	Min  float64 `toml:"min"`
	Max  float64 `toml:"max"`
	Seed float64 `toml:"seed"`
}

// LoadScenario parses a TOML fit-scenario manifest from path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fit: reading scenario %s: %w", path, err)
	}
	var s Scenario
	if _, err := toml.Decode(string(data), &s); err != nil {
		return nil, fmt.Errorf("fit: parsing scenario %s: %w", path, err)
	}
	if s.PopulationSize <= 0 {
		return nil, fmt.Errorf("fit: scenario %s: population_size must be positive", path)
	}
	if s.Generations <= 0 {
		return nil, fmt.Errorf("fit: scenario %s: generations must be positive", path)
	}
	return &s, nil
}

// Genes builds the GA's seed gene vector and parameter-name ordering from
// the scenario's parameter list.
func (s *Scenario) Genes() ([]Allele, []string, error) {
	genes := make([]Allele, len(s.Parameters))
	names := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		names[i] = p.Name
		switch p.Kind {
		case "double", "":
			genes[i] = NewDoubleAllele(p.Seed, p.Min, p.Max)
		case "int":
			genes[i] = NewIntAllele(int(p.Seed), int(p.Min), int(p.Max))
		default:
			return nil, nil, fmt.Errorf("fit: parameter %q has unknown kind %q", p.Name, p.Kind)
		}
	}
	return genes, names, nil
}

// Config translates the scenario's GA knobs into a Config for Run.
func (s *Scenario) Config() Config {
	return Config{
		PopulationSize: s.PopulationSize,
		Generations:    s.Generations,
		Elitism:        s.Elitism,
		MutationProb:   s.MutationProb,
		CrossoverProb:  s.CrossoverProb,
		MutationSpread: s.MutationSpread,
	}
}

// LoadSeries reads a whitespace-separated data file and returns its last
// column as a float64 series, skipping blank lines and any line whose
// last field does not parse as a number (a header row, typically). Used
// to load both ReferenceFile and a simulation's SED output file for
// residual comparison (§4.3 "tab-separated file with a header").
func LoadSeries(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fit: reading series %s: %w", path, err)
	}
	defer f.Close()

	var out []float64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fit: reading series %s: %w", path, err)
	}
	return out, nil
}

// namedValues zips a gene vector with its parameter names into the map
// Template.Render expects.
func namedValues(names []string, genes []Allele) map[string]Allele {
	out := make(map[string]Allele, len(names))
	for i, n := range names {
		out[n] = genes[i]
	}
	return out
}
