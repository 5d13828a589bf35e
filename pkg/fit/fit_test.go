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
	"math"
	"testing"

	"github.com/skirtgo/skirt/pkg/rng"
)

func TestTemplateRenderSubstitutesAllPlaceholders(t *testing.T) {
	tpl := NewTemplate(`<Geometry rmin="[[rmin]]" rmax="[[rmax]]" p="[[rmin]]"/>`)
	if len(tpl.Parameters) != 2 {
		t.Fatalf("got %d distinct parameters, want 2: %v", len(tpl.Parameters), tpl.Parameters)
	}
	values := map[string]Allele{
		"rmin": NewDoubleAllele(1.5, 0, 10),
		"rmax": NewDoubleAllele(20, 0, 100),
	}
	out, err := tpl.Render(values)
	if err != nil {
		t.Fatal(err)
	}
	want := `<Geometry rmin="1.5" rmax="20" p="1.5"/>`
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestTemplateRenderMissingValueErrors(t *testing.T) {
	tpl := NewTemplate(`<X v="[[missing]]"/>`)
	if _, err := tpl.Render(map[string]Allele{}); err == nil {
		t.Fatal("expected an error for a missing parameter value")
	}
}

func TestResidualsComputesChi2MeanStddev(t *testing.T) {
	sim := []float64{1, 2, 3}
	ref := []float64{1, 2, 4}
	chi2, mean, _, err := Residuals(sim, ref)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(chi2-1) > 1e-12 {
		t.Fatalf("got chi2=%v want 1", chi2)
	}
	wantMean := (0.0 + 0.0 + -1.0) / 3
	if math.Abs(mean-wantMean) > 1e-12 {
		t.Fatalf("got mean=%v want %v", mean, wantMean)
	}
}

func TestResidualsRejectsLengthMismatch(t *testing.T) {
	if _, _, _, err := Residuals([]float64{1, 2}, []float64{1}); err == nil {
		t.Fatal("expected a length-mismatch error")
	}
}

func TestObjectiveEvaluatesChi2Expression(t *testing.T) {
	obj, err := NewObjective("chi2 + abs(mean)")
	if err != nil {
		t.Fatal(err)
	}
	sim := []float64{1, 2, 3}
	ref := []float64{1, 2, 4}
	got, err := obj.Evaluate(sim, ref, nil)
	if err != nil {
		t.Fatal(err)
	}
	chi2, mean, _, _ := Residuals(sim, ref)
	want := chi2 + math.Abs(mean)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestObjectiveRejectsBadExpression(t *testing.T) {
	if _, err := NewObjective("chi2 +* "); err == nil {
		t.Fatal("expected a compile error for a malformed expression")
	}
}

// TestRunConvergesTowardTarget minimizes (x-target)^2 via the GA and checks
// the best individual found lands reasonably close to the target value.
func TestRunConvergesTowardTarget(t *testing.T) {
	const target = 3.7
	src := rng.New(7, 0)
	seed := []Allele{NewDoubleAllele(0, -10, 10)}
	cfg := Config{
		PopulationSize: 40,
		Generations:    60,
		Elitism:        2,
		MutationProb:   0.3,
		CrossoverProb:  0.7,
		MutationSpread: 0.2,
	}
	best, err := Run(src, cfg, seed, func(genes []Allele) (float64, error) {
		d := genes[0].Double - target
		return d * d, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(best.Genes[0].Double-target) > 0.5 {
		t.Fatalf("GA did not converge: got x=%v want near %v (fitness %v)", best.Genes[0].Double, target, best.Fitness)
	}
}

func TestRunRejectsBadElitism(t *testing.T) {
	src := rng.New(1, 0)
	cfg := Config{PopulationSize: 4, Generations: 1, Elitism: 4}
	_, err := Run(src, cfg, []Allele{NewDoubleAllele(0, 0, 1)}, func(g []Allele) (float64, error) { return 0, nil })
	if err == nil {
		t.Fatal("expected an error when elitism >= population size")
	}
}

func TestScenarioGenesBuildsAllelesFromParameters(t *testing.T) {
	s := &Scenario{
		Parameters: []ScenarioParameter{
			{Name: "rmin", Kind: "double", Min: 1, Max: 5, Seed: 2},
			{Name: "n", Kind: "int", Min: 0, Max: 10, Seed: 3},
		},
	}
	genes, names, err := s.Genes()
	if err != nil {
		t.Fatal(err)
	}
	if len(genes) != 2 || len(names) != 2 {
		t.Fatalf("got %d genes, %d names", len(genes), len(names))
	}
	values := namedValues(names, genes)
	if values["rmin"].Double != 2 {
		t.Fatalf("got rmin=%v want 2", values["rmin"].Double)
	}
	if values["n"].Int != 3 {
		t.Fatalf("got n=%v want 3", values["n"].Int)
	}
}

func TestScenarioGenesRejectsUnknownKind(t *testing.T) {
	s := &Scenario{Parameters: []ScenarioParameter{{Name: "x", Kind: "bogus"}}}
	if _, _, err := s.Genes(); err == nil {
		t.Fatal("expected an error for an unknown parameter kind")
	}
}
