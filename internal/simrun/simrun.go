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

// Package simrun is the load-setup-run-write pipeline shared by the run
// and fit command-line entry points (§6): both drive an XML simulation
// description through pkg/simitem and pkg/simulation the same way, the
// fit driver just does it once per candidate instead of once per file.
package simrun

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/skirtgo/skirt/internal/xlog"
	"github.com/skirtgo/skirt/pkg/simitem"
	"github.com/skirtgo/skirt/pkg/simulation"
	"github.com/skirtgo/skirt/pkg/units"
)

// Load decodes the XML simulation description at path and runs its
// SetupBefore/SetupAfter pass, returning the ready-to-run root item.
func Load(path string) (*simulation.SimulationItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("simrun: opening %s: %w", path, err)
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	start, err := firstElement(dec)
	if err != nil {
		return nil, fmt.Errorf("simrun: %s: %w", path, err)
	}

	factory := simulation.NewFactory()
	rootItem, rootTarget, rootSchema, err := factory(start.Name.Local)
	if err != nil {
		return nil, fmt.Errorf("simrun: %s: %w", path, err)
	}
	root, ok := rootTarget.(*simulation.SimulationItem)
	if !ok {
		return nil, fmt.Errorf("simrun: %s: root element <%s> is not a MonteCarloSimulation", path, start.Name.Local)
	}
	if err := simitem.Load(dec, start, rootSchema, rootItem, rootTarget, factory); err != nil {
		return nil, fmt.Errorf("simrun: %s: %w", path, err)
	}
	if err := root.Setup(); err != nil {
		return nil, fmt.Errorf("simrun: %s: %w", path, err)
	}
	return root, nil
}

// RunAndWrite runs root's photon loop with the given seed and thread
// count, then writes every instrument's output into outputDir.
func RunAndWrite(root *simulation.SimulationItem, outputDir string, seed int64, threads int) error {
	xlog.Infof("simrun: running %d packets/bin across %d threads", root.NumPackets, threads)
	if err := root.Run(seed, threads); err != nil {
		return fmt.Errorf("simrun: %w", err)
	}
	root.MarkRun()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("simrun: creating output directory %s: %w", outputDir, err)
	}
	if err := root.WriteOutputs(outputDir, units.Default()); err != nil {
		return fmt.Errorf("simrun: writing output: %w", err)
	}
	return nil
}

// LoadRunAndWrite loads path, runs it, and writes its output into
// outputDir, the single-call path both entry points use for one whole
// simulation file.
func LoadRunAndWrite(path, outputDir string, seed int64, threads int) error {
	root, err := Load(path)
	if err != nil {
		return err
	}
	return RunAndWrite(root, outputDir, seed, threads)
}

// firstElement reads dec until its first xml.StartElement, skipping the
// document's leading ProcInst/comment/CharData tokens.
func firstElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}
