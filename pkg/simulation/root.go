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

// Package simulation is the composition root tying the geometry, grid,
// photon and instrument packages into one loadable, runnable simulation
// tree (§4 "a simulation is a tree of configurable items rooted at a
// single top-level node", §6 "the run command loads and executes a
// simulation description").
package simulation

import (
	"fmt"
	"math"
	"sync"

	"github.com/skirtgo/skirt/internal/xlog"
	"github.com/skirtgo/skirt/pkg/geom3"
	"github.com/skirtgo/skirt/pkg/photon"
	"github.com/skirtgo/skirt/pkg/rng"
	"github.com/skirtgo/skirt/pkg/simitem"
	"github.com/skirtgo/skirt/pkg/units"
	"github.com/skirtgo/skirt/pkg/wavelength"
)

var SimulationSchema = simitem.Schema{
	{Name: "numpackets", Kind: simitem.KindInt, Required: true},
	{Name: "kappa", Kind: simitem.KindDouble, Required: true},
	{Name: "wavelengths", Kind: simitem.KindDoubleList, Required: true},
	{Name: "maxscatters", Kind: simitem.KindInt, Required: false, Default: 100},
	{Name: "geometry", Kind: simitem.KindSubItem, Required: true},
	{Name: "grid", Kind: simitem.KindSubItem, Required: true},
	{Name: "instruments", Kind: simitem.KindListOfSubItem, Required: true},
}

// SimulationItem is the top-level loaded node: one stellar point source
// at the origin, one dust distribution (geometry x grid x gray kappa),
// one wavelength grid, and a set of instruments recording peeled-off
// packets. Its wavelengths attribute is consumed immediately on load
// (not deferred to SetupAfter) so that the instrument sub-items, loaded
// afterward in document order, can be constructed against the finished
// *wavelength.Grid (§4.6 "the XML loader dispatches via a visitor
// pattern").
type SimulationItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	NumPackets  int
	Kappa       float64
	MaxScatters int
	Grid        *wavelength.Grid

	geometryItem    *Item
	gridItem        *Item
	instrumentItems []*Item

	dust        *DustSystem
	instruments []Instrument
}

func NewSimulationItem() *SimulationItem {
	it := &SimulationItem{MaxScatters: 100}
	it.Item.Init(it)
	return it
}

func (it *SimulationItem) SetInt(name string, v int) error {
	switch name {
	case "numpackets":
		it.NumPackets = v
	case "maxscatters":
		it.MaxScatters = v
	default:
		return fmt.Errorf("simulation: MonteCarloSimulation has no property %q", name)
	}
	return nil
}

func (it *SimulationItem) SetDouble(name string, v float64) error {
	if name != "kappa" {
		return fmt.Errorf("simulation: MonteCarloSimulation has no property %q", name)
	}
	it.Kappa = v
	return nil
}

func (it *SimulationItem) SetDoubleList(name string, v []float64) error {
	if name != "wavelengths" {
		return fmt.Errorf("simulation: MonteCarloSimulation has no property %q", name)
	}
	grid, err := wavelength.New(v)
	if err != nil {
		return err
	}
	it.Grid = grid
	return nil
}

func (it *SimulationItem) SetSubItem(name string, v *Item) error {
	switch name {
	case "geometry":
		it.geometryItem = v
	case "grid":
		it.gridItem = v
	default:
		return fmt.Errorf("simulation: MonteCarloSimulation has no sub-item %q", name)
	}
	return nil
}

func (it *SimulationItem) SetListOfSubItem(name string, v []*Item) error {
	if name != "instruments" {
		return fmt.Errorf("simulation: MonteCarloSimulation has no sub-item list %q", name)
	}
	it.instrumentItems = v
	return nil
}

func (it *SimulationItem) SetupAfter() error {
	if it.Grid == nil {
		return fmt.Errorf("simulation: MonteCarloSimulation is missing its wavelengths attribute")
	}
	geomBuilt, ok := simitem.Find[geometryProvider](it.geometryItem)
	if !ok {
		return fmt.Errorf("simulation: geometry sub-item did not build a Geometry")
	}
	gridBuilt, ok := simitem.Find[gridProvider](it.gridItem)
	if !ok {
		return fmt.Errorf("simulation: grid sub-item did not build a Grid")
	}
	it.dust = &DustSystem{Grid: gridBuilt.Grid(), Geometry: geomBuilt.Geometry(), Kappa: it.Kappa}

	it.instruments = make([]Instrument, len(it.instrumentItems))
	for i, child := range it.instrumentItems {
		inst, ok := simitem.Find[Instrument](child)
		if !ok {
			return fmt.Errorf("simulation: instrument %d did not build an Instrument", i)
		}
		it.instruments[i] = inst
	}
	return nil
}

// NewFactory returns a simitem.Factory that knows every concrete item
// type this package defines. It threads the root's wavelength grid to
// the instrument items, which need it at construction time: since Load
// dispatches a node's own attributes before descending into its nested
// elements, the root's wavelengths attribute has already built Grid by
// the time the factory is asked to build its instrument children.
func NewFactory() simitem.Factory {
	var root *SimulationItem
	var factory simitem.Factory
	factory = func(tag string) (*Item, simitem.Setter, simitem.Schema, error) {
		switch tag {
		case "MonteCarloSimulation":
			it := NewSimulationItem()
			root = it
			return &it.Item, it, SimulationSchema, nil
		case "Shell":
			it := NewShellItem()
			return &it.Item, it, ShellSchema, nil
		case "Torus":
			it := NewTorusItem()
			return &it.Item, it, TorusSchema, nil
		case "Sersic":
			it := NewSersicItem()
			return &it.Item, it, SersicSchema, nil
		case "TTauriDisk":
			it := NewTTauriDiskItem()
			return &it.Item, it, TTauriDiskSchema, nil
		case "GaussianComponent":
			it := NewGaussianComponentItem()
			return &it.Item, it, GaussianComponentSchema, nil
		case "MGE":
			it := NewMGEItem()
			return &it.Item, it, MGESchema, nil
		case "Spheroid":
			it := NewSpheroidItem()
			return &it.Item, it, SpheroidSchema, nil
		case "Rotate":
			it := NewRotateItem()
			return &it.Item, it, RotateSchema, nil
		case "SphericalGrid":
			it := NewSphericalGridItem()
			return &it.Item, it, SphericalGridSchema, nil
		case "CylindricalGrid":
			it := NewCylindricalGridItem()
			return &it.Item, it, CylindricalGridSchema, nil
		case "DistantInstrument":
			if root == nil || root.Grid == nil {
				return nil, nil, nil, fmt.Errorf("simulation: DistantInstrument requires the simulation's wavelengths attribute to precede it")
			}
			it := NewDistantInstrumentItem(root.Grid)
			return &it.Item, it, DistantInstrumentSchema, nil
		case "SEDInstrument":
			if root == nil || root.Grid == nil {
				return nil, nil, nil, fmt.Errorf("simulation: SEDInstrument requires the simulation's wavelengths attribute to precede it")
			}
			it := NewSEDInstrumentItem(root.Grid)
			return &it.Item, it, SEDInstrumentSchema, nil
		default:
			return nil, nil, nil, fmt.Errorf("simulation: unknown item tag %q", tag)
		}
	}
	return factory
}

// Run launches NumPackets packets per wavelength bin, split evenly
// (remainder to the first workers) across nthreads goroutines, each
// with its own rng.Source seeded deterministically from seed and its
// worker index (§4.5 "Per-thread photon-packet counts partition the
// total as evenly as possible"). It returns the first worker error, if
// any; workers do not share mutable state beyond the read-only dust
// system and geometry and the instruments' own atomic accumulators.
func (it *SimulationItem) Run(seed int64, nthreads int) error {
	if nthreads < 1 {
		nthreads = 1
	}
	perWorker := it.NumPackets / nthreads
	remainder := it.NumPackets % nthreads

	var wg sync.WaitGroup
	errs := make([]error, nthreads)
	for w := 0; w < nthreads; w++ {
		count := perWorker
		if w < remainder {
			count++
		}
		wg.Add(1)
		go func(workerIndex, count int) {
			defer wg.Done()
			src := rng.New(seed, workerIndex)
			errs[workerIndex] = it.runWorker(src, count)
		}(w, count)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (it *SimulationItem) runWorker(src *rng.Source, count int) error {
	if it.NumPackets == 0 || it.Grid.Len() == 0 {
		return nil
	}
	luminosity := 1.0 / float64(it.NumPackets)
	nell := it.Grid.Len()
	for n := 0; n < count; n++ {
		for ell := 0; ell < nell; ell++ {
			it.launchPacket(src, ell, luminosity)
		}
	}
	return nil
}

// launchPacket emits one unpolarized packet isotropically from the
// origin, peels it off toward every instrument at emission and after
// every scatter, and random-walks it through the dust system until it
// escapes the grid or reaches MaxScatters (§3 "Photon packet ...
// created unpolarised at launch", §4.3 "forced detection at every
// interaction point").
func (it *SimulationItem) launchPacket(src *rng.Source, ell int, luminosity float64) {
	dir := isotropicDirection(src)
	p := photon.New(true, ell, geom3.NewCartesian(0, 0, 0), dir, luminosity)
	it.peelOffAll(p)

	plane := &photon.ScatteringPlane{}
	refAxis := arbitraryPerpendicular(p.Dir)
	for scatter := 0; scatter < it.MaxScatters; scatter++ {
		pos, ok := it.sampleInteraction(src, p.Pos, p.Dir)
		if !ok {
			return
		}
		p.Pos = pos
		oldDir := p.Dir
		newDir := isotropicDirection(src)
		p.Scatter(newDir, geom3.MuellerSparse{S11: 1, S33: 1}, plane, refAxis)
		refAxis = scatteringNormal(oldDir, newDir, refAxis)
		it.peelOffAll(p)
	}
	xlog.Warnf("simulation: packet truncated after maxscatters=%d without escaping the grid", it.MaxScatters)
}

func (it *SimulationItem) peelOffAll(p *photon.Packet) {
	for _, inst := range it.instruments {
		inst.Detect(p, it.dust)
	}
}

// sampleInteraction samples an exponentially distributed optical depth
// (inverse-CDF of -ln(u)) and walks the grid's own segment-by-segment
// traversal from start along dir until that much tau has accumulated,
// returning the interaction position. It reports false if the ray
// escapes the grid before reaching the sampled depth, analogous to
// DustSystem.OpticalDepth's own segment walk so scattering decisions
// and peel-off detection see the same cell boundaries.
func (it *SimulationItem) sampleInteraction(src *rng.Source, start geom3.Position, dir geom3.Direction) (geom3.Position, bool) {
	tauTarget := -math.Log(src.Uniform())
	segments := it.dust.Grid.Path(start, dir)
	travelled := 0.0
	for _, seg := range segments {
		if seg.CellID < 0 {
			travelled += seg.Ds
			continue
		}
		mid := start.Translate(dir, travelled+seg.Ds/2)
		segTau := it.Kappa * it.dust.Geometry.Density(mid) * seg.Ds
		if tauTarget <= segTau {
			frac := 0.0
			if segTau > 0 {
				frac = tauTarget / segTau
			}
			return start.Translate(dir, travelled+frac*seg.Ds), true
		}
		tauTarget -= segTau
		travelled += seg.Ds
	}
	return geom3.Position{}, false
}

// WriteOutputs writes every instrument's output files into dir, in the
// unit system sys selects (§6 "Output files").
func (it *SimulationItem) WriteOutputs(dir string, sys *units.System) error {
	for _, inst := range it.instruments {
		if err := inst.WriteOutput(dir, sys); err != nil {
			return err
		}
	}
	return nil
}

func isotropicDirection(src *rng.Source) geom3.Direction {
	cosTheta := src.UniformIn(-1, 1)
	theta := math.Acos(cosTheta)
	phi := src.UniformIn(0, 2*math.Pi)
	return geom3.DirectionFromAngles(theta, phi)
}

// arbitraryPerpendicular returns some unit vector perpendicular to dir,
// seeding the polarization reference axis before a packet's first
// scatter. Scatter's rotation angle against it is zero on that first
// call regardless (no scattering plane exists yet), so its exact choice
// does not matter.
func arbitraryPerpendicular(dir geom3.Direction) geom3.Vector {
	ref := geom3.NewDirection(0, 0, 1).Vector()
	if math.Abs(dir.Z()) > 0.9 {
		ref = geom3.NewDirection(1, 0, 0).Vector()
	}
	n := dir.Vector().Cross(ref)
	return n.Scale(1 / n.Norm())
}

// scatteringNormal mirrors the normal update inside photon.ScatteringPlane
// (incoming x outgoing, normalized, previous value kept on a
// near-degenerate cross product) so the caller can keep threading a
// matching polarization reference axis into the next Scatter call
// without ScatteringPlane needing to expose its private normal.
func scatteringNormal(incoming, outgoing geom3.Direction, prev geom3.Vector) geom3.Vector {
	n := incoming.Vector().Cross(outgoing.Vector())
	if n.Norm() < 1e-12 {
		return prev
	}
	return n.Scale(1 / n.Norm())
}
