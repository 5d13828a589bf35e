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

package simulation

import (
	"fmt"

	"github.com/skirtgo/skirt/pkg/density"
	"github.com/skirtgo/skirt/pkg/simitem"
)

// geometryProvider is the capability a built geometry item exposes once its
// SetupAfter has run, discoverable via simitem.Find.
type geometryProvider interface {
	Geometry() density.Geometry
}

// ShellSchema, TorusSchema, etc. describe the attributes each concrete
// geometry's XML element accepts (§4.2, §4.6).
var ShellSchema = simitem.Schema{
	{Name: "rmin", Kind: simitem.KindDouble, Required: true},
	{Name: "rmax", Kind: simitem.KindDouble, Required: true},
	{Name: "p", Kind: simitem.KindDouble, Required: false, Default: 2.0},
}

type ShellItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	RMin, RMax, P float64
	geom          *density.Shell
}

func NewShellItem() *ShellItem {
	it := &ShellItem{P: 2.0}
	it.Item.Init(it)
	return it
}

func (it *ShellItem) SetDouble(name string, v float64) error {
	switch name {
	case "rmin":
		it.RMin = v
	case "rmax":
		it.RMax = v
	case "p":
		it.P = v
	default:
		return fmt.Errorf("simulation: Shell has no property %q", name)
	}
	return nil
}

func (it *ShellItem) SetupAfter() error {
	g, err := density.NewShell(it.RMin, it.RMax, it.P)
	if err != nil {
		return err
	}
	it.geom = g
	return nil
}

func (it *ShellItem) Geometry() density.Geometry { return it.geom }

var TorusSchema = simitem.Schema{
	{Name: "rmin", Kind: simitem.KindDouble, Required: true},
	{Name: "rmax", Kind: simitem.KindDouble, Required: true},
	{Name: "p", Kind: simitem.KindDouble, Required: false, Default: 1.0},
	{Name: "q", Kind: simitem.KindDouble, Required: false, Default: 1.0},
	{Name: "delta", Kind: simitem.KindDouble, Required: true},
}

type TorusItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	RMin, RMax, P, Q, Delta float64
	geom                    *density.Torus
}

func NewTorusItem() *TorusItem {
	it := &TorusItem{P: 1, Q: 1}
	it.Item.Init(it)
	return it
}

func (it *TorusItem) SetDouble(name string, v float64) error {
	switch name {
	case "rmin":
		it.RMin = v
	case "rmax":
		it.RMax = v
	case "p":
		it.P = v
	case "q":
		it.Q = v
	case "delta":
		it.Delta = v
	default:
		return fmt.Errorf("simulation: Torus has no property %q", name)
	}
	return nil
}

func (it *TorusItem) SetupAfter() error {
	g, err := density.NewTorus(it.RMin, it.RMax, it.P, it.Q, it.Delta)
	if err != nil {
		return err
	}
	it.geom = g
	return nil
}

func (it *TorusItem) Geometry() density.Geometry { return it.geom }

var SersicSchema = simitem.Schema{
	{Name: "re", Kind: simitem.KindDouble, Required: true},
	{Name: "n", Kind: simitem.KindDouble, Required: true},
}

type SersicItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	Re, N float64
	geom  *density.Sersic
}

func NewSersicItem() *SersicItem {
	it := &SersicItem{}
	it.Item.Init(it)
	return it
}

func (it *SersicItem) SetDouble(name string, v float64) error {
	switch name {
	case "re":
		it.Re = v
	case "n":
		it.N = v
	default:
		return fmt.Errorf("simulation: Sersic has no property %q", name)
	}
	return nil
}

func (it *SersicItem) SetupAfter() error {
	g, err := density.NewSersic(it.Re, it.N)
	if err != nil {
		return err
	}
	it.geom = g
	return nil
}

func (it *SersicItem) Geometry() density.Geometry { return it.geom }

var TTauriDiskSchema = simitem.Schema{
	{Name: "rmin", Kind: simitem.KindDouble, Required: true},
	{Name: "rmax", Kind: simitem.KindDouble, Required: true},
	{Name: "h0", Kind: simitem.KindDouble, Required: true},
	{Name: "r0", Kind: simitem.KindDouble, Required: true},
	{Name: "zeta", Kind: simitem.KindDouble, Required: false, Default: 1.125},
}

type TTauriDiskItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	RMin, RMax, H0, R0, Zeta float64
	geom                     *density.TTauriDisk
}

func NewTTauriDiskItem() *TTauriDiskItem {
	it := &TTauriDiskItem{Zeta: 1.125}
	it.Item.Init(it)
	return it
}

func (it *TTauriDiskItem) SetDouble(name string, v float64) error {
	switch name {
	case "rmin":
		it.RMin = v
	case "rmax":
		it.RMax = v
	case "h0":
		it.H0 = v
	case "r0":
		it.R0 = v
	case "zeta":
		it.Zeta = v
	default:
		return fmt.Errorf("simulation: TTauriDisk has no property %q", name)
	}
	return nil
}

func (it *TTauriDiskItem) SetupAfter() error {
	g, err := density.NewTTauriDisk(it.RMin, it.RMax, it.H0, it.R0, it.Zeta)
	if err != nil {
		return err
	}
	it.geom = g
	return nil
}

func (it *TTauriDiskItem) Geometry() density.Geometry { return it.geom }

var GaussianComponentSchema = simitem.Schema{
	{Name: "mass", Kind: simitem.KindDouble, Required: true},
	{Name: "sigma", Kind: simitem.KindDouble, Required: true},
	{Name: "q", Kind: simitem.KindDouble, Required: false, Default: 1.0},
}

// GaussianComponentItem is a leaf of an MGE's component list: it has no
// geometry of its own, only the three scalars NewMGE needs.
type GaussianComponentItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	Mass, Sigma, Q float64
}

func NewGaussianComponentItem() *GaussianComponentItem {
	it := &GaussianComponentItem{Q: 1}
	it.Item.Init(it)
	return it
}

func (it *GaussianComponentItem) SetDouble(name string, v float64) error {
	switch name {
	case "mass":
		it.Mass = v
	case "sigma":
		it.Sigma = v
	case "q":
		it.Q = v
	default:
		return fmt.Errorf("simulation: GaussianComponent has no property %q", name)
	}
	return nil
}

func (it *GaussianComponentItem) component() density.GaussianComponent {
	return density.GaussianComponent{Mass: it.Mass, Sigma: it.Sigma, Q: it.Q}
}

var MGESchema = simitem.Schema{
	{Name: "components", Kind: simitem.KindListOfSubItem, Required: true},
}

type MGEItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	components []*Item
	geom       *density.MGE
}

func NewMGEItem() *MGEItem {
	it := &MGEItem{}
	it.Item.Init(it)
	return it
}

// Item is a type alias so the other files in this package can refer to
// simitem.Item without a second import alias.
type Item = simitem.Item

func (it *MGEItem) SetListOfSubItem(name string, v []*Item) error {
	if name != "components" {
		return fmt.Errorf("simulation: MGE has no sub-item list %q", name)
	}
	it.components = v
	return nil
}

func (it *MGEItem) SetupAfter() error {
	comps := make([]density.GaussianComponent, len(it.components))
	for i, c := range it.components {
		gc, ok := simitem.Find[*GaussianComponentItem](c)
		if !ok {
			return fmt.Errorf("simulation: MGE component %d is not a GaussianComponent", i)
		}
		comps[i] = gc.component()
	}
	g, err := density.NewMGE(comps)
	if err != nil {
		return err
	}
	it.geom = g
	return nil
}

func (it *MGEItem) Geometry() density.Geometry { return it.geom }

var SpheroidSchema = simitem.Schema{
	{Name: "q", Kind: simitem.KindDouble, Required: true},
	{Name: "geometry", Kind: simitem.KindSubItem, Required: true},
}

type SpheroidItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	Q    float64
	base *Item
	geom *density.Spheroid
}

func NewSpheroidItem() *SpheroidItem {
	it := &SpheroidItem{}
	it.Item.Init(it)
	return it
}

func (it *SpheroidItem) SetDouble(name string, v float64) error {
	if name != "q" {
		return fmt.Errorf("simulation: Spheroid has no property %q", name)
	}
	it.Q = v
	return nil
}

func (it *SpheroidItem) SetSubItem(name string, v *Item) error {
	if name != "geometry" {
		return fmt.Errorf("simulation: Spheroid has no sub-item %q", name)
	}
	it.base = v
	return nil
}

func (it *SpheroidItem) SetupAfter() error {
	base, ok := simitem.Find[geometryProvider](it.base)
	if !ok {
		return fmt.Errorf("simulation: Spheroid's geometry sub-item did not build a Geometry")
	}
	g, err := density.NewSpheroid(base.Geometry(), it.Q)
	if err != nil {
		return err
	}
	it.geom = g
	return nil
}

func (it *SpheroidItem) Geometry() density.Geometry { return it.geom }

var RotateSchema = simitem.Schema{
	{Name: "alpha", Kind: simitem.KindDouble, Required: true},
	{Name: "beta", Kind: simitem.KindDouble, Required: true},
	{Name: "gamma", Kind: simitem.KindDouble, Required: true},
	{Name: "geometry", Kind: simitem.KindSubItem, Required: true},
}

type RotateItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	Alpha, Beta, Gamma float64
	base               *Item
	geom               *density.Rotate
}

func NewRotateItem() *RotateItem {
	it := &RotateItem{}
	it.Item.Init(it)
	return it
}

func (it *RotateItem) SetDouble(name string, v float64) error {
	switch name {
	case "alpha":
		it.Alpha = v
	case "beta":
		it.Beta = v
	case "gamma":
		it.Gamma = v
	default:
		return fmt.Errorf("simulation: Rotate has no property %q", name)
	}
	return nil
}

func (it *RotateItem) SetSubItem(name string, v *Item) error {
	if name != "geometry" {
		return fmt.Errorf("simulation: Rotate has no sub-item %q", name)
	}
	it.base = v
	return nil
}

func (it *RotateItem) SetupAfter() error {
	base, ok := simitem.Find[geometryProvider](it.base)
	if !ok {
		return fmt.Errorf("simulation: Rotate's geometry sub-item did not build a Geometry")
	}
	it.geom = density.NewRotate(base.Geometry(), it.Alpha, it.Beta, it.Gamma)
	return nil
}

func (it *RotateItem) Geometry() density.Geometry { return it.geom }
