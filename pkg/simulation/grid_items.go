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

	"github.com/skirtgo/skirt/pkg/dustgrid"
	"github.com/skirtgo/skirt/pkg/simitem"
)

// gridProvider is the capability a built grid item exposes once its
// SetupAfter has run.
type gridProvider interface {
	Grid() dustgrid.Grid
}

var SphericalGridSchema = simitem.Schema{
	{Name: "rv", Kind: simitem.KindDoubleList, Required: true},
	{Name: "thetav", Kind: simitem.KindDoubleList, Required: true},
}

type SphericalGridItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	Rv, Thetav []float64
	grid       *dustgrid.SphericalAxisymmetric
}

func NewSphericalGridItem() *SphericalGridItem {
	it := &SphericalGridItem{}
	it.Item.Init(it)
	return it
}

func (it *SphericalGridItem) SetDoubleList(name string, v []float64) error {
	switch name {
	case "rv":
		it.Rv = v
	case "thetav":
		it.Thetav = v
	default:
		return fmt.Errorf("simulation: SphericalGrid has no property %q", name)
	}
	return nil
}

func (it *SphericalGridItem) SetupAfter() error {
	g, err := dustgrid.NewSphericalAxisymmetric(it.Rv, it.Thetav)
	if err != nil {
		return err
	}
	it.grid = g
	return nil
}

func (it *SphericalGridItem) Grid() dustgrid.Grid { return it.grid }

var CylindricalGridSchema = simitem.Schema{
	{Name: "rv", Kind: simitem.KindDoubleList, Required: true},
	{Name: "zv", Kind: simitem.KindDoubleList, Required: true},
}

type CylindricalGridItem struct {
	simitem.Item
	simitem.DefaultHooks
	simitem.UnsupportedSetter

	Rv, Zv []float64
	grid   *dustgrid.CylindricalAxisymmetric
}

func NewCylindricalGridItem() *CylindricalGridItem {
	it := &CylindricalGridItem{}
	it.Item.Init(it)
	return it
}

func (it *CylindricalGridItem) SetDoubleList(name string, v []float64) error {
	switch name {
	case "rv":
		it.Rv = v
	case "zv":
		it.Zv = v
	default:
		return fmt.Errorf("simulation: CylindricalGrid has no property %q", name)
	}
	return nil
}

func (it *CylindricalGridItem) SetupAfter() error {
	g, err := dustgrid.NewCylindricalAxisymmetric(it.Rv, it.Zv)
	if err != nil {
		return err
	}
	it.grid = g
	return nil
}

func (it *CylindricalGridItem) Grid() dustgrid.Grid { return it.grid }
