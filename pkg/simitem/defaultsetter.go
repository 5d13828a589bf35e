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

package simitem

import "fmt"

// UnsupportedSetter implements Setter by rejecting every property, for
// embedding by concrete item types that only override the handful of
// methods their own schema actually uses.
type UnsupportedSetter struct{}

func (UnsupportedSetter) SetBool(name string, v bool) error {
	return fmt.Errorf("simitem: property %q does not accept a bool", name)
}
func (UnsupportedSetter) SetInt(name string, v int) error {
	return fmt.Errorf("simitem: property %q does not accept an int", name)
}
func (UnsupportedSetter) SetDouble(name string, v float64) error {
	return fmt.Errorf("simitem: property %q does not accept a double", name)
}
func (UnsupportedSetter) SetDoubleList(name string, v []float64) error {
	return fmt.Errorf("simitem: property %q does not accept a double-list", name)
}
func (UnsupportedSetter) SetString(name string, v string) error {
	return fmt.Errorf("simitem: property %q does not accept a string", name)
}
func (UnsupportedSetter) SetEnum(name string, v string) error {
	return fmt.Errorf("simitem: property %q does not accept an enum", name)
}
func (UnsupportedSetter) SetSubItem(name string, v *Item) error {
	return fmt.Errorf("simitem: property %q does not accept a sub-item", name)
}
func (UnsupportedSetter) SetListOfSubItem(name string, v []*Item) error {
	return fmt.Errorf("simitem: property %q does not accept a list of sub-items", name)
}
