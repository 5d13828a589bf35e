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

// Kind enumerates the discoverable property types a simulation item can
// expose to the XML loader (§4.6 "Discoverable properties are typed:
// bool, int, double, double-list, string, enum, sub-item,
// list-of-sub-item").
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindDouble
	KindDoubleList
	KindString
	KindEnum
	KindSubItem
	KindListOfSubItem
)

// Setter is the visitor interface dispatched by the XML loader: each
// Kind has exactly one of these methods called on it, with the others
// never invoked (§4.6 "the XML loader dispatches via a visitor pattern
// so that each property type has a concrete setter").
type Setter interface {
	SetBool(name string, v bool) error
	SetInt(name string, v int) error
	SetDouble(name string, v float64) error
	SetDoubleList(name string, v []float64) error
	SetString(name string, v string) error
	SetEnum(name string, v string) error
	SetSubItem(name string, v *Item) error
	SetListOfSubItem(name string, v []*Item) error
}

// Descriptor describes one discoverable property: its name, kind,
// whether it is required, and (if optional) its default value.
type Descriptor struct {
	Name     string
	Kind     Kind
	Required bool
	Default  interface{}
}

// Schema is the ordered set of properties a loadable item type exposes.
type Schema []Descriptor

// find returns the descriptor named name, or false if none matches.
func (s Schema) find(name string) (Descriptor, bool) {
	for _, d := range s {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindDoubleList:
		return "double-list"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindSubItem:
		return "sub-item"
	case KindListOfSubItem:
		return "list-of-sub-item"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
