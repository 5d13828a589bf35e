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

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/skirtgo/skirt/internal/fatal"
)

// Factory builds the concrete item named by tag (the discriminator on a
// sub-item or list-of-sub-item wrapper element), returning its backing
// Item, its Setter, and its Schema for recursive loading.
type Factory func(tag string) (*Item, Setter, Schema, error)

// Load decodes start's attributes and nested elements into target
// according to schema, dispatching every value through target's Setter
// methods, and attaches any constructed sub-items as children of item
// (§4.6 "the XML loader dispatches via a visitor pattern").
//
// Unknown attributes and missing required attributes without a default
// are FATAL; missing optional attributes use their descriptor default.
func Load(dec *xml.Decoder, start xml.StartElement, schema Schema, item *Item, target Setter, factory Factory) error {
	seen := make(map[string]bool, len(start.Attr))
	for _, attr := range start.Attr {
		name := attr.Name.Local
		d, ok := schema.find(name)
		if !ok {
			panic(fatal.New(fmt.Sprintf("simitem: unknown attribute %q on <%s>", name, start.Name.Local)))
		}
		if err := setScalar(target, d, attr.Value); err != nil {
			return fmt.Errorf("simitem: attribute %q on <%s>: %w", name, start.Name.Local, err)
		}
		seen[name] = true
	}

	for _, d := range schema {
		if seen[d.Name] || d.Kind == KindSubItem || d.Kind == KindListOfSubItem {
			continue
		}
		if d.Required {
			panic(fatal.New(fmt.Sprintf("simitem: missing required attribute %q on <%s>", d.Name, start.Name.Local)))
		}
		if err := setDefault(target, d); err != nil {
			return fmt.Errorf("simitem: default for %q on <%s>: %w", d.Name, start.Name.Local, err)
		}
	}

	return loadChildren(dec, start, schema, item, target, factory)
}

// setScalar parses raw per d.Kind and dispatches to the matching Setter
// method.
func setScalar(target Setter, d Descriptor, raw string) error {
	switch d.Kind {
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		return target.SetBool(d.Name, v)
	case KindInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		return target.SetInt(d.Name, v)
	case KindDouble:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		return target.SetDouble(d.Name, v)
	case KindDoubleList:
		parts := strings.Split(raw, ",")
		vals := make([]float64, len(parts))
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return err
			}
			vals[i] = v
		}
		return target.SetDoubleList(d.Name, vals)
	case KindString:
		return target.SetString(d.Name, raw)
	case KindEnum:
		return target.SetEnum(d.Name, raw)
	default:
		return fmt.Errorf("simitem: attribute %q has non-scalar kind %s", d.Name, d.Kind)
	}
}

// setDefault dispatches d.Default the same way setScalar would dispatch a
// parsed attribute value.
func setDefault(target Setter, d Descriptor) error {
	switch d.Kind {
	case KindBool:
		return target.SetBool(d.Name, d.Default.(bool))
	case KindInt:
		return target.SetInt(d.Name, d.Default.(int))
	case KindDouble:
		return target.SetDouble(d.Name, d.Default.(float64))
	case KindDoubleList:
		return target.SetDoubleList(d.Name, d.Default.([]float64))
	case KindString:
		return target.SetString(d.Name, d.Default.(string))
	case KindEnum:
		return target.SetEnum(d.Name, d.Default.(string))
	default:
		return fmt.Errorf("simitem: default for %q has non-scalar kind %s", d.Name, d.Kind)
	}
}

// loadChildren scans the nested elements of start for sub-item and
// list-of-sub-item wrapper tags named by schema, recursively loading each
// concrete child through factory.
func loadChildren(dec *xml.Decoder, start xml.StartElement, schema Schema, item *Item, target Setter, factory Factory) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return fmt.Errorf("simitem: unexpected EOF inside <%s>", start.Name.Local)
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil
			}
		case xml.StartElement:
			d, ok := schema.find(t.Name.Local)
			if !ok {
				panic(fatal.New(fmt.Sprintf("simitem: unknown element <%s> inside <%s>", t.Name.Local, start.Name.Local)))
			}
			switch d.Kind {
			case KindSubItem:
				child, err := loadOneSubItem(dec, t, item, factory)
				if err != nil {
					return err
				}
				if err := target.SetSubItem(d.Name, child); err != nil {
					return err
				}
			case KindListOfSubItem:
				list, err := loadListOfSubItems(dec, t, item, factory)
				if err != nil {
					return err
				}
				if err := target.SetListOfSubItem(d.Name, list); err != nil {
					return err
				}
			default:
				panic(fatal.New(fmt.Sprintf("simitem: element <%s> names a scalar property, not a sub-item", t.Name.Local)))
			}
		}
	}
}

// loadOneSubItem reads exactly one concrete element inside wrapper and
// builds it through factory.
func loadOneSubItem(dec *xml.Decoder, wrapper xml.StartElement, parent *Item, factory Factory) (*Item, error) {
	var built *Item
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == wrapper.Name.Local {
				if built == nil {
					return nil, fmt.Errorf("simitem: <%s> has no concrete sub-item", wrapper.Name.Local)
				}
				return built, nil
			}
		case xml.StartElement:
			child, childTarget, childSchema, err := factory(t.Name.Local)
			if err != nil {
				return nil, err
			}
			parent.AddChild(child)
			if err := Load(dec, t, childSchema, child, childTarget, factory); err != nil {
				return nil, err
			}
			built = child
		}
	}
}

// loadListOfSubItems reads every concrete element inside wrapper and
// builds each through factory.
func loadListOfSubItems(dec *xml.Decoder, wrapper xml.StartElement, parent *Item, factory Factory) ([]*Item, error) {
	var list []*Item
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == wrapper.Name.Local {
				return list, nil
			}
		case xml.StartElement:
			child, childTarget, childSchema, err := factory(t.Name.Local)
			if err != nil {
				return nil, err
			}
			parent.AddChild(child)
			if err := Load(dec, t, childSchema, child, childTarget, factory); err != nil {
				return nil, err
			}
			list = append(list, child)
		}
	}
}
