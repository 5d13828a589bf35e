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
	"strings"
	"testing"

	"github.com/skirtgo/skirt/internal/fatal"
)

// recorder is a minimal Hooks+Setter implementation used to exercise the
// lifecycle and the property-loading visitor dispatch.
type recorder struct {
	Item
	DefaultHooks

	name      string
	setupLog  *[]string
	bools     map[string]bool
	ints      map[string]int
	doubles   map[string]float64
	lists     map[string][]float64
	strings   map[string]string
	subItems  map[string]*Item
	listItems map[string][]*Item
}

func newRecorder(name string, log *[]string) *recorder {
	r := &recorder{
		name:      name,
		setupLog:  log,
		bools:     map[string]bool{},
		ints:      map[string]int{},
		doubles:   map[string]float64{},
		lists:     map[string][]float64{},
		strings:   map[string]string{},
		subItems:  map[string]*Item{},
		listItems: map[string][]*Item{},
	}
	r.Item.Init(r)
	return r
}

func (r *recorder) SetupBefore() error {
	*r.setupLog = append(*r.setupLog, r.name+":before")
	return nil
}

func (r *recorder) SetupAfter() error {
	*r.setupLog = append(*r.setupLog, r.name+":after")
	return nil
}

func (r *recorder) SetBool(name string, v bool) error          { r.bools[name] = v; return nil }
func (r *recorder) SetInt(name string, v int) error             { r.ints[name] = v; return nil }
func (r *recorder) SetDouble(name string, v float64) error      { r.doubles[name] = v; return nil }
func (r *recorder) SetDoubleList(name string, v []float64) error { r.lists[name] = v; return nil }
func (r *recorder) SetString(name string, v string) error       { r.strings[name] = v; return nil }
func (r *recorder) SetEnum(name string, v string) error          { r.strings[name] = v; return nil }
func (r *recorder) SetSubItem(name string, v *Item) error {
	r.subItems[name] = v
	return nil
}
func (r *recorder) SetListOfSubItem(name string, v []*Item) error {
	r.listItems[name] = v
	return nil
}

func TestSetupVisitsBeforeThenChildrenThenAfter(t *testing.T) {
	var log []string
	root := newRecorder("root", &log)
	child := newRecorder("child", &log)
	root.AddChild(&child.Item)

	if err := root.Setup(); err != nil {
		t.Fatal(err)
	}
	want := []string{"root:before", "child:before", "child:after", "root:after"}
	if strings.Join(log, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v, want %v", log, want)
	}
	if root.State() != SetupDone {
		t.Fatalf("got state %v, want SetupDone", root.State())
	}
}

func TestSetupTwiceIsFatal(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic on second Setup")
		}
		if _, ok := r.(*fatal.Error); !ok {
			t.Fatalf("expected a *fatal.Error panic, got %T", r)
		}
	}()
	var log []string
	root := newRecorder("root", &log)
	if err := root.Setup(); err != nil {
		t.Fatal(err)
	}
	_ = root.Setup()
}

func TestMarkRunBeforeSetupDoneIsFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic")
		}
	}()
	var log []string
	root := newRecorder("root", &log)
	root.MarkRun()
}

func TestFindReturnsSelfBeforeDescendants(t *testing.T) {
	var log []string
	type marker interface{ Mark() string }
	root := newRecorder("root", &log)
	child := newRecorder("child", &log)
	root.AddChild(&child.Item)

	// Both root and child are *recorder, so the depth-first search must
	// return the node it starts from before visiting any descendant.
	found, ok := Find[*recorder](&root.Item)
	if !ok || found != root {
		t.Fatalf("expected to find root itself first, got %v %v", found, ok)
	}
}

func TestLoadRejectsUnknownAttribute(t *testing.T) {
	schema := Schema{
		{Name: "rmin", Kind: KindDouble, Required: true},
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for an unknown attribute")
		}
	}()
	var log []string
	target := newRecorder("shell", &log)
	dec := xml.NewDecoder(strings.NewReader(`<Shell rmin="1" bogus="2"/>`))
	tok, _ := dec.Token()
	start := tok.(xml.StartElement)
	_ = Load(dec, start, schema, &target.Item, target, nil)
}

func TestLoadRejectsMissingRequiredAttribute(t *testing.T) {
	schema := Schema{
		{Name: "rmin", Kind: KindDouble, Required: true},
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic for a missing required attribute")
		}
	}()
	var log []string
	target := newRecorder("shell", &log)
	dec := xml.NewDecoder(strings.NewReader(`<Shell/>`))
	tok, _ := dec.Token()
	start := tok.(xml.StartElement)
	_ = Load(dec, start, schema, &target.Item, target, nil)
}

func TestLoadUsesDefaultForMissingOptionalAttribute(t *testing.T) {
	schema := Schema{
		{Name: "rmin", Kind: KindDouble, Required: true},
		{Name: "p", Kind: KindDouble, Required: false, Default: 2.0},
	}
	var log []string
	target := newRecorder("shell", &log)
	dec := xml.NewDecoder(strings.NewReader(`<Shell rmin="1"/>`))
	tok, _ := dec.Token()
	start := tok.(xml.StartElement)
	if err := Load(dec, start, schema, &target.Item, target, nil); err != nil {
		t.Fatal(err)
	}
	if target.doubles["rmin"] != 1 {
		t.Fatalf("got rmin=%v want 1", target.doubles["rmin"])
	}
	if target.doubles["p"] != 2.0 {
		t.Fatalf("got default p=%v want 2.0", target.doubles["p"])
	}
}

func TestLoadBuildsSubItemThroughFactory(t *testing.T) {
	parentSchema := Schema{
		{Name: "geometry", Kind: KindSubItem, Required: true},
	}
	childSchema := Schema{
		{Name: "rmin", Kind: KindDouble, Required: true},
	}

	var log []string
	parent := newRecorder("system", &log)

	factory := func(tag string) (*Item, Setter, Schema, error) {
		if tag != "Shell" {
			return nil, nil, nil, fmt.Errorf("unknown sub-item type %q", tag)
		}
		child := newRecorder("shell", &log)
		return &child.Item, child, childSchema, nil
	}

	doc := `<System><geometry><Shell rmin="3"/></geometry></System>`
	dec := xml.NewDecoder(strings.NewReader(doc))
	tok, _ := dec.Token()
	start := tok.(xml.StartElement)

	if err := Load(dec, start, parentSchema, &parent.Item, parent, factory); err != nil {
		t.Fatal(err)
	}
	sub, ok := parent.subItems["geometry"]
	if !ok {
		t.Fatal("expected geometry sub-item to be set")
	}
	shell, ok := sub.self.(*recorder)
	if !ok || shell.doubles["rmin"] != 3 {
		t.Fatalf("sub-item not loaded correctly: %+v", shell)
	}
	if len(parent.Children()) != 1 {
		t.Fatalf("expected sub-item to be attached as a child, got %d children", len(parent.Children()))
	}
}
