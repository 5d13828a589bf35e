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

// Package simitem implements the simulation-item backbone of §4.6: a
// parent/child tree of configurable nodes with a setupBefore/setupAfter
// lifecycle, capability-based lookup, and an XML loader that dispatches by
// property type through a visitor pattern.
package simitem

import (
	"fmt"

	"github.com/skirtgo/skirt/internal/fatal"
)

// State is a simulation item's lifecycle stage (§4.6 "State is enumerated
// {Created, SetupStarted, SetupDone, Run}").
type State int

const (
	Created State = iota
	SetupStarted
	SetupDone
	Run
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case SetupStarted:
		return "SetupStarted"
	case SetupDone:
		return "SetupDone"
	case Run:
		return "Run"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Hooks is implemented by any type embedding Item that wants to
// participate in setup; both hooks are optional and default to no-ops.
type Hooks interface {
	SetupBefore() error
	SetupAfter() error
}

// Item is the embeddable base of every configurable node: it tracks the
// parent/child tree and the lifecycle state, and drives setup and
// capability lookup over whatever Hooks implementation embeds it (§4.6
// "Every configurable node participates in a parent/child tree").
type Item struct {
	self     Hooks
	parent   *Item
	children []*Item
	state    State
}

// Init must be called once, from the constructor of the concrete type
// embedding Item, with self as the concrete value (so that SetupBefore
// and SetupAfter dispatch to the concrete type's overrides).
func (it *Item) Init(self Hooks) {
	it.self = self
	it.state = Created
}

// AddChild attaches child under it, for later setup and lookup traversal.
func (it *Item) AddChild(child *Item) {
	child.parent = it
	it.children = append(it.children, child)
}

// Parent returns it's parent, or nil at the tree root.
func (it *Item) Parent() *Item { return it.parent }

// Children returns it's direct children.
func (it *Item) Children() []*Item { return it.children }

// State returns it's current lifecycle state.
func (it *Item) State() State { return it.state }

// transition validates and applies a state change, panicking with a
// fatal.Error on any illegal transition (§4.6 "illegal transitions are
// FATAL").
func (it *Item) transition(from, to State) {
	if it.state != from {
		panic(fatal.New(fmt.Sprintf("simitem: illegal transition to %s: state is %s, expected %s", to, it.state, from)))
	}
	it.state = to
}

// Setup drives the setupBefore/descend-into-children/setupAfter sequence
// over the whole subtree rooted at it (§4.6). Calling Setup twice, or
// calling it on a node that is not Created, is FATAL.
func (it *Item) Setup() error {
	it.transition(Created, SetupStarted)
	if err := it.self.SetupBefore(); err != nil {
		return err
	}
	for _, child := range it.children {
		if err := child.Setup(); err != nil {
			return err
		}
	}
	if err := it.self.SetupAfter(); err != nil {
		return err
	}
	it.transition(SetupStarted, SetupDone)
	return nil
}

// MarkRun transitions it from SetupDone to Run; calling it before setup
// finishes, or twice, is FATAL.
func (it *Item) MarkRun() {
	it.transition(SetupDone, Run)
}
