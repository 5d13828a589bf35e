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

// Find performs a depth-first search of it's subtree for the first node
// whose concrete type satisfies capability (a type-assertion predicate),
// returning it and true, or the zero value and false (§4.6 "Each node can
// look up an ancestor or descendant by abstract capability ... the
// lookup is a depth-first search in the tree, returning the first
// match").
func Find[T any](it *Item) (T, bool) {
	var zero T
	if v, ok := it.self.(T); ok {
		return v, true
	}
	for _, child := range it.children {
		if v, ok := Find[T](child); ok {
			return v, true
		}
	}
	return zero, false
}

// FindAncestor walks up from it through its parents for the first node
// whose concrete type satisfies capability.
func FindAncestor[T any](it *Item) (T, bool) {
	var zero T
	for cur := it; cur != nil; cur = cur.parent {
		if v, ok := cur.self.(T); ok {
			return v, true
		}
	}
	return zero, false
}
