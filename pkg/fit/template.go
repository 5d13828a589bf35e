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

package fit

import (
	"fmt"
	"strings"
)

// Template holds a simulation description with named placeholders of the
// form "[[name]]", following the template-simulation substitution
// mechanism named in §9 ("Parameter substitution in a template simulation
// description"): a single XML document is reused across every individual
// of a generation, with each individual's allele values spliced in before
// the simulation runs.
type Template struct {
	Text       string
	Parameters []string // the set of placeholder names the template actually references
}

// NewTemplate scans text for "[[name]]" placeholders and records the
// distinct parameter names found, in first-occurrence order.
func NewTemplate(text string) *Template {
	var names []string
	seen := map[string]bool{}
	rest := text
	for {
		start := strings.Index(rest, "[[")
		if start < 0 {
			break
		}
		end := strings.Index(rest[start:], "]]")
		if end < 0 {
			break
		}
		name := rest[start+2 : start+end]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		rest = rest[start+end+2:]
	}
	return &Template{Text: text, Parameters: names}
}

// Render substitutes every placeholder with the string form of its
// matching allele, returning an error naming the first placeholder for
// which no value was supplied.
func (t *Template) Render(values map[string]Allele) (string, error) {
	out := t.Text
	for _, name := range t.Parameters {
		v, ok := values[name]
		if !ok {
			return "", fmt.Errorf("fit: template parameter %q has no value", name)
		}
		out = strings.ReplaceAll(out, "[["+name+"]]", v.String())
	}
	return out, nil
}
