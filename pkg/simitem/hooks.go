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

// DefaultHooks implements Hooks with no-op setup steps, for embedding by
// concrete item types that only need one of setupBefore/setupAfter.
type DefaultHooks struct{}

func (DefaultHooks) SetupBefore() error { return nil }
func (DefaultHooks) SetupAfter() error  { return nil }
