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

package farm

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID extracts the numeric id from the current goroutine's stack
// trace header ("goroutine NNN [running]:"). The runtime does not expose
// goroutine identity directly; parsing the trace header is the standard
// workaround used to enforce "same goroutine that constructed X" rules,
// here for the Manager's "construction thread only" restriction (§5).
func goroutineID() uint64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	i := bytes.IndexByte(buf, ' ')
	if i < 0 {
		return 0
	}
	id, _ := strconv.ParseUint(string(buf[:i]), 10, 64)
	return id
}
