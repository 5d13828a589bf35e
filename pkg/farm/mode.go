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
	"os"
	"strconv"
)

// sizeEnv and rankEnv name the environment variables an external
// multi-process launcher is expected to set, in the spirit of the MPI
// OMPI_COMM_WORLD_SIZE/RANK convention, so the same binary can decide
// whether it is the master, a slave, or running stand-alone (§4.4 "Remote
// mode: selected automatically when an external multi-process environment
// reports more than one participant").
const (
	sizeEnv = "SKIRT_FARM_SIZE"
	rankEnv = "SKIRT_FARM_RANK"
)

// DetectSize reports how many participants the launching environment
// declared, or 1 if none did (i.e. a single stand-alone process).
func DetectSize() int {
	v := os.Getenv(sizeEnv)
	if v == "" {
		return 1
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// DetectRank reports this process's rank within the launching
// environment, or 0 if none was declared. Rank 0 is always the master.
func DetectRank() int {
	v := os.Getenv(rankEnv)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// IsRemote reports whether the process should run in remote mode: more
// than one participant was declared by the environment.
func IsRemote() bool {
	return DetectSize() > 1
}

// IsMaster reports whether this process is the lowest-ranked participant.
func IsMaster() bool {
	return DetectRank() == 0
}
