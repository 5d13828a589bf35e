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
	"fmt"
	"net"
	"net/http"
	"net/rpc"

	"github.com/skirtgo/skirt/internal/xlog"
)

// Slave is the RPC-exported type a non-master process registers and
// serves while looping in Listen (§4.4 "Protocol (remote mode, slave)").
// It is exported only to satisfy net/rpc's registration requirements;
// callers should not invoke its methods directly.
type Slave struct {
	tasks    []Task
	maxBytes int
	done     chan struct{}
}

// NewSlave builds a Slave bound to the given task table, in the same
// order the tasks were registered on the master's Manager.
func NewSlave(tasks []Task, maxBytes int) *Slave {
	return &Slave{tasks: tasks, maxBytes: maxBytes, done: make(chan struct{})}
}

// Handle implements the wire protocol: a tag in [0,numTasks) runs that
// task and replies with the same tag; any other tag closes done so Listen
// returns (§4.4 "Release: master sends one out-of-range tag to each
// slave").
func (s *Slave) Handle(req *taggedMessage, resp *taggedMessage) error {
	if req.Tag < 0 || req.Tag >= len(s.tasks) {
		close(s.done)
		*resp = taggedMessage{Tag: req.Tag}
		return nil
	}
	in, err := Unmarshal(req.Payload)
	if err != nil {
		return fmt.Errorf("farm: slave deserializing input: %w", err)
	}
	out, err := s.tasks[req.Tag](in)
	if err != nil {
		return err
	}
	payload, err := Marshal(out, s.maxBytes)
	if err != nil {
		return err
	}
	*resp = taggedMessage{Tag: req.Tag, Payload: payload}
	return nil
}

// Listen registers s and serves RPC requests over addr (host:port) until
// Handle observes the release tag.
func Listen(s *Slave, addr string) error {
	if err := rpc.Register(s); err != nil {
		return fmt.Errorf("farm: registering slave: %w", err)
	}
	rpc.HandleHTTP()
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("farm: listening on %s: %w", addr, err)
	}
	xlog.Infof("farm: slave listening on %s", addr)
	go http.Serve(l, nil)
	<-s.done
	return nil
}
