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
	"net/rpc"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/uuid"

	"github.com/skirtgo/skirt/internal/xlog"
)

// taggedMessage is the wire envelope exchanged between master and slave: a
// tag (task index) and a serialized payload (§4.4 "Protocol"). A tag
// outside [0,numTasks) tells the slave to stop (Release).
type taggedMessage struct {
	Tag     int
	Payload []byte
}

// RemoteTransport is the cross-process message layer selected when an
// external multi-process environment reports more than one participant
// (§4.4 "Remote mode"). The lowest-ranked process is master; every other
// process runs Listen until released, grounded on sr/rpc.go's
// Cluster/Worker net/rpc pattern, adapted from the teacher's SSH-spawned
// persistent workers to the spec's tag-and-payload protocol.
type RemoteTransport struct {
	addrs   []string
	clients []*rpc.Client
}

// NewRemoteTransport builds a transport that dials the given slave
// addresses ("host:port") on AcquireSlaves.
func NewRemoteTransport(slaveAddrs []string) *RemoteTransport {
	return &RemoteTransport{addrs: slaveAddrs}
}

func (t *RemoteTransport) dial() error {
	t.clients = make([]*rpc.Client, len(t.addrs))
	for i, addr := range t.addrs {
		addr := addr
		var client *rpc.Client
		err := backoff.RetryNotify(
			func() error {
				var dialErr error
				client, dialErr = rpc.DialHTTP("tcp", addr)
				return dialErr
			},
			backoff.NewExponentialBackOff(),
			func(err error, d time.Duration) {
				xlog.Warnf("farm: dialing slave %s: %v; retrying in %v", addr, err, d)
			},
		)
		if err != nil {
			return fmt.Errorf("farm: dialing slave %s: %w", addr, err)
		}
		t.clients[i] = client
	}
	return nil
}

// release sends one out-of-range tag to each slave to terminate its
// Listen loop (§4.4 "Release").
func (t *RemoteTransport) release() {
	for i, c := range t.clients {
		if c == nil {
			continue
		}
		var reply taggedMessage
		c.Call("Slave.Handle", &taggedMessage{Tag: -1}, &reply)
		c.Close()
		t.clients[i] = nil
	}
}

// dispatch implements the master side of the protocol (§4.4): the first
// min(numSlaves, numItems) slaves each get one input; thereafter, as each
// reply arrives, the just-freed slave is given the next pending input,
// looping exactly numItems times.
func (t *RemoteTransport) dispatch(taskIndex int, inputs []Envelope, maxBytes int) ([]Envelope, error) {
	outputs := make([]Envelope, len(inputs))
	n := len(t.clients)
	if n == 0 {
		return nil, fmt.Errorf("farm: remote mode with zero slaves")
	}

	type reply struct {
		slave int
		slot  int
		out   Envelope
		err   error
	}
	replies := make(chan reply, n)
	next := 0

	send := func(slave, slot int) {
		payload, err := Marshal(inputs[slot], maxBytes)
		if err != nil {
			replies <- reply{slave: slave, slot: slot, err: err}
			return
		}
		go func() {
			id := uuid.New()
			var resp taggedMessage
			callErr := t.clients[slave].Call("Slave.Handle", &taggedMessage{Tag: taskIndex, Payload: payload}, &resp)
			if callErr != nil {
				replies <- reply{slave: slave, slot: slot, err: fmt.Errorf("farm: request %s to slave %d: %w", id, slave, callErr)}
				return
			}
			out, err := Unmarshal(resp.Payload)
			replies <- reply{slave: slave, slot: slot, out: out, err: err}
		}()
	}

	numDispatched := n
	if numDispatched > len(inputs) {
		numDispatched = len(inputs)
	}
	for s := 0; s < numDispatched; s++ {
		send(s, next)
		next++
	}

	for received := 0; received < len(inputs); received++ {
		r := <-replies
		if r.err != nil {
			return nil, r.err
		}
		outputs[r.slot] = r.out
		if next < len(inputs) {
			send(r.slave, next)
			next++
		}
	}
	return outputs, nil
}
