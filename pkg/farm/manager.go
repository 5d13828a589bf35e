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
	"sync"

	"github.com/skirtgo/skirt/internal/fatal"
)

// State is the manager's lifecycle state (§4.4): Created -> (AcquireSlaves)
// -> Acquired -> (PerformTask)* -> (ReleaseSlaves) -> Created.
type State int

const (
	Created State = iota
	Acquired
)

// Manager is the master-slave task farm dispatcher. It must be
// constructed, used, and released from the same goroutine (§5 "restricted
// to the construction thread, enforced by comparing the current thread
// identity on entry"); calling any non-status method from elsewhere is
// FATAL.
type Manager struct {
	ownerGoroutine uint64
	maxEnvelope    int
	numWorkers     int
	transport      *RemoteTransport

	mu         sync.Mutex
	state      State
	tasks      []Task
	performing bool
}

// NewManager constructs a Manager bound to the calling goroutine.
// numWorkers sizes the local-mode pool (§5 "ParallelFactory ... size
// defaults to the number of logical cores"; ignored when transport is
// non-nil). A non-nil transport switches the manager to remote mode
// (§4.4 "selected automatically when an external multi-process
// environment reports more than one participant").
func NewManager(numWorkers int, transport *RemoteTransport) *Manager {
	return &Manager{
		ownerGoroutine: goroutineID(),
		maxEnvelope:    DefaultMaxBytes,
		numWorkers:     numWorkers,
		transport:      transport,
	}
}

// SetMaxEnvelopeBytes overrides the default serialized-envelope cap.
func (m *Manager) SetMaxEnvelopeBytes(n int) { m.maxEnvelope = n }

// State returns the manager's current lifecycle state; it is a status
// method and may be called from any goroutine.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) checkOwner() {
	if goroutineID() != m.ownerGoroutine {
		panic(fatal.New("farm: Manager method called from a goroutine other than the one that constructed it"))
	}
}

// RegisterTask assigns the next stable integer index to fn. Must be
// called before AcquireSlaves.
func (m *Manager) RegisterTask(fn Task) int {
	m.checkOwner()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, fn)
	return len(m.tasks) - 1
}

// AcquireSlaves transitions Created -> Acquired. Calling twice is FATAL.
func (m *Manager) AcquireSlaves() error {
	m.checkOwner()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Created {
		return fatal.New("farm: AcquireSlaves called while not in the Created state")
	}
	if m.transport != nil {
		if err := m.transport.dial(); err != nil {
			return fatal.Wrap(err, "farm: acquiring remote slaves")
		}
	}
	m.state = Acquired
	return nil
}

// ReleaseSlaves transitions Acquired -> Created. Calling while a
// PerformTask call is in flight is FATAL.
func (m *Manager) ReleaseSlaves() error {
	m.checkOwner()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.performing {
		return fatal.New("farm: ReleaseSlaves called while PerformTask is in progress")
	}
	if m.state != Acquired {
		return fatal.New("farm: ReleaseSlaves called while not in the Acquired state")
	}
	if m.transport != nil {
		m.transport.release()
	}
	m.state = Created
	return nil
}

// PerformTask applies the task at taskIndex to each input, preserving
// input order in the outputs (§4.4), regardless of which worker or slave
// produced each one. Calling from a slave process, or while a prior
// PerformTask on this manager is still running, is FATAL.
func (m *Manager) PerformTask(taskIndex int, inputs []Envelope) ([]Envelope, error) {
	m.checkOwner()
	if !IsMaster() {
		return nil, fatal.New("farm: PerformTask called from a slave process")
	}
	m.mu.Lock()
	if m.state != Acquired {
		m.mu.Unlock()
		return nil, fatal.New("farm: PerformTask called while not in the Acquired state")
	}
	if taskIndex < 0 || taskIndex >= len(m.tasks) {
		m.mu.Unlock()
		return nil, fatal.New(fmt.Sprintf("farm: task index %d out of range [0,%d)", taskIndex, len(m.tasks)))
	}
	if m.performing {
		m.mu.Unlock()
		return nil, fatal.New("farm: PerformTask called re-entrantly on the same manager")
	}
	m.performing = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.performing = false
		m.mu.Unlock()
	}()

	if m.transport != nil {
		return m.transport.dispatch(taskIndex, inputs, m.maxEnvelope)
	}
	return m.performLocal(taskIndex, inputs)
}

// performLocal runs a private pool of numWorkers goroutines applying
// Task_taskIndex to each input in parallel, preserving input order in
// outputs (§4.4 "Local mode").
func (m *Manager) performLocal(taskIndex int, inputs []Envelope) ([]Envelope, error) {
	task := m.tasks[taskIndex]
	outputs := make([]Envelope, len(inputs))
	errs := make([]error, len(inputs))

	n := m.numWorkers
	if n <= 0 {
		n = 1
	}
	if n > len(inputs) {
		n = len(inputs)
	}
	if n == 0 {
		return outputs, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(n)
	for w := 0; w < n; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				out, err := task(inputs[i])
				outputs[i] = out
				errs[i] = err
			}
		}()
	}
	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return outputs, nil
}
