// Package sim provides the logical-clock launch simulation engine for
// launchsim.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - clock.go: the shared simulated clock (single writer, lock-free readers)
//   - worker.go: the busy-wait worker loop and its deadline comparison
//   - controller.go: the tick loop, the reap path, and the three launch gates
//
// # Architecture
//
// The controller is the only goroutine that mutates shared state: it owns
// the clock writes, the worker table, and the launch counters. Workers share
// exactly two things with it, the read side of the clock and the buffered
// completion channel, so the table and counters need no locking.
//
// Time never comes from the host. The clock advances a fixed number of
// simulated nanoseconds per controller iteration, and every scheduling
// decision (launch spacing, worker deadlines, status edges) compares
// snapshots of it. Wall-clock time appears in exactly one place: the
// supervisor's watchdog, which bounds how long the host process may run.
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - DurationSampler: draws the simulated lifetime assigned at launch
//   - WaitStrategy: what a worker does between clock polls (spin or yield)
//   - SpawnFunc: how the controller starts a worker goroutine
//
// Supervision (supervisor.go) layers interrupt handling and the wall-clock
// watchdog over the controller; the journal (recorder.go) buffers lifecycle
// events for export and for test assertions.
package sim
